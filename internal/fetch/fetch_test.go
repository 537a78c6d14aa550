package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Lllllllleong/lawsuitflow/internal/apperr"
)

func TestExtensionFor(t *testing.T) {
	tests := map[string]string{
		"application/pdf":           "pdf",
		"application/pdf; qs=0.001": "pdf",
		"image/jpeg":                "jpg",
		"image/png":                 "jpg",
		"application/octet-stream":  "file",
		"":                          "file",
	}
	for ct, want := range tests {
		assert.Equal(t, want, ExtensionFor(ct), ct)
	}
}

func TestFetch_RetriesTransientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	c := NewClient(time.Second, zaptest.NewLogger(t), WithRetry(3, time.Millisecond))
	obj, err := c.Fetch(context.Background(), srv.URL+"/cr.pdf")
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, "pdf", obj.Extension())
	assert.Equal(t, "%PDF-1.7", string(obj.Data))
}

func TestFetch_NotFoundIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(time.Second, zaptest.NewLogger(t), WithRetry(4, time.Millisecond))
	_, err := c.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, apperr.ErrCodeFetch, apperr.CodeOf(err))
}

func TestFetch_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(time.Second, zaptest.NewLogger(t), WithRetry(2, time.Millisecond))
	_, err := c.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Contains(t, err.Error(), "500")
}

func TestFetch_SniffsMissingContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 'J', 'F', 'I', 'F', 0})
	}))
	defer srv.Close()

	obj, err := NewClient(time.Second, zaptest.NewLogger(t)).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "jpg", obj.Extension())
}

type memObjects map[string][]byte

func (m memObjects) Get(_ context.Context, path string) ([]byte, string, error) {
	data, ok := m[path]
	if !ok {
		return nil, "", errors.New("object not found")
	}
	return data, "application/pdf", nil
}

func TestFetch_OwnBucketReadsThroughStore(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	store := memObjects{"company/co-1/commercial register.pdf": []byte("%PDF-1.4")}
	c := NewClient(time.Second, zaptest.NewLogger(t),
		WithObjectStore("https://storage.googleapis.com/lawsuits/", store))

	obj, err := c.Fetch(context.Background(), "https://storage.googleapis.com/lawsuits/company/co-1/commercial%20register.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(obj.Data))
	assert.Equal(t, "pdf", obj.Extension())

	_, err = c.Fetch(context.Background(), "https://storage.googleapis.com/lawsuits/missing.pdf")
	var fe *apperr.FetchError
	require.ErrorAs(t, err, &fe)

	// other hosts still go over HTTP
	_, _ = c.Fetch(context.Background(), srv.URL+"/x")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
