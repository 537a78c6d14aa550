package minio

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/lawsuitflow/internal/config"
)

func TestBlobStore_PublicURL(t *testing.T) {
	tests := []struct {
		name     string
		useSSL   bool
		endpoint string
		path     string
		expected string
	}{
		{"http url", false, "localhost:9000", "lawsuits/co-1/ct-1/1-a.html", "http://localhost:9000/lawsuits/lawsuits/co-1/ct-1/1-a.html"},
		{"https url", true, "minio.example.com", "x/y.zip", "https://minio.example.com/lawsuits/x/y.zip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &BlobStore{bucket: "lawsuits", endpoint: tt.endpoint, useSSL: tt.useSSL}
			assert.Equal(t, tt.expected, s.PublicURL(tt.path))
		})
	}
}

func TestBlobStore_Put(t *testing.T) {
	var (
		mu          sync.Mutex
		gotPath     string
		gotType     string
		gotBodySize int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBodySize = len(body)
		mu.Unlock()
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	endpoint := strings.TrimPrefix(srv.URL, "http://")
	s, err := NewBlobStore(config.MinioConfig{Endpoint: endpoint, AccessKey: "k", SecretKey: "s"}, "lawsuits", WithRegion("us-east-1"))
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "co-1/ct-1/memo.html", []byte("<p>memo</p>"), "text/html;charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "http://"+endpoint+"/lawsuits/co-1/ct-1/memo.html", url)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/lawsuits/co-1/ct-1/memo.html", gotPath)
	assert.Equal(t, "text/html;charset=utf-8", gotType)
	assert.Positive(t, gotBodySize)
}
