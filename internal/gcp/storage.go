package gcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

const (
	defaultUploadRetries = 4
	defaultUploadBackoff = time.Second
	uploadAttemptTimeout = 50 * time.Second
)

// BlobStore writes generated documents and archives to a GCS bucket.
type BlobStore struct {
	bucket  *storage.BucketHandle
	name    string
	retries int
	backoff time.Duration
	log     *zap.Logger
}

func NewBlobStore(client *storage.Client, bucket string, log *zap.Logger) *BlobStore {
	return &BlobStore{
		bucket:  client.Bucket(bucket),
		name:    bucket,
		retries: defaultUploadRetries,
		backoff: defaultUploadBackoff,
		log:     log,
	}
}

// Put writes data to path only if no object exists there yet. An existing object is not a failure:
// paths carry a millisecond timestamp, so a collision means the same upload already landed.
func (b *BlobStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	logCtx := b.log.With(zap.String("bucket", b.name), zap.String("object", path))

	err := withRetry(ctx, b.retries, b.backoff, func(ctx context.Context) error {
		writeCtx, cancel := context.WithTimeout(ctx, uploadAttemptTimeout)
		defer cancel()

		w := b.bucket.Object(path).If(storage.Conditions{DoesNotExist: true}).NewWriter(writeCtx)
		w.ContentType = contentType
		if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
			_ = w.Close()
			return err
		}
		return w.Close()
	})
	if isPreconditionFailed(err) {
		logCtx.Info("Object already exists, skipping upload")
		return ObjectURL(b.name, path), nil
	}
	if err != nil {
		logCtx.Error("Upload failed", zap.Error(err))
		return "", fmt.Errorf("failed to write to GCS: %w", err)
	}
	return ObjectURL(b.name, path), nil
}

// Get reads an object back. The export fetcher uses it for files in the pipeline bucket.
func (b *BlobStore) Get(ctx context.Context, path string) ([]byte, string, error) {
	r, err := b.bucket.Object(path).NewReader(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("open gs://%s/%s: %w", b.name, path, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read gs://%s/%s: %w", b.name, path, err)
	}
	return data, r.Attrs.ContentType, nil
}

// ObjectURL is the public HTTPS URL of an object.
func ObjectURL(bucket, path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, strings.Join(parts, "/"))
}

func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}

// withRetry runs fn up to attempts times with exponential backoff. Precondition failures are final.
func withRetry(ctx context.Context, attempts int, backoff time.Duration, fn func(context.Context) error) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		lastErr = fn(ctx)
		if lastErr == nil || isPreconditionFailed(lastErr) {
			return lastErr
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry backoff: %w", ctx.Err())
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
