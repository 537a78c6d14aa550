// Package minio stores generated files in an S3-compatible MinIO bucket.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Lllllllleong/lawsuitflow/internal/config"
)

type BlobStore struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

// Option adjusts the underlying client options.
type Option func(*minio.Options)

// WithRegion pins the bucket region and skips the location lookup.
func WithRegion(region string) Option {
	return func(o *minio.Options) { o.Region = region }
}

func NewBlobStore(cfg config.MinioConfig, bucket string, opts ...Option) (*BlobStore, error) {
	mo := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	}
	for _, opt := range opts {
		opt(mo)
	}
	client, err := minio.New(cfg.Endpoint, mo)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &BlobStore{client: client, bucket: bucket, endpoint: cfg.Endpoint, useSSL: cfg.UseSSL}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (s *BlobStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

func (s *BlobStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return s.PublicURL(path), nil
}

func (s *BlobStore) Get(ctx context.Context, path string) ([]byte, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return nil, "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, info.ContentType, nil
}

// PublicURL is the object URL, reachable when the bucket policy allows anonymous reads.
func (s *BlobStore) PublicURL(path string) string {
	protocol := "http"
	if s.useSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.endpoint, s.bucket, path)
}
