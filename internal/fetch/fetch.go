// Package fetch downloads previously uploaded binaries by URL.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Lllllllleong/lawsuitflow/internal/apperr"
)

// Object is a downloaded file.
type Object struct {
	Data        []byte
	ContentType string
}

// Extension maps the content type to the archive file extension: pdf, jpg for any image, file otherwise.
func (o Object) Extension() string {
	return ExtensionFor(o.ContentType)
}

// ExtensionFor maps a content type to pdf, jpg or file.
func ExtensionFor(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch {
	case strings.Contains(mt, "pdf"):
		return "pdf"
	case strings.HasPrefix(mt, "image/"):
		return "jpg"
	}
	return "file"
}

// ObjectReader reads objects from the pipeline's own bucket. Implemented by gcp.BlobStore and minio.BlobStore.
type ObjectReader interface {
	Get(ctx context.Context, path string) ([]byte, string, error)
}

// Client fetches over HTTP with exponential backoff on transient failures.
type Client struct {
	http       *http.Client
	maxRetries int
	backoff    time.Duration
	maxBytes   int64
	store      ObjectReader
	storeBase  string
	log        *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithRetry sets the attempt count and initial backoff.
func WithRetry(maxRetries int, backoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.backoff = backoff
	}
}

// WithObjectStore reads URLs under baseURL through r instead of HTTP.
func WithObjectStore(baseURL string, r ObjectReader) Option {
	return func(c *Client) {
		c.store = r
		c.storeBase = baseURL
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(timeout time.Duration, log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		http:       &http.Client{Timeout: timeout},
		maxRetries: 3,
		backoff:    time.Second,
		maxBytes:   50 << 20,
		log:        log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// errPermanent marks responses that retrying cannot fix.
var errPermanent = errors.New("permanent failure")

// Fetch downloads url. Failures are returned as *apperr.FetchError.
func (c *Client) Fetch(ctx context.Context, url string) (Object, error) {
	if c.store != nil && c.storeBase != "" && strings.HasPrefix(url, c.storeBase) {
		return c.fetchStored(ctx, url)
	}

	backoff := c.backoff
	var lastErr error

	for i := 0; i < c.maxRetries; i++ {
		obj, err := c.fetchOnce(ctx, url)
		if err == nil {
			return obj, nil
		}
		lastErr = err
		if errors.Is(err, errPermanent) {
			break
		}

		c.log.Warn("Fetch failed, will retry.",
			zap.String("url", url),
			zap.Int("attempt", i+1),
			zap.Int("maxRetries", c.maxRetries),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		if i == c.maxRetries-1 {
			break
		}
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return Object{}, &apperr.FetchError{URL: url, Err: ctx.Err()}
		}
	}
	c.log.Error("Fetch failed.", zap.String("url", url), zap.Error(lastErr))
	return Object{}, &apperr.FetchError{URL: url, Err: lastErr}
}

func (c *Client) fetchOnce(ctx context.Context, url string) (Object, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Object{}, fmt.Errorf("%w: %v", errPermanent, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Object{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return Object{}, fmt.Errorf("server returned %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return Object{}, fmt.Errorf("%w: server returned %d", errPermanent, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return Object{}, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > c.maxBytes {
		return Object{}, fmt.Errorf("%w: body exceeds %d bytes", errPermanent, c.maxBytes)
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return Object{Data: data, ContentType: ct}, nil
}

func (c *Client) fetchStored(ctx context.Context, url string) (Object, error) {
	path, err := neturl.PathUnescape(strings.TrimPrefix(url, c.storeBase))
	if err != nil {
		return Object{}, &apperr.FetchError{URL: url, Err: err}
	}
	data, ct, err := c.store.Get(ctx, path)
	if err != nil {
		c.log.Error("Stored object read failed.", zap.String("path", path), zap.Error(err))
		return Object{}, &apperr.FetchError{URL: url, Err: err}
	}
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return Object{Data: data, ContentType: ct}, nil
}
