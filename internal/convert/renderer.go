package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Renderer captures HTML as a single full-height PNG of the given CSS pixel width.
type Renderer interface {
	Screenshot(ctx context.Context, html string, width int) ([]byte, error)
}

// HTTPRenderer posts documents to a headless-browser screenshot service as a multipart form.
type HTTPRenderer struct {
	endpoint string
	client   *http.Client
}

// NewHTTPRenderer targets baseURL + "/forms/chromium/screenshot/html".
func NewHTTPRenderer(baseURL string, timeout time.Duration) *HTTPRenderer {
	return &HTTPRenderer{
		endpoint: strings.TrimRight(baseURL, "/") + "/forms/chromium/screenshot/html",
		client:   &http.Client{Timeout: timeout},
	}
}

func (r *HTTPRenderer) Screenshot(ctx context.Context, html string, width int) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.WriteString(fw, html); err != nil {
		return nil, fmt.Errorf("write html part: %w", err)
	}
	for k, v := range map[string]string{
		"width":  strconv.Itoa(width),
		"format": "png",
		"clip":   "false",
	} {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("build render request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("render service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	img, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read render response: %w", err)
	}
	return img, nil
}
