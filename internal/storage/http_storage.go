package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	apperrors "go-chart-digitizer/internal/errors"
)

// ChartImageFetcher retrieves a chart image from some source and decodes it
// into a random-access pixel grid. The core places no constraints on the
// format beyond random pixel access.
type ChartImageFetcher interface {
	FetchImage(ctx context.Context, source string) (image.Image, error)
}

// HTTPImageFetcher implements ChartImageFetcher over HTTP(S)
type HTTPImageFetcher struct {
	client *http.Client
}

// NewHTTPImageFetcher creates an HTTP chart image fetcher
func NewHTTPImageFetcher() ChartImageFetcher {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,

		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

// FetchImage downloads and decodes a chart image. Transient failures and 5xx
// responses are retried up to three attempts; 4xx responses fail immediately.
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, source string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/png, image/jpeg, image/gif, */*")
	req.Header.Set("User-Agent", "Go-Chart-Digitizer/1.0")

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := h.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			img, _, err := image.Decode(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, apperrors.NewDecodeError("failed to decode chart image", err)
			}
			return img, nil
		}

		resp.Body.Close()
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, fmt.Errorf("client error: status code %d", resp.StatusCode)
		}
		lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
	}

	return nil, fmt.Errorf("failed to fetch image after 3 attempts: %w", lastErr)
}
