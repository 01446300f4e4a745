package storage

import (
	"context"
	"image"
	"time"
)

// timeoutFetcher caps every fetch with its own deadline, independent of the
// request-level timeout.
type timeoutFetcher struct {
	inner   ChartImageFetcher
	timeout time.Duration
}

// WithTimeout decorates a fetcher with a per-fetch deadline. A non-positive
// timeout returns the fetcher unchanged.
func WithTimeout(inner ChartImageFetcher, timeout time.Duration) ChartImageFetcher {
	if timeout <= 0 {
		return inner
	}
	return &timeoutFetcher{inner: inner, timeout: timeout}
}

// FetchImage fetches under the decorated deadline
func (t *timeoutFetcher) FetchImage(ctx context.Context, source string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.FetchImage(ctx, source)
}
