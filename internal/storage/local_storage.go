package storage

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	apperrors "go-chart-digitizer/internal/errors"
)

// LocalImageFetcher implements ChartImageFetcher for charts already on disk.
// The source is interpreted as a file path.
type LocalImageFetcher struct{}

// NewLocalImageFetcher creates a filesystem chart image fetcher
func NewLocalImageFetcher() ChartImageFetcher {
	return &LocalImageFetcher{}
}

// FetchImage opens and decodes a chart image from the local filesystem
func (l *LocalImageFetcher) FetchImage(ctx context.Context, source string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open chart image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, apperrors.NewDecodeError("failed to decode chart image", err)
	}
	return img, nil
}
