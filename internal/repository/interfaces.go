package repository

import (
	"context"
	"image"
)

// ChartImageRepository defines the interface for chart image access
type ChartImageRepository interface {
	// FetchImage retrieves a decoded chart image from a source reference
	FetchImage(ctx context.Context, source string) (image.Image, error)

	// ValidateSource validates if the provided source reference is acceptable
	ValidateSource(source string) error
}
