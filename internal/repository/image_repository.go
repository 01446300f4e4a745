package repository

import (
	"context"
	"image"

	"go-chart-digitizer/internal/storage"
	"go-chart-digitizer/pkg/validation"
)

// FetcherChartRepository implements ChartImageRepository over any
// storage.ChartImageFetcher backend
type FetcherChartRepository struct {
	fetcher   storage.ChartImageFetcher
	validator *validation.SourceValidator
}

// NewChartImageRepository creates a repository over the given fetcher
func NewChartImageRepository(fetcher storage.ChartImageFetcher, validator *validation.SourceValidator) ChartImageRepository {
	if validator == nil {
		validator = validation.NewSourceValidator()
	}
	return &FetcherChartRepository{
		fetcher:   fetcher,
		validator: validator,
	}
}

// FetchImage retrieves a decoded chart image from a source reference
func (r *FetcherChartRepository) FetchImage(ctx context.Context, source string) (image.Image, error) {
	return r.fetcher.FetchImage(ctx, source)
}

// ValidateSource validates if the provided source reference is acceptable
func (r *FetcherChartRepository) ValidateSource(source string) error {
	if source == "" {
		return ErrInvalidSource
	}
	return r.validator.ValidateSource(source)
}
