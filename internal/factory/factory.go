package factory

import (
	"fmt"

	"go-chart-digitizer/internal/analyzer"
	"go-chart-digitizer/internal/config"
	"go-chart-digitizer/internal/storage"
	"go-chart-digitizer/pkg/validation"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based chart fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
	// LocalStorage for local file system
	LocalStorage StorageType = "local"
)

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.ChartImageFetcher, error)
}

// AnalyzerFactory creates chart analyzers
type AnalyzerFactory interface {
	CreateAnalyzer() (analyzer.ChartAnalyzer, error)
}

// ValidatorFactory creates source validators matched to a storage backend
type ValidatorFactory interface {
	CreateSourceValidator(storageType StorageType) *validation.SourceValidator
}

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates a storage implementation based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.ChartImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(), nil
	case AzureStorage:
		if f.cfg.AzureAccountName == "" || f.cfg.AzureAccountKey == "" {
			return nil, fmt.Errorf("azure storage requires AZURE_ACCOUNT_NAME and AZURE_ACCOUNT_KEY")
		}
		return storage.NewAzureImageFetcher(f.cfg.AzureAccountName, f.cfg.AzureAccountKey)
	case LocalStorage:
		return storage.NewLocalImageFetcher(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// analyzerFactory implements AnalyzerFactory
type analyzerFactory struct {
	cfg *config.Config
}

// NewAnalyzerFactory creates a new analyzer factory
func NewAnalyzerFactory(cfg *config.Config) AnalyzerFactory {
	return &analyzerFactory{cfg: cfg}
}

// CreateAnalyzer creates a chart analyzer using the configured profile
// registry and scan defaults
func (f *analyzerFactory) CreateAnalyzer() (analyzer.ChartAnalyzer, error) {
	registry := analyzer.DefaultRegistry()
	if f.cfg.ColorProfilesPath != "" {
		loaded, err := analyzer.LoadRegistry(f.cfg.ColorProfilesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load color profiles: %w", err)
		}
		registry = loaded
	}

	defaults := analyzer.DefaultOptions()
	defaults.MarginFraction = f.cfg.MarginFraction
	defaults.ColumnStride = f.cfg.ColumnStride
	defaults.ColorSampleStride = f.cfg.ColorSampleStride
	defaults.OutlierZThreshold = f.cfg.OutlierZThreshold
	defaults.OutlierMinPoints = f.cfg.OutlierMinPoints
	defaults.SmoothWindow = f.cfg.SmoothWindow
	defaults.MinTracePoints = f.cfg.MinTracePoints
	defaults.DefaultProfile = f.cfg.DefaultProfile

	return analyzer.NewChartAnalyzer(registry, defaults)
}

// validatorFactory implements ValidatorFactory
type validatorFactory struct{}

// NewValidatorFactory creates a new validator factory
func NewValidatorFactory() ValidatorFactory {
	return &validatorFactory{}
}

// CreateSourceValidator builds a source validator for the backend.
// Local storage accepts plain filesystem paths, the others require URLs.
func (f *validatorFactory) CreateSourceValidator(storageType StorageType) *validation.SourceValidator {
	if storageType == LocalStorage {
		return validation.NewSourceValidatorWithOptions([]string{"http", "https", "file"}, nil, true)
	}
	return validation.NewSourceValidator()
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	AnalyzerFactory  AnalyzerFactory
	StorageFactory   StorageFactory
	ValidatorFactory ValidatorFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		AnalyzerFactory:  NewAnalyzerFactory(cfg),
		StorageFactory:   NewStorageFactory(cfg),
		ValidatorFactory: NewValidatorFactory(),
	}
}
