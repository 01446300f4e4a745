package container

import (
	"fmt"
	"net/http"

	"go-chart-digitizer/internal/analyzer"
	"go-chart-digitizer/internal/config"
	"go-chart-digitizer/internal/factory"
	"go-chart-digitizer/internal/forecast"
	"go-chart-digitizer/internal/logger"
	"go-chart-digitizer/internal/observer"
	"go-chart-digitizer/internal/repository"
	"go-chart-digitizer/internal/service"
	"go-chart-digitizer/internal/storage"
	"go-chart-digitizer/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	imageFetcher    storage.ChartImageFetcher
	chartAnalyzer   analyzer.ChartAnalyzer
	chartRepository repository.ChartImageRepository
	forecastService service.ChartForecastService
	metricsObserver observer.Observer
	handler         http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewContainerWithConfig(cfg)
}

// NewContainerWithConfig builds the dependency graph for a known configuration
func NewContainerWithConfig(cfg *config.Config) (*Container, error) {
	factories := factory.NewComponentFactory(cfg)

	storageType := factory.StorageType(cfg.StorageBackend)
	imageFetcher, err := factories.StorageFactory.CreateStorage(storageType)
	if err != nil {
		return nil, err
	}
	imageFetcher = storage.WithTimeout(imageFetcher, cfg.ImageFetchTimeout)

	chartAnalyzer, err := factories.AnalyzerFactory.CreateAnalyzer()
	if err != nil {
		return nil, err
	}

	sourceValidator := factories.ValidatorFactory.CreateSourceValidator(storageType)
	chartRepository := repository.NewChartImageRepository(imageFetcher, sourceValidator)

	engine := forecast.NewEngine(forecast.Options{
		PolynomialDegree: cfg.PolynomialDegree,
		RecentWindow:     cfg.RecentWindow,
	})

	metricsObserver := observer.NewMetricsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metricsObserver)

	defaults := analyzer.DefaultOptions()
	defaults.MarginFraction = cfg.MarginFraction
	defaults.ColumnStride = cfg.ColumnStride
	defaults.ColorSampleStride = cfg.ColorSampleStride
	defaults.OutlierZThreshold = cfg.OutlierZThreshold
	defaults.OutlierMinPoints = cfg.OutlierMinPoints
	defaults.SmoothWindow = cfg.SmoothWindow
	defaults.MinTracePoints = cfg.MinTracePoints
	defaults.DefaultProfile = cfg.DefaultProfile

	forecastService := service.NewChartForecastService(
		chartRepository, chartAnalyzer, engine, publisher, defaults,
		forecast.Options{
			PolynomialDegree: cfg.PolynomialDegree,
			RecentWindow:     cfg.RecentWindow,
		})

	handler := transport.NewHandler(forecastService, cfg)

	return &Container{
		config:          cfg,
		imageFetcher:    imageFetcher,
		chartAnalyzer:   chartAnalyzer,
		chartRepository: chartRepository,
		forecastService: forecastService,
		metricsObserver: metricsObserver,
		handler:         handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// ForecastService returns the pipeline service
func (c *Container) ForecastService() service.ChartForecastService {
	return c.forecastService
}

// Close releases analyzer resources
func (c *Container) Close() error {
	return c.chartAnalyzer.Close()
}
