package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// PipelineEvent represents one stage of the digitization pipeline
type PipelineEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	ImageURL       string                 `json:"image_url"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of pipeline event
type EventType string

const (
	// ImageFetched when a chart image is successfully fetched
	ImageFetched EventType = "image_fetched"
	// ImageFetchFailed when a chart image fetch fails
	ImageFetchFailed EventType = "image_fetch_failed"
	// TraceExtracted when the pixel trace is successfully extracted
	TraceExtracted EventType = "trace_extracted"
	// TraceExtractionFailed when trace extraction fails
	TraceExtractionFailed EventType = "trace_extraction_failed"
	// ForecastCompleted when the ensemble forecast finishes
	ForecastCompleted EventType = "forecast_completed"
	// ForecastFailed when forecasting fails
	ForecastFailed EventType = "forecast_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event PipelineEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event PipelineEvent)
}

// LoggingObserver logs pipeline events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles pipeline events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event PipelineEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"image_url":       event.ImageURL,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}

	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	if event.Metadata != nil {
		for k, v := range event.Metadata {
			fields[k] = v
		}
	}

	switch event.EventType {
	case ImageFetched:
		o.logger.WithFields(fields).Debug("Chart image fetched")
	case ImageFetchFailed:
		o.logger.WithFields(fields).Error("Chart image fetch failed")
	case TraceExtracted:
		o.logger.WithFields(fields).Info("Chart trace extracted")
	case TraceExtractionFailed:
		o.logger.WithFields(fields).Error("Chart trace extraction failed")
	case ForecastCompleted:
		o.logger.WithFields(fields).Info("Forecast completed")
	case ForecastFailed:
		o.logger.WithFields(fields).Error("Forecast failed")
	default:
		o.logger.WithFields(fields).Info("Pipeline event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects metrics from pipeline events
type MetricsObserver struct {
	mu                  sync.RWMutex
	totalForecasts      int64
	successfulForecasts int64
	failedForecasts     int64
	fetchFailures       int64
	totalProcessingTime time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() Observer {
	return &MetricsObserver{}
}

// OnEvent handles pipeline events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event PipelineEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case ImageFetchFailed:
		o.fetchFailures++
	case ForecastCompleted:
		o.totalForecasts++
		o.successfulForecasts++
		o.totalProcessingTime += event.ProcessingTime
	case ForecastFailed, TraceExtractionFailed:
		o.totalForecasts++
		o.failedForecasts++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	if o.successfulForecasts > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.successfulForecasts)
	}

	return map[string]interface{}{
		"total_forecasts":       o.totalForecasts,
		"successful_forecasts":  o.successfulForecasts,
		"failed_forecasts":      o.failedForecasts,
		"fetch_failures":        o.fetchFailures,
		"total_processing_time": o.totalProcessingTime,
		"avg_processing_time":   avgProcessingTime,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event
func (p *EventPublisher) NotifyObservers(ctx context.Context, event PipelineEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				// A panicking observer must not take down the pipeline.
				_ = recover()
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
