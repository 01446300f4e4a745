package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"go-chart-digitizer/internal/analyzer"
	apperrors "go-chart-digitizer/internal/errors"
	"go-chart-digitizer/internal/forecast"
	"go-chart-digitizer/internal/mapper"
	"go-chart-digitizer/internal/observer"
	"go-chart-digitizer/internal/repository"
	"go-chart-digitizer/internal/strategy"
	"go-chart-digitizer/pkg/models"
	"go-chart-digitizer/pkg/validation"
)

// dateLayout is the wire format for request dates
const dateLayout = "2006-01-02"

// ChartForecastService defines the interface for the full digitize-and-forecast pipeline
type ChartForecastService interface {
	Forecast(ctx context.Context, request models.ForecastRequest) (*models.ChartForecastResponse, error)
	ForecastDetailed(ctx context.Context, request models.ForecastRequest) (*models.DetailedForecastResponse, error)
	ValidateSource(source string) error
}

// chartForecastService implements ChartForecastService
type chartForecastService struct {
	chartRepo      repository.ChartImageRepository
	chartAnalyzer  analyzer.ChartAnalyzer
	engine         *forecast.Engine
	chartValidator *validation.ChartValidator
	publisher      observer.Subject
	defaults       analyzer.AnalysisOptions
	forecastOpts   forecast.Options
}

// NewChartForecastService creates a new chart forecast service
func NewChartForecastService(
	chartRepo repository.ChartImageRepository,
	chartAnalyzer analyzer.ChartAnalyzer,
	engine *forecast.Engine,
	publisher observer.Subject,
	defaults analyzer.AnalysisOptions,
	forecastOpts forecast.Options,
) ChartForecastService {
	return &chartForecastService{
		chartRepo:      chartRepo,
		chartAnalyzer:  chartAnalyzer,
		engine:         engine,
		chartValidator: validation.NewChartValidator(),
		publisher:      publisher,
		defaults:       defaults,
		forecastOpts:   forecastOpts,
	}
}

// pipelineResult carries everything one run of the pipeline produced
type pipelineResult struct {
	img      image.Image
	trace    *analyzer.TraceResult
	series   []mapper.DomainPoint
	forecast *forecast.PredictionResult
	lookup   *models.LookupResult
	target   time.Time
	options  analyzer.AnalysisOptions
	issues   []validation.ChartIssue
	started  time.Time
}

// Forecast runs the pipeline and returns the summary response
func (s *chartForecastService) Forecast(ctx context.Context, request models.ForecastRequest) (*models.ChartForecastResponse, error) {
	run, err := s.runPipeline(ctx, request)
	if err != nil {
		return nil, err
	}

	response := &models.ChartForecastResponse{
		ImageURL:          request.URL,
		Timestamp:         run.trace.Timestamp.Format(time.RFC3339),
		ProcessingTimeSec: time.Since(run.started).Seconds(),
		Trace:             traceSummary(run.trace),
		Forecast:          forecastSummary(request.TargetDate, run.forecast),
		Lookup:            run.lookup,
		Warnings:          s.chartValidator.ConvertIssuesToMessages(run.issues),
	}
	return response, nil
}

// ForecastDetailed runs the pipeline and returns the full breakdown
func (s *chartForecastService) ForecastDetailed(ctx context.Context, request models.ForecastRequest) (*models.DetailedForecastResponse, error) {
	run, err := s.runPipeline(ctx, request)
	if err != nil {
		return nil, err
	}

	series := make([]models.SeriesPoint, len(run.series))
	for i, p := range run.series {
		series[i] = models.SeriesPoint{
			Date:  p.Timestamp.Format(dateLayout),
			Price: p.Price,
		}
	}

	modelDetails := make([]models.ModelDetail, 0, len(s.engine.Models()))
	for _, m := range s.engine.Models() {
		modelDetails = append(modelDetails, models.ModelDetail{
			Name:       m.Name,
			Weight:     m.Weight,
			Prediction: run.forecast.PerModel[m.Name],
		})
	}

	issues := make([]models.ValidationIssue, len(run.issues))
	for i, issue := range run.issues {
		issues[i] = models.ValidationIssue{
			Type:     issue.Type,
			Message:  issue.Message,
			Severity: issue.Severity,
		}
	}

	bounds := run.img.Bounds()
	response := &models.DetailedForecastResponse{
		ImageURL:          request.URL,
		Timestamp:         run.trace.Timestamp.Format(time.RFC3339),
		ProcessingTimeSec: time.Since(run.started).Seconds(),
		ImageMetadata: models.ImageMetadata{
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		},
		Trace:    traceSummary(run.trace),
		Series:   series,
		Forecast: forecastSummary(request.TargetDate, run.forecast),
		Models:   modelDetails,
		Lookup:   run.lookup,
		AppliedParameters: models.AppliedParameters{
			Profile:           run.trace.Profile,
			Preset:            request.Preset,
			MarginFraction:    run.options.MarginFraction,
			ColumnStride:      run.options.ColumnStride,
			OutlierZThreshold: run.options.OutlierZThreshold,
			SmoothWindow:      run.options.SmoothWindow,
			PolynomialDegree:  s.forecastOpts.PolynomialDegree,
			RecentWindow:      s.forecastOpts.RecentWindow,
		},
		ValidationIssues: issues,
		Warnings:         s.chartValidator.ConvertIssuesToMessages(run.issues),
	}
	return response, nil
}

// ValidateSource validates the chart image source
func (s *chartForecastService) ValidateSource(source string) error {
	return s.chartRepo.ValidateSource(source)
}

// runPipeline executes fetch, trace extraction, mapping and forecasting
func (s *chartForecastService) runPipeline(ctx context.Context, request models.ForecastRequest) (*pipelineResult, error) {
	started := time.Now()

	if err := s.chartRepo.ValidateSource(request.URL); err != nil {
		return nil, apperrors.NewValidationError("invalid chart source", err)
	}

	axes, target, lookupDate, err := parseRequest(request)
	if err != nil {
		return nil, err
	}

	if axisIssues := s.chartValidator.ValidateAxes(axes); s.chartValidator.HasCriticalIssues(axisIssues) {
		messages := s.chartValidator.ConvertIssuesToMessages(axisIssues)
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid axis ranges: %v", messages), nil)
	}

	options, err := s.resolveOptions(request)
	if err != nil {
		return nil, err
	}

	img, err := s.chartRepo.FetchImage(ctx, request.URL)
	if err != nil {
		// Fetchers surface decode failures as typed errors already; bare
		// transport errors still need the network classification to reach
		// the caller as 502 rather than 500.
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			err = apperrors.NewNetworkError("failed to fetch chart image", err)
		}
		s.publish(ctx, observer.PipelineEvent{
			EventType:    observer.ImageFetchFailed,
			Timestamp:    time.Now(),
			ImageURL:     request.URL,
			ErrorMessage: err.Error(),
		})
		return nil, err
	}
	s.publish(ctx, observer.PipelineEvent{
		EventType: observer.ImageFetched,
		Timestamp: time.Now(),
		ImageURL:  request.URL,
		Success:   true,
	})

	trace, err := s.chartAnalyzer.AnalyzeWithOptions(img, options)
	if err != nil {
		s.publish(ctx, observer.PipelineEvent{
			EventType:      observer.TraceExtractionFailed,
			Timestamp:      time.Now(),
			ImageURL:       request.URL,
			ProcessingTime: time.Since(started),
			ErrorMessage:   err.Error(),
		})
		return nil, err
	}
	s.publish(ctx, observer.PipelineEvent{
		EventType:      observer.TraceExtracted,
		Timestamp:      time.Now(),
		ImageURL:       request.URL,
		ProcessingTime: time.Since(started),
		Success:        true,
		Metadata: map[string]interface{}{
			"profile":     trace.Profile,
			"point_count": len(trace.Points),
		},
	})

	var issues []validation.ChartIssue
	issues = append(issues, s.chartValidator.ValidateBounds(trace.Bounds, img.Bounds())...)
	issues = append(issues, s.chartValidator.ValidateTrace(trace)...)

	series := mapper.New(trace.Bounds, axes).MapTrace(trace.Points)

	prediction, err := s.engine.Predict(series, target)
	if err != nil {
		s.publish(ctx, observer.PipelineEvent{
			EventType:      observer.ForecastFailed,
			Timestamp:      time.Now(),
			ImageURL:       request.URL,
			ProcessingTime: time.Since(started),
			ErrorMessage:   err.Error(),
		})
		return nil, err
	}
	s.publish(ctx, observer.PipelineEvent{
		EventType:      observer.ForecastCompleted,
		Timestamp:      time.Now(),
		ImageURL:       request.URL,
		ProcessingTime: time.Since(started),
		Success:        true,
		Metadata: map[string]interface{}{
			"ensemble":   prediction.Ensemble,
			"confidence": prediction.Confidence,
		},
	})

	run := &pipelineResult{
		img:      img,
		trace:    trace,
		series:   series,
		forecast: prediction,
		target:   target,
		options:  options,
		issues:   issues,
		started:  started,
	}

	if lookupDate != nil {
		price, err := mapper.Lookup(series, *lookupDate)
		if err != nil {
			return nil, apperrors.NewInsufficientDataError("historical lookup failed", err)
		}
		run.lookup = &models.LookupResult{
			Date:  lookupDate.Format(dateLayout),
			Price: price,
		}
	}

	return run, nil
}

// resolveOptions picks the scan preset and applies request overrides
func (s *chartForecastService) resolveOptions(request models.ForecastRequest) (analyzer.AnalysisOptions, error) {
	scanCtx := strategy.NewScanContext(strategy.NewStandardScanStrategy(s.defaults))
	switch request.Preset {
	case "", "standard":
	case "fast":
		scanCtx.SetStrategy(strategy.NewFastScanStrategy())
	case "dense":
		scanCtx.SetStrategy(strategy.NewDenseScanStrategy())
	default:
		return analyzer.AnalysisOptions{}, apperrors.NewValidationError(
			fmt.Sprintf("unknown scan preset %q", request.Preset), nil)
	}

	options := scanCtx.ResolveOptions()
	if request.Profile != "" {
		if _, ok := s.chartAnalyzer.Registry().Lookup(request.Profile); !ok {
			return analyzer.AnalysisOptions{}, apperrors.NewValidationError(
				fmt.Sprintf("unknown color profile %q", request.Profile), nil)
		}
		options = options.WithProfile(request.Profile)
	}
	return options, nil
}

// publish sends an event when a publisher is configured
func (s *chartForecastService) publish(ctx context.Context, event observer.PipelineEvent) {
	if s.publisher != nil {
		s.publisher.NotifyObservers(ctx, event)
	}
}

// parseRequest converts the wire request into domain ranges and dates
func parseRequest(request models.ForecastRequest) (mapper.AxisRange, time.Time, *time.Time, error) {
	start, err := parseDate(request.DateRange.Start)
	if err != nil {
		return mapper.AxisRange{}, time.Time{}, nil, apperrors.NewValidationError("invalid date_range.start", err)
	}
	end, err := parseDate(request.DateRange.End)
	if err != nil {
		return mapper.AxisRange{}, time.Time{}, nil, apperrors.NewValidationError("invalid date_range.end", err)
	}
	target, err := parseDate(request.TargetDate)
	if err != nil {
		return mapper.AxisRange{}, time.Time{}, nil, apperrors.NewValidationError("invalid target_date", err)
	}

	var lookupDate *time.Time
	if request.LookupDate != "" {
		parsed, err := parseDate(request.LookupDate)
		if err != nil {
			return mapper.AxisRange{}, time.Time{}, nil, apperrors.NewValidationError("invalid lookup_date", err)
		}
		lookupDate = &parsed
	}

	axes := mapper.AxisRange{
		Dates:  mapper.DateRange{Start: start, End: end},
		Prices: mapper.PriceRange{Min: request.PriceRange.Min, Max: request.PriceRange.Max},
	}
	return axes, target, lookupDate, nil
}

// parseDate accepts the date layout with an RFC3339 fallback
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func traceSummary(trace *analyzer.TraceResult) models.TraceSummary {
	return models.TraceSummary{
		Profile: trace.Profile,
		Bounds: models.PlotBounds{
			X:      trace.Bounds.X,
			Y:      trace.Bounds.Y,
			Width:  trace.Bounds.Width,
			Height: trace.Bounds.Height,
		},
		PointCount:       len(trace.Points),
		RawPointCount:    trace.RawPointCount,
		RejectedOutliers: trace.RejectedOutliers,
	}
}

func forecastSummary(targetDate string, prediction *forecast.PredictionResult) models.ForecastSummary {
	return models.ForecastSummary{
		TargetDate: targetDate,
		Ensemble:   prediction.Ensemble,
		PerModel:   prediction.PerModel,
		Confidence: prediction.Confidence,
		StdDev:     prediction.StdDev,
	}
}
