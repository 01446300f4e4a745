package analyzer

import (
	"fmt"
	"image"
	"time"

	apperrors "go-chart-digitizer/internal/errors"
)

// coreAnalyzer implements ChartAnalyzer and orchestrates all components
type coreAnalyzer struct {
	workerPool *WorkerPool
	parallel   TraceExtractor
	sequential TraceExtractor
	registry   *ProfileRegistry
	defaults   AnalysisOptions
}

// NewChartAnalyzer creates a chart analyzer over the given profile registry.
// A nil registry selects the built-in one.
func NewChartAnalyzer(registry *ProfileRegistry, defaults AnalysisOptions) (ChartAnalyzer, error) {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if _, ok := registry.Lookup(defaults.DefaultProfile); !ok {
		return nil, fmt.Errorf("default profile %q not in registry", defaults.DefaultProfile)
	}

	workerPool := NewWorkerPool(defaults.MaxWorkers)
	workerPool.Start()

	return &coreAnalyzer{
		workerPool: workerPool,
		parallel:   NewTraceExtractor(workerPool),
		sequential: NewTraceExtractor(nil),
		registry:   registry,
		defaults:   defaults,
	}, nil
}

// Analyze digitizes a chart image using the analyzer's default options
func (ca *coreAnalyzer) Analyze(img image.Image) (*TraceResult, error) {
	return ca.AnalyzeWithOptions(img, ca.defaults)
}

// AnalyzeWithOptions runs the fixed pipeline: bounds, dominant color, column
// scan, outlier rejection, smoothing.
func (ca *coreAnalyzer) AnalyzeWithOptions(img image.Image, options AnalysisOptions) (*TraceResult, error) {
	start := time.Now()

	bounds := DetectBounds(img, options.MarginFraction)
	profile, _ := ca.DetectDominantColor(img, bounds, options.ColorSampleStride, options.DefaultProfile)

	extractor := ca.sequential
	if options.UseWorkerPool {
		extractor = ca.parallel
	}
	raw := extractor.ExtractTrace(img, bounds, profile, options.ColumnStride)

	// Hard precondition for everything downstream; checked before any
	// filtering so a noisy but sparse trace fails the same way as an
	// undetected line color.
	if len(raw) < options.MinTracePoints {
		return nil, apperrors.NewInsufficientDataError(
			fmt.Sprintf("extracted %d trace points, need at least %d", len(raw), options.MinTracePoints), nil)
	}

	points := raw
	if !options.SkipOutlierRejection {
		points = rejectOutliers(points, options.OutlierZThreshold, options.OutlierMinPoints)
	}
	if !options.SkipSmoothing {
		points = smooth(points, options.SmoothWindow)
	}

	return &TraceResult{
		Bounds:            bounds,
		Profile:           profile.Name,
		RawPointCount:     len(raw),
		RejectedOutliers:  len(raw) - len(points),
		Points:            points,
		Timestamp:         start,
		ProcessingTimeSec: time.Since(start).Seconds(),
	}, nil
}

// Registry exposes the ordered color-profile registry in use
func (ca *coreAnalyzer) Registry() *ProfileRegistry {
	return ca.registry
}

// Close shuts down the analyzer's worker pool
func (ca *coreAnalyzer) Close() error {
	ca.workerPool.Close()
	return nil
}

// DetectBounds approximates the plot area by trimming a margin fraction from
// each edge of the image. This is a configurable heuristic, not content-aware
// edge detection.
func DetectBounds(img image.Image, marginFraction float64) ChartBounds {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	marginX := int(float64(width) * marginFraction)
	marginY := int(float64(height) * marginFraction)

	return ChartBounds{
		X:      b.Min.X + marginX,
		Y:      b.Min.Y + marginY,
		Width:  width - 2*marginX,
		Height: height - 2*marginY,
	}
}

// DetectDominantColor sparsely samples the bounds on a coarse stride and
// returns the profile with the highest match count together with that count.
// Ties break toward the first-declared profile. When no sample matches any
// profile the configured default is returned with a zero count; the line may
// simply be thin relative to the stride, so this is policy, not an error.
func (ca *coreAnalyzer) DetectDominantColor(img image.Image, bounds ChartBounds, stride int, defaultProfile string) (ColorProfile, int) {
	if stride < 1 {
		stride = 1
	}

	profiles := ca.registry.Profiles()
	counts := make([]int, len(profiles))

	for y := bounds.Y; y < bounds.Y+bounds.Height; y += stride {
		for x := bounds.X; x < bounds.X+bounds.Width; x += stride {
			c := img.At(x, y)
			for i, p := range profiles {
				if p.Matches(c) {
					counts[i]++
				}
			}
		}
	}

	best, bestCount := -1, 0
	for i, n := range counts {
		if n > bestCount {
			best, bestCount = i, n
		}
	}
	if best < 0 {
		if p, ok := ca.registry.Lookup(defaultProfile); ok {
			return p, 0
		}
		return ca.registry.First(), 0
	}
	return profiles[best], bestCount
}
