package analyzer

// AnalysisOptions provides flexible configuration for chart digitization
type AnalysisOptions struct {
	// Geometry
	MarginFraction float64

	// Sampling
	ColumnStride      int
	ColorSampleStride int

	// Trace cleanup
	OutlierZThreshold    float64
	OutlierMinPoints     int
	SmoothWindow         int
	SkipOutlierRejection bool
	SkipSmoothing        bool

	// Preconditions
	MinTracePoints int

	// Color detection
	DefaultProfile string

	// Performance options
	UseWorkerPool bool
	MaxWorkers    int
}

// DefaultOptions returns default analysis options
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		MarginFraction:       0.10,
		ColumnStride:         1,
		ColorSampleStride:    8,
		OutlierZThreshold:    2.5,
		OutlierMinPoints:     10,
		SmoothWindow:         5,
		SkipOutlierRejection: false,
		SkipSmoothing:        false,
		MinTracePoints:       5,
		DefaultProfile:       "blue",
		UseWorkerPool:        true,
		MaxWorkers:           0, // Use default CPU count
	}
}

// FastOptions returns options for quick, coarse digitization
func FastOptions() AnalysisOptions {
	opts := DefaultOptions()
	opts.ColumnStride = 4
	opts.ColorSampleStride = 16
	opts.SkipSmoothing = true
	return opts
}

// DenseOptions returns options for per-pixel digitization of noisy charts
func DenseOptions() AnalysisOptions {
	opts := DefaultOptions()
	opts.ColumnStride = 1
	opts.ColorSampleStride = 4
	opts.SmoothWindow = 7
	return opts
}

// WithProfile returns options with a fixed fallback color profile
func (opts AnalysisOptions) WithProfile(name string) AnalysisOptions {
	opts.DefaultProfile = name
	return opts
}

// WithMargin returns options with a custom bounds margin fraction
func (opts AnalysisOptions) WithMargin(fraction float64) AnalysisOptions {
	opts.MarginFraction = fraction
	return opts
}

// WithStride returns options with a custom column sampling stride
func (opts AnalysisOptions) WithStride(stride int) AnalysisOptions {
	if stride >= 1 {
		opts.ColumnStride = stride
	}
	return opts
}

// WithOutlierThreshold returns options with a custom z-score cutoff
func (opts AnalysisOptions) WithOutlierThreshold(z float64) AnalysisOptions {
	opts.OutlierZThreshold = z
	return opts
}

// WithSmoothWindow returns options with a custom smoothing window
func (opts AnalysisOptions) WithSmoothWindow(window int) AnalysisOptions {
	if window >= 1 {
		opts.SmoothWindow = window
	}
	return opts
}

// WithoutSmoothing disables the moving-average smoothing pass
func (opts AnalysisOptions) WithoutSmoothing() AnalysisOptions {
	opts.SkipSmoothing = true
	return opts
}

// WithoutOutlierRejection disables the z-score filtering pass
func (opts AnalysisOptions) WithoutOutlierRejection() AnalysisOptions {
	opts.SkipOutlierRejection = true
	return opts
}
