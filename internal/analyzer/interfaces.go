package analyzer

import "image"

// ChartAnalyzer defines the main interface for chart digitization
type ChartAnalyzer interface {
	// Analyze digitizes a chart image using the analyzer's default options
	Analyze(img image.Image) (*TraceResult, error)

	// AnalyzeWithOptions digitizes a chart image with a per-call configuration
	AnalyzeWithOptions(img image.Image, options AnalysisOptions) (*TraceResult, error)

	// Registry exposes the ordered color-profile registry in use
	Registry() *ProfileRegistry

	// Lifecycle management
	Close() error
}

// TraceExtractor handles the column scan that turns pixels into a trace
type TraceExtractor interface {
	ExtractTrace(img image.Image, bounds ChartBounds, profile ColorProfile, stride int) []PixelPoint
}
