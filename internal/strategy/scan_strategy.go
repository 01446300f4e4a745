package strategy

import (
	"go-chart-digitizer/internal/analyzer"
)

// ScanStrategy defines the interface for different chart scanning strategies
type ScanStrategy interface {
	Options() analyzer.AnalysisOptions
	GetStrategyName() string
}

// StandardScanStrategy balances accuracy and speed
type StandardScanStrategy struct {
	base analyzer.AnalysisOptions
}

// NewStandardScanStrategy creates a new standard scan strategy
func NewStandardScanStrategy(base analyzer.AnalysisOptions) ScanStrategy {
	return &StandardScanStrategy{base: base}
}

// Options returns the options for a standard scan
func (s *StandardScanStrategy) Options() analyzer.AnalysisOptions {
	return s.base
}

// GetStrategyName returns the strategy name
func (s *StandardScanStrategy) GetStrategyName() string {
	return "standard_scan"
}

// FastScanStrategy trades trace density for speed
type FastScanStrategy struct{}

// NewFastScanStrategy creates a new fast scan strategy
func NewFastScanStrategy() ScanStrategy {
	return &FastScanStrategy{}
}

// Options returns the options for a fast scan
func (s *FastScanStrategy) Options() analyzer.AnalysisOptions {
	return analyzer.FastOptions()
}

// GetStrategyName returns the strategy name
func (s *FastScanStrategy) GetStrategyName() string {
	return "fast_scan"
}

// DenseScanStrategy scans every column for maximum trace fidelity
type DenseScanStrategy struct{}

// NewDenseScanStrategy creates a new dense scan strategy
func NewDenseScanStrategy() ScanStrategy {
	return &DenseScanStrategy{}
}

// Options returns the options for a dense scan
func (s *DenseScanStrategy) Options() analyzer.AnalysisOptions {
	return analyzer.DenseOptions()
}

// GetStrategyName returns the strategy name
func (s *DenseScanStrategy) GetStrategyName() string {
	return "dense_scan"
}

// ScanContext manages the active scan strategy
type ScanContext struct {
	strategy ScanStrategy
}

// NewScanContext creates a new scan context
func NewScanContext(strategy ScanStrategy) *ScanContext {
	return &ScanContext{strategy: strategy}
}

// SetStrategy changes the scan strategy
func (c *ScanContext) SetStrategy(strategy ScanStrategy) {
	c.strategy = strategy
}

// ResolveOptions returns the options of the current strategy
func (c *ScanContext) ResolveOptions() analyzer.AnalysisOptions {
	return c.strategy.Options()
}

// GetCurrentStrategy returns the current strategy name
func (c *ScanContext) GetCurrentStrategy() string {
	return c.strategy.GetStrategyName()
}
