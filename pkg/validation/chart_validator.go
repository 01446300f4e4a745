package validation

import (
	"fmt"
	"image"

	"go-chart-digitizer/internal/analyzer"
	"go-chart-digitizer/internal/mapper"
)

// ChartThresholds defines configurable thresholds for chart validation
type ChartThresholds struct {
	// Minimum usable plot area
	MinBoundsWidth  int
	MinBoundsHeight int

	// Trace coverage thresholds
	MinTracePoints     int
	MaxGapFraction     float64
	MinColumnCoverage  float64
	MaxOutlierFraction float64
}

// DefaultChartThresholds returns the default chart thresholds
func DefaultChartThresholds() ChartThresholds {
	return ChartThresholds{
		MinBoundsWidth:     20,
		MinBoundsHeight:    20,
		MinTracePoints:     5,
		MaxGapFraction:     0.5,
		MinColumnCoverage:  0.1,
		MaxOutlierFraction: 0.25,
	}
}

// ChartValidator handles chart structure validation logic
type ChartValidator struct {
	thresholds ChartThresholds
}

// NewChartValidator creates a new chart validator with default thresholds
func NewChartValidator() *ChartValidator {
	return &ChartValidator{
		thresholds: DefaultChartThresholds(),
	}
}

// NewChartValidatorWithThresholds creates a chart validator with custom thresholds
func NewChartValidatorWithThresholds(thresholds ChartThresholds) *ChartValidator {
	return &ChartValidator{
		thresholds: thresholds,
	}
}

// ChartIssue represents a chart validation issue
type ChartIssue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"` // "error", "warning", "info"
	ActualValue float64 `json:"actual_value,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
}

// ValidateAxes checks that the supplied axis ranges describe a usable
// mapping target
func (cv *ChartValidator) ValidateAxes(axes mapper.AxisRange) []ChartIssue {
	var issues []ChartIssue

	if !axes.Dates.End.After(axes.Dates.Start) {
		issues = append(issues, ChartIssue{
			Type:     "date_range",
			Message:  "date range end must be after start",
			Severity: "error",
		})
	}

	if axes.Prices.Max < axes.Prices.Min {
		issues = append(issues, ChartIssue{
			Type:        "price_range",
			Message:     "price range max is below min",
			Severity:    "error",
			ActualValue: axes.Prices.Max,
			Threshold:   axes.Prices.Min,
		})
	} else if axes.Prices.Max == axes.Prices.Min {
		issues = append(issues, ChartIssue{
			Type:        "price_range",
			Message:     "price range is degenerate, all pixels map to a single price",
			Severity:    "warning",
			ActualValue: axes.Prices.Max,
		})
	}

	return issues
}

// ValidateBounds checks the detected plot area against the source image
func (cv *ChartValidator) ValidateBounds(bounds analyzer.ChartBounds, imgBounds image.Rectangle) []ChartIssue {
	var issues []ChartIssue

	if bounds.Width < cv.thresholds.MinBoundsWidth {
		issues = append(issues, ChartIssue{
			Type:        "bounds_width",
			Message:     fmt.Sprintf("plot area width %d is below minimum %d", bounds.Width, cv.thresholds.MinBoundsWidth),
			Severity:    "error",
			ActualValue: float64(bounds.Width),
			Threshold:   float64(cv.thresholds.MinBoundsWidth),
		})
	}
	if bounds.Height < cv.thresholds.MinBoundsHeight {
		issues = append(issues, ChartIssue{
			Type:        "bounds_height",
			Message:     fmt.Sprintf("plot area height %d is below minimum %d", bounds.Height, cv.thresholds.MinBoundsHeight),
			Severity:    "error",
			ActualValue: float64(bounds.Height),
			Threshold:   float64(cv.thresholds.MinBoundsHeight),
		})
	}

	if bounds.X < imgBounds.Min.X || bounds.Y < imgBounds.Min.Y ||
		bounds.X+bounds.Width > imgBounds.Max.X || bounds.Y+bounds.Height > imgBounds.Max.Y {
		issues = append(issues, ChartIssue{
			Type:     "bounds_containment",
			Message:  "plot area extends outside the image",
			Severity: "error",
		})
	}

	return issues
}

// ValidateTrace checks the extracted trace for coverage and ordering problems
func (cv *ChartValidator) ValidateTrace(result *analyzer.TraceResult) []ChartIssue {
	var issues []ChartIssue

	if len(result.Points) < cv.thresholds.MinTracePoints {
		issues = append(issues, ChartIssue{
			Type:        "trace_points",
			Message:     fmt.Sprintf("trace has %d points, minimum is %d", len(result.Points), cv.thresholds.MinTracePoints),
			Severity:    "error",
			ActualValue: float64(len(result.Points)),
			Threshold:   float64(cv.thresholds.MinTracePoints),
		})
		return issues
	}

	for i := 1; i < len(result.Points); i++ {
		if result.Points[i].X <= result.Points[i-1].X {
			issues = append(issues, ChartIssue{
				Type:     "trace_order",
				Message:  "trace x coordinates are not strictly increasing",
				Severity: "error",
			})
			break
		}
	}

	if result.Bounds.Width > 0 {
		coverage := float64(len(result.Points)) / float64(result.Bounds.Width)
		if coverage < cv.thresholds.MinColumnCoverage {
			issues = append(issues, ChartIssue{
				Type:        "trace_coverage",
				Message:     "trace covers too few columns of the plot area",
				Severity:    "warning",
				ActualValue: coverage,
				Threshold:   cv.thresholds.MinColumnCoverage,
			})
		}
	}

	if result.RawPointCount > 0 {
		rejected := float64(result.RejectedOutliers) / float64(result.RawPointCount)
		if rejected > cv.thresholds.MaxOutlierFraction {
			issues = append(issues, ChartIssue{
				Type:        "outlier_fraction",
				Message:     "unusually many points rejected as outliers",
				Severity:    "warning",
				ActualValue: rejected,
				Threshold:   cv.thresholds.MaxOutlierFraction,
			})
		}
	}

	maxGap := 0
	for i := 1; i < len(result.Points); i++ {
		if gap := result.Points[i].X - result.Points[i-1].X; gap > maxGap {
			maxGap = gap
		}
	}
	if result.Bounds.Width > 0 {
		gapFraction := float64(maxGap) / float64(result.Bounds.Width)
		if gapFraction > cv.thresholds.MaxGapFraction {
			issues = append(issues, ChartIssue{
				Type:        "trace_gap",
				Message:     "trace has a large horizontal gap",
				Severity:    "warning",
				ActualValue: gapFraction,
				Threshold:   cv.thresholds.MaxGapFraction,
			})
		}
	}

	return issues
}

// ConvertIssuesToMessages converts chart issues to simple error messages
func (cv *ChartValidator) ConvertIssuesToMessages(issues []ChartIssue) []string {
	messages := make([]string, len(issues))
	for i, issue := range issues {
		messages[i] = issue.Message
	}
	return messages
}

// HasCriticalIssues returns true when any issue has error severity
func (cv *ChartValidator) HasCriticalIssues(issues []ChartIssue) bool {
	for _, issue := range issues {
		if issue.Severity == "error" {
			return true
		}
	}
	return false
}
