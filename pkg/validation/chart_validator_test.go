package validation

import (
	"image"
	"testing"
	"time"

	"go-chart-digitizer/internal/analyzer"
	"go-chart-digitizer/internal/mapper"
)

func validAxes() mapper.AxisRange {
	return mapper.AxisRange{
		Dates: mapper.DateRange{
			Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		Prices: mapper.PriceRange{Min: 100, Max: 200},
	}
}

func TestValidateAxes(t *testing.T) {
	cv := NewChartValidator()

	if issues := cv.ValidateAxes(validAxes()); len(issues) != 0 {
		t.Errorf("expected no issues for valid axes, got %v", issues)
	}

	reversed := validAxes()
	reversed.Dates.Start, reversed.Dates.End = reversed.Dates.End, reversed.Dates.Start
	issues := cv.ValidateAxes(reversed)
	if !cv.HasCriticalIssues(issues) {
		t.Error("expected critical issue for reversed date range")
	}

	inverted := validAxes()
	inverted.Prices = mapper.PriceRange{Min: 200, Max: 100}
	issues = cv.ValidateAxes(inverted)
	if !cv.HasCriticalIssues(issues) {
		t.Error("expected critical issue for inverted price range")
	}

	flat := validAxes()
	flat.Prices = mapper.PriceRange{Min: 150, Max: 150}
	issues = cv.ValidateAxes(flat)
	if len(issues) != 1 || issues[0].Severity != "warning" {
		t.Errorf("expected single warning for degenerate price range, got %v", issues)
	}
}

func TestValidateBounds(t *testing.T) {
	cv := NewChartValidator()
	img := image.Rect(0, 0, 200, 100)

	good := analyzer.ChartBounds{X: 10, Y: 10, Width: 180, Height: 80}
	if issues := cv.ValidateBounds(good, img); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}

	tiny := analyzer.ChartBounds{X: 10, Y: 10, Width: 5, Height: 5}
	if !cv.HasCriticalIssues(cv.ValidateBounds(tiny, img)) {
		t.Error("expected critical issue for tiny plot area")
	}

	outside := analyzer.ChartBounds{X: 150, Y: 10, Width: 100, Height: 80}
	issues := cv.ValidateBounds(outside, img)
	found := false
	for _, issue := range issues {
		if issue.Type == "bounds_containment" {
			found = true
		}
	}
	if !found {
		t.Error("expected containment issue for bounds outside image")
	}
}

func TestValidateTrace(t *testing.T) {
	cv := NewChartValidator()

	points := make([]analyzer.PixelPoint, 50)
	for i := range points {
		points[i] = analyzer.PixelPoint{X: i * 2, Y: float64(40 + i)}
	}
	good := &analyzer.TraceResult{
		Bounds:        analyzer.ChartBounds{Width: 100, Height: 100},
		Points:        points,
		RawPointCount: 52,
	}
	if issues := cv.ValidateTrace(good); len(issues) != 0 {
		t.Errorf("expected no issues for dense trace, got %v", issues)
	}

	sparse := &analyzer.TraceResult{
		Bounds: analyzer.ChartBounds{Width: 100, Height: 100},
		Points: points[:3],
	}
	if !cv.HasCriticalIssues(cv.ValidateTrace(sparse)) {
		t.Error("expected critical issue for sparse trace")
	}

	unordered := &analyzer.TraceResult{
		Bounds: analyzer.ChartBounds{Width: 100, Height: 100},
		Points: []analyzer.PixelPoint{
			{X: 0, Y: 1}, {X: 5, Y: 2}, {X: 3, Y: 3}, {X: 7, Y: 4}, {X: 9, Y: 5},
		},
		RawPointCount: 5,
	}
	issues := cv.ValidateTrace(unordered)
	found := false
	for _, issue := range issues {
		if issue.Type == "trace_order" {
			found = true
		}
	}
	if !found {
		t.Error("expected ordering issue for non-monotonic trace")
	}
}

func TestValidateTraceWarnings(t *testing.T) {
	cv := NewChartValidator()

	// Five points spanning a 400 wide plot leaves a large gap and low coverage.
	gappy := &analyzer.TraceResult{
		Bounds: analyzer.ChartBounds{Width: 400, Height: 100},
		Points: []analyzer.PixelPoint{
			{X: 0, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 3}, {X: 3, Y: 4}, {X: 399, Y: 5},
		},
		RawPointCount:    10,
		RejectedOutliers: 5,
	}
	issues := cv.ValidateTrace(gappy)
	if cv.HasCriticalIssues(issues) {
		t.Errorf("gaps and outliers should only warn, got %v", issues)
	}

	types := map[string]bool{}
	for _, issue := range issues {
		types[issue.Type] = true
	}
	for _, want := range []string{"trace_coverage", "trace_gap", "outlier_fraction"} {
		if !types[want] {
			t.Errorf("expected %s warning, got %v", want, cv.ConvertIssuesToMessages(issues))
		}
	}
}
