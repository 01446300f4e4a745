package mapper

import (
	"math"
	"testing"
	"time"

	"go-chart-digitizer/internal/analyzer"
)

func axisRange(startSec, endSec int64, min, max float64) AxisRange {
	return AxisRange{
		Dates:  DateRange{Start: time.Unix(startSec, 0).UTC(), End: time.Unix(endSec, 0).UTC()},
		Prices: PriceRange{Min: min, Max: max},
	}
}

func TestPixelToDomain_RoundTrip(t *testing.T) {
	// dateRange {0, 100}, priceRange {0, 10}, bounds {0, 0, 100, 10}
	m := New(analyzer.ChartBounds{X: 0, Y: 0, Width: 100, Height: 10}, axisRange(0, 100, 0, 10))

	p := m.PixelToDomain(analyzer.PixelPoint{X: 50, Y: 5})

	if got := p.Timestamp.Unix(); got != 50 {
		t.Errorf("Expected timestamp 50, got %d", got)
	}
	// Vertical inversion: pixel y=5 of 10 maps to the middle of the price range
	if math.Abs(p.Price-5) > 1e-9 {
		t.Errorf("Expected price 5, got %f", p.Price)
	}
}

func TestPixelToDomain_VerticalInversion(t *testing.T) {
	m := New(analyzer.ChartBounds{X: 0, Y: 0, Width: 10, Height: 100}, axisRange(0, 10, 0, 50))

	top := m.PixelToDomain(analyzer.PixelPoint{X: 0, Y: 0})
	bottom := m.PixelToDomain(analyzer.PixelPoint{X: 0, Y: 100})

	if math.Abs(top.Price-50) > 1e-9 {
		t.Errorf("Expected top of chart to map to max price 50, got %f", top.Price)
	}
	if math.Abs(bottom.Price-0) > 1e-9 {
		t.Errorf("Expected bottom of chart to map to min price 0, got %f", bottom.Price)
	}
}

func TestPixelToDomain_OffsetBounds(t *testing.T) {
	m := New(analyzer.ChartBounds{X: 10, Y: 5, Width: 100, Height: 40}, axisRange(0, 200, 100, 300))

	p := m.PixelToDomain(analyzer.PixelPoint{X: 60, Y: 25})
	if got := p.Timestamp.Unix(); got != 100 {
		t.Errorf("Expected timestamp 100 at bounds midpoint, got %d", got)
	}
	if math.Abs(p.Price-200) > 1e-9 {
		t.Errorf("Expected price 200 at bounds midpoint, got %f", p.Price)
	}
}

func TestPixelToDomain_DegenerateBounds(t *testing.T) {
	m := New(analyzer.ChartBounds{X: 0, Y: 0, Width: 0, Height: 0}, axisRange(100, 200, 10, 20))

	p := m.PixelToDomain(analyzer.PixelPoint{X: 50, Y: 5})
	if got := p.Timestamp.Unix(); got != 100 {
		t.Errorf("Expected zero-width bounds to map to range start, got %d", got)
	}
	if p.Price != 10 {
		t.Errorf("Expected zero-height bounds to map to range min, got %f", p.Price)
	}
}

func TestMapTrace_PreservesOrder(t *testing.T) {
	m := New(analyzer.ChartBounds{X: 0, Y: 0, Width: 100, Height: 10}, axisRange(0, 100, 0, 10))
	trace := []analyzer.PixelPoint{
		{X: 10, Y: 2},
		{X: 40, Y: 4},
		{X: 90, Y: 8},
	}

	series := m.MapTrace(trace)
	if len(series) != 3 {
		t.Fatalf("Expected 3 domain points, got %d", len(series))
	}
	for i := 1; i < len(series); i++ {
		if !series[i].Timestamp.After(series[i-1].Timestamp) {
			t.Error("Expected timestamps ascending")
		}
	}
}

func TestLookup_MidpointInterpolation(t *testing.T) {
	series := []DomainPoint{
		{Timestamp: time.Unix(0, 0), Price: 10},
		{Timestamp: time.Unix(10, 0), Price: 20},
	}

	price, err := Lookup(series, time.Unix(5, 0))
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if math.Abs(price-15) > 1e-9 {
		t.Errorf("Expected interpolated price 15, got %f", price)
	}
}

func TestLookup_OutsideBracketUsesNearest(t *testing.T) {
	series := []DomainPoint{
		{Timestamp: time.Unix(0, 0), Price: 10},
		{Timestamp: time.Unix(10, 0), Price: 20},
	}

	price, err := Lookup(series, time.Unix(-5, 0))
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if price != 10 {
		t.Errorf("Expected nearest endpoint price 10 with no interpolation, got %f", price)
	}

	price, err = Lookup(series, time.Unix(25, 0))
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if price != 20 {
		t.Errorf("Expected nearest endpoint price 20 with no interpolation, got %f", price)
	}
}

func TestLookup_ExactMatch(t *testing.T) {
	series := []DomainPoint{
		{Timestamp: time.Unix(0, 0), Price: 10},
		{Timestamp: time.Unix(10, 0), Price: 20},
		{Timestamp: time.Unix(20, 0), Price: 30},
	}

	price, err := Lookup(series, time.Unix(10, 0))
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if price != 20 {
		t.Errorf("Expected exact match price 20, got %f", price)
	}
}

func TestLookup_InteriorInterpolation(t *testing.T) {
	series := []DomainPoint{
		{Timestamp: time.Unix(0, 0), Price: 10},
		{Timestamp: time.Unix(10, 0), Price: 20},
		{Timestamp: time.Unix(20, 0), Price: 40},
	}

	price, err := Lookup(series, time.Unix(12, 0))
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if math.Abs(price-24) > 1e-9 {
		t.Errorf("Expected interpolated price 24, got %f", price)
	}
}

func TestLookup_TieFirstPointWins(t *testing.T) {
	series := []DomainPoint{
		{Timestamp: time.Unix(0, 0), Price: 10},
		{Timestamp: time.Unix(10, 0), Price: 30},
	}

	// Equidistant from both points; the tie goes to the first, and the
	// target is bracketed, so it still interpolates across that bracket
	price, err := Lookup(series, time.Unix(5, 0))
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if math.Abs(price-20) > 1e-9 {
		t.Errorf("Expected bracket interpolation 20, got %f", price)
	}
}

func TestLookup_EmptySeries(t *testing.T) {
	if _, err := Lookup(nil, time.Unix(0, 0)); err == nil {
		t.Error("Expected error for empty series")
	}
}

func TestLookup_SinglePoint(t *testing.T) {
	series := []DomainPoint{{Timestamp: time.Unix(100, 0), Price: 42}}

	price, err := Lookup(series, time.Unix(500, 0))
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if price != 42 {
		t.Errorf("Expected single point price 42, got %f", price)
	}
}
