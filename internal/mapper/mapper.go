package mapper

import (
	"errors"
	"math"
	"time"

	"go-chart-digitizer/internal/analyzer"
)

// ErrEmptySeries indicates a lookup against a series with no points
var ErrEmptySeries = errors.New("empty domain series")

// DateRange maps the chart's horizontal pixel extent to a timestamp range
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PriceRange maps the chart's vertical pixel extent to a price range
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// AxisRange carries both axis mappings for one chart. Supplied externally and
// immutable for the duration of one analysis.
type AxisRange struct {
	Dates  DateRange  `json:"dates"`
	Prices PriceRange `json:"prices"`
}

// DomainPoint is a PixelPoint after coordinate inversion, ordered by
// timestamp ascending.
type DomainPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// CoordinateMapper converts between pixel space and domain space for one
// chart's bounds and axis ranges.
type CoordinateMapper struct {
	bounds analyzer.ChartBounds
	axes   AxisRange
}

// New creates a coordinate mapper for the given bounds and axis ranges
func New(bounds analyzer.ChartBounds, axes AxisRange) *CoordinateMapper {
	return &CoordinateMapper{bounds: bounds, axes: axes}
}

// PixelToDomain linearly maps a pixel point into (timestamp, price). Pixel y
// grows downward while price grows upward, so the normalized y is inverted
// before mapping. Zero-width or zero-height bounds map to the range's lower
// bound instead of dividing by zero.
func (m *CoordinateMapper) PixelToDomain(p analyzer.PixelPoint) DomainPoint {
	point := DomainPoint{
		Timestamp: m.axes.Dates.Start,
		Price:     m.axes.Prices.Min,
	}

	if m.bounds.Width > 0 {
		normX := float64(p.X-m.bounds.X) / float64(m.bounds.Width)
		span := m.axes.Dates.End.Sub(m.axes.Dates.Start)
		point.Timestamp = m.axes.Dates.Start.Add(time.Duration(normX * float64(span)))
	}
	if m.bounds.Height > 0 {
		normY := (p.Y - float64(m.bounds.Y)) / float64(m.bounds.Height)
		point.Price = m.axes.Prices.Min + (1-normY)*(m.axes.Prices.Max-m.axes.Prices.Min)
	}
	return point
}

// MapTrace converts a whole trace, preserving scan order so the resulting
// series is ordered by timestamp ascending.
func (m *CoordinateMapper) MapTrace(points []analyzer.PixelPoint) []DomainPoint {
	series := make([]DomainPoint, len(points))
	for i, p := range points {
		series[i] = m.PixelToDomain(p)
	}
	return series
}

// Lookup answers a price query for an arbitrary timestamp. The nearest point
// by absolute timestamp distance wins, first point on an exact tie. When the
// target is bracketed between the nearest point and one of its neighbors the
// price is linearly interpolated across that bracket; a target outside the
// observed span falls back to the nearest point's raw price.
func Lookup(series []DomainPoint, target time.Time) (float64, error) {
	if len(series) == 0 {
		return 0, ErrEmptySeries
	}

	nearest := 0
	best := math.Abs(target.Sub(series[0].Timestamp).Seconds())
	for i := 1; i < len(series); i++ {
		d := math.Abs(target.Sub(series[i].Timestamp).Seconds())
		if d < best {
			nearest, best = i, d
		}
	}

	p := series[nearest]
	switch {
	case target.After(p.Timestamp) && nearest+1 < len(series):
		return interpolate(p, series[nearest+1], target), nil
	case target.Before(p.Timestamp) && nearest > 0:
		return interpolate(series[nearest-1], p, target), nil
	default:
		return p.Price, nil
	}
}

// interpolate linearly between two bracketing points. Coincident timestamps
// degrade to the first point's price.
func interpolate(a, b DomainPoint, target time.Time) float64 {
	span := b.Timestamp.Sub(a.Timestamp).Seconds()
	if span == 0 {
		return a.Price
	}
	frac := target.Sub(a.Timestamp).Seconds() / span
	return a.Price + frac*(b.Price-a.Price)
}
