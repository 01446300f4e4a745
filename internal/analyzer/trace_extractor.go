package analyzer

import (
	"image"
)

// minParallelColumns is the column count below which the strip split costs
// more than it saves.
const minParallelColumns = 64

// traceExtractor implements TraceExtractor. With a worker pool it scans the
// chart in contiguous column strips and reassembles them in order, so the
// strictly-increasing-x invariant of the trace is preserved.
type traceExtractor struct {
	pool *WorkerPool
}

// NewTraceExtractor creates a trace extractor. A nil pool means every scan
// runs sequentially.
func NewTraceExtractor(pool *WorkerPool) TraceExtractor {
	return &traceExtractor{pool: pool}
}

// ExtractTrace scans columns left to right across the bounds at the given
// stride. Each column with at least one matching pixel contributes one point
// whose y is the median of the matching rows; columns with no match emit
// nothing. Gaps are not interpolated here.
func (te *traceExtractor) ExtractTrace(img image.Image, bounds ChartBounds, profile ColorProfile, stride int) []PixelPoint {
	if stride < 1 {
		stride = 1
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return nil
	}

	columns := make([]int, 0, (bounds.Width+stride-1)/stride)
	for x := bounds.X; x < bounds.X+bounds.Width; x += stride {
		columns = append(columns, x)
	}

	if te.pool == nil || len(columns) < minParallelColumns {
		return te.scanColumns(img, bounds, profile, columns)
	}

	workers := te.pool.Size()
	if workers > len(columns) {
		workers = len(columns)
	}
	colsPerWorker := (len(columns) + workers - 1) / workers // ceil division

	strips := make([][]PixelPoint, workers)
	for i := 0; i < workers; i++ {
		start := i * colsPerWorker
		end := start + colsPerWorker
		if end > len(columns) {
			end = len(columns)
		}
		if start >= end {
			break
		}
		idx := i
		cols := columns[start:end]
		te.pool.Submit(func() {
			strips[idx] = te.scanColumns(img, bounds, profile, cols)
		})
	}
	te.pool.Wait()

	points := make([]PixelPoint, 0, len(columns))
	for _, strip := range strips {
		points = append(points, strip...)
	}
	return points
}

// scanColumns walks the given columns in order, one point per matching column.
func (te *traceExtractor) scanColumns(img image.Image, bounds ChartBounds, profile ColorProfile, columns []int) []PixelPoint {
	points := make([]PixelPoint, 0, len(columns))
	rows := make([]float64, 0, bounds.Height)

	for _, x := range columns {
		rows = rows[:0]
		for y := bounds.Y; y < bounds.Y+bounds.Height; y++ {
			if profile.Matches(img.At(x, y)) {
				rows = append(rows, float64(y))
			}
		}
		if len(rows) == 0 {
			continue
		}
		points = append(points, PixelPoint{X: x, Y: medianOfSorted(rows)})
	}
	return points
}

// medianOfSorted returns the median of an ascending slice. Rows arrive sorted
// because each column is scanned top to bottom. The median resists thick
// anti-aliased strokes pulling the estimate toward one edge.
func medianOfSorted(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
