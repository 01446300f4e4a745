package analyzer

import (
	"gonum.org/v1/gonum/stat"
)

// rejectOutliers drops points whose y deviates from the mean by more than
// zThreshold population standard deviations. The statistics are computed once
// over the input; they are not re-evaluated after removal. Below minPoints the
// input is returned unchanged because there is not enough data to judge
// outliers safely.
func rejectOutliers(points []PixelPoint, zThreshold float64, minPoints int) []PixelPoint {
	if len(points) < minPoints {
		return points
	}

	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Y
	}
	mean, stdDev := stat.PopMeanStdDev(ys, nil)
	if stdDev == 0 {
		// A flat trace has no outliers to reject.
		return points
	}

	kept := make([]PixelPoint, 0, len(points))
	for _, p := range points {
		z := (p.Y - mean) / stdDev
		if z < 0 {
			z = -z
		}
		if z <= zThreshold {
			kept = append(kept, p)
		}
	}
	return kept
}

// smooth applies a centered moving average over y only; x values pass through
// unchanged. Windows are truncated at the sequence edges, so edge points
// average over fewer neighbors. A trace shorter than the window is returned
// as-is.
func smooth(points []PixelPoint, window int) []PixelPoint {
	if window <= 1 || len(points) < window {
		return points
	}

	half := window / 2
	out := make([]PixelPoint, len(points))
	for i := range points {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(points) {
			hi = len(points)
		}
		sum := 0.0
		for j := lo; j < hi; j++ {
			sum += points[j].Y
		}
		out[i] = PixelPoint{X: points[i].X, Y: sum / float64(hi-lo)}
	}
	return out
}
