package analyzer

import "time"

// ChartBounds is the pixel rectangle inside the source image presumed to
// contain the plotted line, excluding margins and axis labels.
type ChartBounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PixelPoint is one representative vertical position per scanned column.
// X values are strictly increasing in scan order; Y is fractional because it
// comes from a median over matching rows.
type PixelPoint struct {
	X int     `json:"x"`
	Y float64 `json:"y"`
}

// TraceResult is the outcome of digitizing one chart image.
type TraceResult struct {
	Bounds            ChartBounds  `json:"bounds"`
	Profile           string       `json:"profile"`
	RawPointCount     int          `json:"raw_point_count"`
	RejectedOutliers  int          `json:"rejected_outliers"`
	Points            []PixelPoint `json:"points"`
	Timestamp         time.Time    `json:"timestamp"`
	ProcessingTimeSec float64      `json:"processing_time_sec"`
}
