package models

// TraceSummary describes how the pixel trace was recovered
type TraceSummary struct {
	Profile          string     `json:"profile"`
	Bounds           PlotBounds `json:"bounds"`
	PointCount       int        `json:"point_count"`
	RawPointCount    int        `json:"raw_point_count"`
	RejectedOutliers int        `json:"rejected_outliers"`
}

// PlotBounds is the detected plot area inside the source image
type PlotBounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SeriesPoint is a single dated price observation
type SeriesPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// ForecastSummary holds the ensemble prediction for a target date
type ForecastSummary struct {
	TargetDate string             `json:"target_date"`
	Ensemble   float64            `json:"ensemble"`
	PerModel   map[string]float64 `json:"per_model"`
	Confidence float64            `json:"confidence"`
	StdDev     float64            `json:"std_dev"`
}

// LookupResult holds a historical price read off the digitized series
type LookupResult struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// ImageMetadata contains metadata about a fetched chart image
type ImageMetadata struct {
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`
}
