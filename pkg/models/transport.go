package models

// ForecastRequest represents a request to digitize a chart and forecast
// a price for a target date. Dates use the 2006-01-02 layout.
type ForecastRequest struct {
	URL        string            `json:"url" binding:"required"`
	DateRange  DateRangeRequest  `json:"date_range" binding:"required"`
	PriceRange PriceRangeRequest `json:"price_range" binding:"required"`
	TargetDate string            `json:"target_date" binding:"required"`

	// Optional historical lookup on the digitized series
	LookupDate string `json:"lookup_date,omitempty"`

	// Optional tuning
	Profile string `json:"profile,omitempty"`
	Preset  string `json:"preset,omitempty"`
}

// DateRangeRequest is the labelled horizontal axis of the chart
type DateRangeRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

// PriceRangeRequest is the labelled vertical axis of the chart
type PriceRangeRequest struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ChartForecastResponse is the response for the forecast endpoint
type ChartForecastResponse struct {
	ImageURL          string          `json:"image_url"`
	Timestamp         string          `json:"timestamp"`
	ProcessingTimeSec float64         `json:"processing_time_sec"`
	Trace             TraceSummary    `json:"trace"`
	Forecast          ForecastSummary `json:"forecast"`
	Lookup            *LookupResult   `json:"lookup,omitempty"`
	Warnings          []string        `json:"warnings,omitempty"`
}
