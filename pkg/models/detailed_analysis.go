package models

// DetailedForecastResponse is a comprehensive response for the detailed
// endpoint, carrying the full digitized series, per-model breakdowns and
// the parameters that were applied
type DetailedForecastResponse struct {
	ImageURL          string  `json:"image_url"`
	Timestamp         string  `json:"timestamp"`
	ProcessingTimeSec float64 `json:"processing_time_sec"`

	ImageMetadata ImageMetadata `json:"image_metadata"`

	Trace  TraceSummary  `json:"trace"`
	Series []SeriesPoint `json:"series"`

	Forecast ForecastSummary `json:"forecast"`
	Models   []ModelDetail   `json:"models"`

	Lookup *LookupResult `json:"lookup,omitempty"`

	AppliedParameters AppliedParameters `json:"applied_parameters"`

	ValidationIssues []ValidationIssue `json:"validation_issues,omitempty"`
	Warnings         []string          `json:"warnings,omitempty"`
}

// ModelDetail is one ensemble member's prediction with its weight
type ModelDetail struct {
	Name       string  `json:"name"`
	Weight     float64 `json:"weight"`
	Prediction float64 `json:"prediction"`
}

// AppliedParameters echoes the tuning the pipeline actually ran with
type AppliedParameters struct {
	Profile           string  `json:"profile"`
	Preset            string  `json:"preset"`
	MarginFraction    float64 `json:"margin_fraction"`
	ColumnStride      int     `json:"column_stride"`
	OutlierZThreshold float64 `json:"outlier_z_threshold"`
	SmoothWindow      int     `json:"smooth_window"`
	PolynomialDegree  int     `json:"polynomial_degree"`
	RecentWindow      int     `json:"recent_window"`
}

// ValidationIssue mirrors a chart validation finding in the response
type ValidationIssue struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}
