package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-chart-digitizer/internal/config"
	apperrors "go-chart-digitizer/internal/errors"
	"go-chart-digitizer/pkg/models"

	"github.com/gin-gonic/gin"
)

// stubForecastService returns canned responses for handler tests
type stubForecastService struct {
	response *models.ChartForecastResponse
	detailed *models.DetailedForecastResponse
	err      error
}

func (s *stubForecastService) Forecast(ctx context.Context, request models.ForecastRequest) (*models.ChartForecastResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s *stubForecastService) ForecastDetailed(ctx context.Context, request models.ForecastRequest) (*models.DetailedForecastResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.detailed, nil
}

func (s *stubForecastService) ValidateSource(source string) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		RequestTimeout:     5 * time.Second,
		MaxRequestBodySize: 1 << 20,
	}
}

func validBody() []byte {
	body, _ := json.Marshal(models.ForecastRequest{
		URL:        "https://example.com/chart.png",
		DateRange:  models.DateRangeRequest{Start: "2026-01-01", End: "2026-04-01"},
		PriceRange: models.PriceRangeRequest{Min: 0, Max: 100},
		TargetDate: "2026-05-01",
	})
	return body
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(&stubForecastService{}, testConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "available" {
		t.Errorf("unexpected status %v", body["status"])
	}
}

func TestForecastEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubForecastService{
		response: &models.ChartForecastResponse{
			ImageURL: "https://example.com/chart.png",
			Trace:    models.TraceSummary{Profile: "blue", PointCount: 42},
			Forecast: models.ForecastSummary{Ensemble: 123.4, Confidence: 88.5},
		},
	}
	handler := NewHandler(svc, testConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/forecast", bytes.NewReader(validBody()))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.ChartForecastResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Forecast.Ensemble != 123.4 {
		t.Errorf("unexpected ensemble %v", resp.Forecast.Ensemble)
	}
	if resp.Trace.Profile != "blue" {
		t.Errorf("unexpected profile %s", resp.Trace.Profile)
	}
}

func TestForecastMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(&stubForecastService{}, testConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/forecast", bytes.NewReader([]byte(`{"url":""}`)))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestForecastErrorStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"validation", apperrors.NewValidationError("bad profile", nil), http.StatusBadRequest},
		{"network", apperrors.NewNetworkError("fetch failed", nil), http.StatusBadGateway},
		{"decode", apperrors.NewDecodeError("not an image", nil), http.StatusUnprocessableEntity},
		{"insufficient data", apperrors.NewInsufficientDataError("too few points", nil), http.StatusUnprocessableEntity},
		{"timeout", apperrors.NewTimeoutError("deadline", nil), http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(&stubForecastService{err: tt.err}, testConfig())
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/forecast", bytes.NewReader(validBody()))
			req.Header.Set("Content-Type", "application/json")
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestDetailedEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubForecastService{
		detailed: &models.DetailedForecastResponse{
			Series: []models.SeriesPoint{{Date: "2026-01-01", Price: 10}},
			Models: []models.ModelDetail{{Name: "linear", Weight: 0.3, Prediction: 11}},
		},
	}
	handler := NewHandler(svc, testConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/forecast/detailed", bytes.NewReader(validBody()))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.DetailedForecastResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Series) != 1 || len(resp.Models) != 1 {
		t.Errorf("unexpected detailed payload: %+v", resp)
	}
}
