package forecast

import (
	"math"
	"testing"
	"time"

	apperrors "go-chart-digitizer/internal/errors"
	"go-chart-digitizer/internal/mapper"
)

func daySeries(prices []float64) []mapper.DomainPoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]mapper.DomainPoint, len(prices))
	for i, p := range prices {
		series[i] = mapper.DomainPoint{Timestamp: start.AddDate(0, 0, i), Price: p}
	}
	return series
}

func dayOffset(series []mapper.DomainPoint, days int) time.Time {
	return series[0].Timestamp.AddDate(0, 0, days)
}

func TestEnsembleWeightsSumToOne(t *testing.T) {
	engine := NewEngine(DefaultOptions())

	sum := 0.0
	for _, m := range engine.Models() {
		sum += m.Weight
	}
	if math.Abs(sum-1.0) > 1e-12 {
		t.Errorf("Expected ensemble weights to sum to 1.0, got %f", sum)
	}
}

func TestModelOrder(t *testing.T) {
	engine := NewEngine(DefaultOptions())
	names := []string{"linear", "polynomial", "moving_average"}

	models := engine.Models()
	if len(models) != 3 {
		t.Fatalf("Expected 3 models, got %d", len(models))
	}
	for i, name := range names {
		if models[i].Name != name {
			t.Errorf("Expected model %d to be %s, got %s", i, name, models[i].Name)
		}
	}
}

func TestPredict_InsufficientSeries(t *testing.T) {
	engine := NewEngine(DefaultOptions())

	_, err := engine.Predict(daySeries([]float64{42}), time.Now())
	if err == nil {
		t.Fatal("Expected error for single-point series")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeInsufficientSeries) {
		t.Errorf("Expected insufficient_series error type, got %v", err)
	}
}

func TestPredict_PerfectLine(t *testing.T) {
	// price = 10 + 2*day
	prices := make([]float64, 50)
	for i := range prices {
		prices[i] = 10 + 2*float64(i)
	}
	series := daySeries(prices)

	engine := NewEngine(DefaultOptions())
	result, err := engine.Predict(series, dayOffset(series, 100))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	// All three models extrapolate the same line, so they should agree
	expected := 10 + 2*100.0
	for name, pred := range result.PerModel {
		if math.Abs(pred-expected) > 1.0 {
			t.Errorf("Model %s predicted %f, expected ~%f", name, pred, expected)
		}
	}
	if math.Abs(result.Ensemble-expected) > 1.0 {
		t.Errorf("Ensemble predicted %f, expected ~%f", result.Ensemble, expected)
	}
	if result.Confidence < 99 {
		t.Errorf("Expected near-perfect confidence for agreeing models, got %f", result.Confidence)
	}
}

func TestPredict_PerModelContainsAllModels(t *testing.T) {
	series := daySeries([]float64{10, 12, 11, 14, 13, 16})

	engine := NewEngine(DefaultOptions())
	result, err := engine.Predict(series, dayOffset(series, 10))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	for _, name := range []string{"linear", "polynomial", "moving_average"} {
		if _, ok := result.PerModel[name]; !ok {
			t.Errorf("Expected per-model prediction for %s", name)
		}
	}
}

func TestPredict_ConfidenceNeverNegative(t *testing.T) {
	// Wildly curved data makes the models disagree strongly at a far target
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = float64(i * i * 50)
	}
	series := daySeries(prices)

	engine := NewEngine(DefaultOptions())
	result, err := engine.Predict(series, dayOffset(series, 1000))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if result.Confidence < 0 {
		t.Errorf("Expected confidence clamped at zero, got %f", result.Confidence)
	}
	if result.StdDev <= 0 {
		t.Errorf("Expected positive disagreement for curved data, got %f", result.StdDev)
	}
}

func TestPredict_TwoPointSeries(t *testing.T) {
	// The polynomial degree is capped so two points still fit
	series := daySeries([]float64{10, 20})

	engine := NewEngine(DefaultOptions())
	result, err := engine.Predict(series, dayOffset(series, 2))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if math.Abs(result.Ensemble-30) > 1e-6 {
		t.Errorf("Expected extrapolation to 30, got %f", result.Ensemble)
	}
}

func TestPredict_RecentWindowDominatesMovingAverage(t *testing.T) {
	// 60 flat days then a steep recent climb; the moving-average trend only
	// sees the climb while the full-series linear fit is diluted by the
	// flat stretch
	prices := make([]float64, 90)
	for i := 0; i < 60; i++ {
		prices[i] = 100
	}
	for i := 60; i < 90; i++ {
		prices[i] = 100 + float64(i-60)*5
	}
	series := daySeries(prices)

	engine := NewEngine(DefaultOptions())
	result, err := engine.Predict(series, dayOffset(series, 91))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if result.PerModel["moving_average"] <= result.PerModel["linear"] {
		t.Errorf("Expected recent-trend model above the diluted linear fit, got ma=%f linear=%f",
			result.PerModel["moving_average"], result.PerModel["linear"])
	}
}

func TestPredict_DegenerateTimestamps(t *testing.T) {
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	series := []mapper.DomainPoint{
		{Timestamp: ts, Price: 10},
		{Timestamp: ts, Price: 20},
	}

	engine := NewEngine(DefaultOptions())
	result, err := engine.Predict(series, ts.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if math.IsNaN(result.Ensemble) || math.IsInf(result.Ensemble, 0) {
		t.Errorf("Expected finite ensemble for coincident timestamps, got %f", result.Ensemble)
	}
	if result.Confidence < 0 || result.Confidence > 100 {
		t.Errorf("Expected confidence in [0, 100], got %f", result.Confidence)
	}
}
