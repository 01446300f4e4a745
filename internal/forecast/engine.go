package forecast

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	apperrors "go-chart-digitizer/internal/errors"
	"go-chart-digitizer/internal/mapper"
)

// PredictionResult is the forecast for one target timestamp.
type PredictionResult struct {
	Ensemble   float64            `json:"ensemble"`
	PerModel   map[string]float64 `json:"per_model"`
	Confidence float64            `json:"confidence"`
	StdDev     float64            `json:"std_dev"`
}

// FitFunc fits one model over the normalized (days, prices) series and
// returns an evaluator for an arbitrary day offset.
type FitFunc func(days, prices []float64) func(day float64) float64

// Model pairs a named fit function with its fixed ensemble weight. Models are
// kept as an ordered list so new ones can join without touching the ensemble
// or confidence formulas.
type Model struct {
	Name   string
	Weight float64
	Fit    FitFunc
}

// Options tunes the default model set.
type Options struct {
	PolynomialDegree int
	RecentWindow     int
}

// DefaultOptions returns the default forecast tuning.
func DefaultOptions() Options {
	return Options{
		PolynomialDegree: 2,
		RecentWindow:     30,
	}
}

// Engine fits an ensemble of trend models over a domain series.
type Engine struct {
	models []Model
}

// NewEngine builds the default ensemble: linear, polynomial and a linear fit
// restricted to the most recent points. The weights are design constants and
// sum to 1.
func NewEngine(opts Options) *Engine {
	if opts.PolynomialDegree < 1 {
		opts.PolynomialDegree = 2
	}
	if opts.RecentWindow < 2 {
		opts.RecentWindow = 30
	}
	return &Engine{models: []Model{
		{Name: "linear", Weight: 0.3, Fit: fitLinear},
		{Name: "polynomial", Weight: 0.4, Fit: fitPolynomial(opts.PolynomialDegree)},
		{Name: "moving_average", Weight: 0.3, Fit: fitRecentTrend(opts.RecentWindow)},
	}}
}

// Models returns the ordered model list.
func (e *Engine) Models() []Model {
	return e.models
}

// Predict evaluates every model at the target timestamp and combines them
// into a weighted ensemble with a disagreement-based confidence score.
func (e *Engine) Predict(series []mapper.DomainPoint, target time.Time) (*PredictionResult, error) {
	if len(series) < 2 {
		return nil, apperrors.NewInsufficientSeriesError(
			fmt.Sprintf("series has %d points, regression needs at least 2", len(series)), nil)
	}

	// Days since series start keeps the regression coefficients well-scaled.
	start := series[0].Timestamp
	days := make([]float64, len(series))
	prices := make([]float64, len(series))
	for i, p := range series {
		days[i] = p.Timestamp.Sub(start).Hours() / 24
		prices[i] = p.Price
	}
	targetDay := target.Sub(start).Hours() / 24
	lastPrice := prices[len(prices)-1]

	perModel := make(map[string]float64, len(e.models))
	ensemble := 0.0
	for _, m := range e.models {
		pred := m.Fit(days, prices)(targetDay)
		if math.IsNaN(pred) || math.IsInf(pred, 0) {
			// Degenerate geometry (e.g. all points share one timestamp)
			// degrades to the last known price instead of propagating.
			pred = lastPrice
		}
		perModel[m.Name] = pred
		ensemble += m.Weight * pred
	}

	variance := 0.0
	for _, m := range e.models {
		d := perModel[m.Name] - ensemble
		variance += d * d
	}
	variance /= float64(len(e.models))
	stdDev := math.Sqrt(variance)

	confidence := 100 - stdDev
	if confidence < 0 {
		confidence = 0
	}

	return &PredictionResult{
		Ensemble:   ensemble,
		PerModel:   perModel,
		Confidence: confidence,
		StdDev:     stdDev,
	}, nil
}

// fitLinear is an ordinary least-squares line over the full series.
func fitLinear(days, prices []float64) func(float64) float64 {
	alpha, beta := stat.LinearRegression(days, prices, nil, false)
	return func(day float64) float64 {
		return alpha + beta*day
	}
}

// fitPolynomial is a least-squares polynomial of the configured degree,
// solved through a QR factorization of the Vandermonde matrix. The degree is
// capped at n-1 so the system never goes underdetermined; a singular system
// falls back to the linear fit.
func fitPolynomial(degree int) FitFunc {
	return func(days, prices []float64) func(float64) float64 {
		n := len(days)
		deg := degree
		if deg > n-1 {
			deg = n - 1
		}
		if deg < 1 {
			deg = 1
		}

		a := mat.NewDense(n, deg+1, nil)
		for i := 0; i < n; i++ {
			v := 1.0
			for j := 0; j <= deg; j++ {
				a.Set(i, j, v)
				v *= days[i]
			}
		}
		b := mat.NewVecDense(n, prices)

		var qr mat.QR
		qr.Factorize(a)
		coeffs := mat.NewVecDense(deg+1, nil)
		if err := qr.SolveVecTo(coeffs, false, b); err != nil {
			return fitLinear(days, prices)
		}

		return func(day float64) float64 {
			sum, v := 0.0, 1.0
			for j := 0; j <= deg; j++ {
				sum += coeffs.AtVec(j) * v
				v *= day
			}
			return sum
		}
	}
}

// fitRecentTrend is an ordinary least-squares line restricted to the most
// recent window points. Fewer than 2 recent points degrade to the last known
// price.
func fitRecentTrend(window int) FitFunc {
	return func(days, prices []float64) func(float64) float64 {
		start := len(days) - window
		if start < 0 {
			start = 0
		}
		recentDays := days[start:]
		recentPrices := prices[start:]

		if len(recentDays) < 2 {
			last := prices[len(prices)-1]
			return func(float64) float64 { return last }
		}
		return fitLinear(recentDays, recentPrices)
	}
}
