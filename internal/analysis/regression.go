package analysis

import (
	"math"

	"biosense/domain/core"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// RegressionConfig exposes the fitting thresholds as tunables instead of
// hard-coded constants, so small-sample behavior can be tightened without
// touching the fit itself.
type RegressionConfig struct {
	// MinSamples is the minimum resolved-event count before a domain's
	// pattern is emitted at all. Below it the domain is reported absent,
	// never guessed.
	MinSamples int
	// FullConfidenceSamples is the sample count at which the sample-size
	// component of confidence saturates at 1.
	FullConfidenceSamples int
}

// DefaultRegressionConfig matches the minimum-sample threshold used for
// correlation reporting elsewhere in the product.
func DefaultRegressionConfig() RegressionConfig {
	return RegressionConfig{MinSamples: 5, FullConfidenceSamples: 20}
}

// Fit is an ordinary least-squares line plus the diagnostics confidence is
// derived from.
type Fit struct {
	Slope         float64
	Intercept     float64
	N             int
	ResidualStdev float64
	RSquared      float64
}

// LinearRegression fits y = intercept + slope*x by OLS. Mismatched lengths
// are a caller bug; fewer than two points or zero x-variance cannot identify
// a slope and return core.ErrInsufficientData.
func LinearRegression(xs, ys []float64) (Fit, error) {
	if len(xs) != len(ys) {
		return Fit{}, core.NewShapeError(len(xs), len(ys))
	}
	if len(xs) < 2 {
		return Fit{}, core.ErrInsufficientData
	}
	if !hasVariance(xs) {
		return Fit{}, core.ErrInsufficientData
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	residuals := make([]float64, len(xs))
	for i := range xs {
		residuals[i] = ys[i] - (intercept + slope*xs[i])
	}
	residStdev, err := stats.StandardDeviationPopulation(residuals)
	if err != nil {
		return Fit{}, err
	}

	rsq := stat.RSquared(xs, ys, nil, intercept, slope)
	if math.IsNaN(rsq) {
		// Zero y-variance: the line explains everything there is to explain
		rsq = 1
	}

	return Fit{
		Slope:         slope,
		Intercept:     intercept,
		N:             len(xs),
		ResidualStdev: residStdev,
		RSquared:      rsq,
	}, nil
}

// Confidence scores a fit 0-1 from its sample size and residual spread:
// fit quality (R²) scaled by how close the sample count is to saturation.
func Confidence(fit Fit, cfg RegressionConfig) float64 {
	if cfg.FullConfidenceSamples <= 0 {
		cfg.FullConfidenceSamples = DefaultRegressionConfig().FullConfidenceSamples
	}

	sampleFactor := float64(fit.N) / float64(cfg.FullConfidenceSamples)
	if sampleFactor > 1 {
		sampleFactor = 1
	}

	c := fit.RSquared * sampleFactor
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// SafeLimit derives the smallest action magnitude at which the fitted line
// crosses a degradation threshold (a positive drop in the outcome metric).
// A non-negative slope never crosses and yields nil.
func SafeLimit(fit Fit, degradationThreshold float64) *float64 {
	if fit.Slope >= 0 || degradationThreshold <= 0 {
		return nil
	}
	// Solve intercept + slope*x = -threshold for x
	x := (-degradationThreshold - fit.Intercept) / fit.Slope
	if x < 0 {
		x = 0
	}
	return &x
}

func hasVariance(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return true
		}
	}
	return false
}
