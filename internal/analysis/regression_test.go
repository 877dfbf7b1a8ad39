package analysis

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"biosense/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearRegressionExactLine(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ys := []float64{-2, -4, -6, -8} // y = -2x

	fit, err := LinearRegression(xs, ys)
	require.NoError(t, err)
	assert.InDelta(t, -2.0, fit.Slope, 1e-9)
	assert.InDelta(t, 0.0, fit.Intercept, 1e-9)
	assert.InDelta(t, 0.0, fit.ResidualStdev, 1e-9)
	assert.InDelta(t, 1.0, fit.RSquared, 1e-9)
}

func TestLinearRegressionRecoversNoisySlope(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	xs := make([]float64, 20)
	ys := make([]float64, 20)
	for i := range xs {
		xs[i] = float64(i%6) + 1
		ys[i] = -4.5*xs[i] + rng.NormFloat64()*0.8
	}

	fit, err := LinearRegression(xs, ys)
	require.NoError(t, err)
	assert.InDelta(t, -4.5, fit.Slope, 0.5)
	assert.Equal(t, 20, fit.N)
}

func TestLinearRegressionPreconditions(t *testing.T) {
	_, err := LinearRegression([]float64{1, 2}, []float64{1})
	assert.True(t, errors.Is(err, core.ErrShapeMismatch))

	_, err = LinearRegression([]float64{1}, []float64{1})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))

	// Identical x values cannot identify a slope
	_, err = LinearRegression([]float64{3, 3, 3}, []float64{1, 2, 3})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestConfidence(t *testing.T) {
	cfg := DefaultRegressionConfig()

	perfect := Fit{N: 20, RSquared: 1}
	assert.InDelta(t, 1.0, Confidence(perfect, cfg), 1e-9)

	// Small samples cap confidence even on a perfect fit
	small := Fit{N: 5, RSquared: 1}
	assert.InDelta(t, 0.25, Confidence(small, cfg), 1e-9)

	noisy := Fit{N: 20, RSquared: 0.4}
	assert.InDelta(t, 0.4, Confidence(noisy, cfg), 1e-9)
}

func TestSafeLimit(t *testing.T) {
	// delta = -3*x, 5-point degradation crossed at x = 5/3
	fit := Fit{Slope: -3, Intercept: 0}
	limit := SafeLimit(fit, 5)
	require.NotNil(t, limit)
	assert.InDelta(t, 5.0/3.0, *limit, 1e-9)

	// Non-negative sensitivity never crosses
	assert.Nil(t, SafeLimit(Fit{Slope: 0.5}, 5))
	assert.Nil(t, SafeLimit(Fit{Slope: 0}, 5))

	// A limit never goes negative even when the intercept already sits
	// below the threshold
	limit = SafeLimit(Fit{Slope: -2, Intercept: -10}, 5)
	require.NotNil(t, limit)
	assert.Equal(t, 0.0, *limit)
}

func TestAlcoholMagnitude(t *testing.T) {
	assert.Equal(t, 3.0, AlcoholMagnitude("beer", 3))
	assert.InDelta(t, 2.5, AlcoholMagnitude("Wine", 2), 1e-9)
	assert.Equal(t, 1.5, AlcoholMagnitude("cocktail", 1))
	assert.Equal(t, 2.0, AlcoholMagnitude("kombucha", 2)) // unknown → 1 unit each
	assert.Equal(t, 0.0, AlcoholMagnitude("beer", 0))
}

func TestCaffeineMagnitude(t *testing.T) {
	sleep := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	// Morning coffee, 15h out: plain cup count
	morning := sleep.Add(-15 * time.Hour)
	assert.InDelta(t, 2.0, CaffeineMagnitude(2, morning, sleep), 1e-9)

	// At sleep time: doubled
	assert.InDelta(t, 4.0, CaffeineMagnitude(2, sleep, sleep), 1e-9)

	// 6h before sleep: halfway through the window
	evening := sleep.Add(-6 * time.Hour)
	assert.InDelta(t, 3.0, CaffeineMagnitude(2, evening, sleep), 1e-9)
}
