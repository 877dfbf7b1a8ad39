package confound

import (
	"errors"
	"testing"

	"biosense/domain/biometrics"
	"biosense/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestAdjustAlcohol(t *testing.T) {
	a := New()

	adj := a.Adjust(50, biometrics.ConfoundFlags{AlcoholUnits: f(2)}, biometrics.MetricHRV)
	assert.Equal(t, 50.0, adj.Raw)
	assert.InDelta(t, 2*2.5, adj.Penalties.Alcohol, 1e-9)
	assert.InDelta(t, 55.0, adj.Adjusted, 1e-9)
	assert.Greater(t, adj.Adjusted, adj.Raw)
}

func TestAdjustCombinesSources(t *testing.T) {
	a := New()

	flags := biometrics.ConfoundFlags{
		TrainingIntensity: f(80),
		TravelDay:         true,
		AlcoholUnits:      f(1),
	}
	adj := a.Adjust(60, flags, biometrics.MetricReadiness)
	assert.InDelta(t, 8.0, adj.Penalties.Training, 1e-9) // 0.10 * 80
	assert.InDelta(t, 5.0, adj.Penalties.Travel, 1e-9)
	assert.InDelta(t, 3.0, adj.Penalties.Alcohol, 1e-9)
	assert.InDelta(t, 76.0, adj.Adjusted, 1e-9)
}

func TestAdjustNoConfounds(t *testing.T) {
	a := New()

	adj := a.Adjust(70, biometrics.ConfoundFlags{}, biometrics.MetricSleep)
	assert.Equal(t, 70.0, adj.Adjusted)
	assert.Equal(t, 0.0, adj.Penalties.Total())

	// Resting HR has no suppression model
	adj = a.Adjust(55, biometrics.ConfoundFlags{AlcoholUnits: f(4), TravelDay: true}, biometrics.MetricRestingHR)
	assert.Equal(t, 55.0, adj.Adjusted)
}

func TestAdjustSeries(t *testing.T) {
	a := New()

	data := []float64{50, 52}
	flags := []biometrics.ConfoundFlags{
		{},
		{AlcoholUnits: f(2)},
	}
	adjs, err := a.AdjustSeries(data, flags, biometrics.MetricHRV)
	require.NoError(t, err)
	assert.Equal(t, []float64{50, 57}, Values(adjs))
}

func TestAdjustSeriesShapeMismatch(t *testing.T) {
	a := New()

	_, err := a.AdjustSeries([]float64{1, 2, 3}, []biometrics.ConfoundFlags{{}}, biometrics.MetricHRV)
	assert.True(t, errors.Is(err, core.ErrShapeMismatch))
	assert.True(t, core.IsPreconditionError(err))
}

func TestCustomCoefficients(t *testing.T) {
	a := NewWithCoefficients(map[biometrics.MetricKind]Coefficients{
		biometrics.MetricHRV: {AlcoholPerUnit: 10},
	})

	adj := a.Adjust(40, biometrics.ConfoundFlags{AlcoholUnits: f(1)}, biometrics.MetricHRV)
	assert.InDelta(t, 50.0, adj.Adjusted, 1e-9)

	// Unspecified metrics keep the defaults
	adj = a.Adjust(40, biometrics.ConfoundFlags{TravelDay: true}, biometrics.MetricSleep)
	assert.InDelta(t, 46.0, adj.Adjusted, 1e-9)
}
