package confound

import (
	"biosense/domain/biometrics"
	"biosense/domain/core"
)

// Coefficients describe how strongly each confound source is estimated to
// suppress one metric: training scales with reported intensity percent,
// travel is a fixed hit, alcohol scales with reported unit count.
type Coefficients struct {
	TrainingPerPercent float64
	TravelFlat         float64
	AlcoholPerUnit     float64
}

// defaultCoefficients carry the population-level priors per metric. HRV is
// hit hardest by alcohol, readiness by training load, sleep by travel.
// Resting HR has no additive suppression model and passes through unchanged.
var defaultCoefficients = map[biometrics.MetricKind]Coefficients{
	biometrics.MetricHRV:       {TrainingPerPercent: 0.08, TravelFlat: 4.0, AlcoholPerUnit: 2.5},
	biometrics.MetricReadiness: {TrainingPerPercent: 0.10, TravelFlat: 5.0, AlcoholPerUnit: 3.0},
	biometrics.MetricSleep:     {TrainingPerPercent: 0.03, TravelFlat: 6.0, AlcoholPerUnit: 2.0},
	biometrics.MetricRestingHR: {},
}

// PenaltyBreakdown itemizes the estimated suppression per confound source.
// Every component is non-negative.
type PenaltyBreakdown struct {
	Training float64 `json:"training"`
	Travel   float64 `json:"travel"`
	Alcohol  float64 `json:"alcohol"`
}

// Total sums the per-source penalties
func (p PenaltyBreakdown) Total() float64 {
	return p.Training + p.Travel + p.Alcohol
}

// Adjustment is one de-confounded reading: the raw value, the itemized
// penalties, and the recovered estimate of the unconfounded value.
// Adjusted is always >= Raw.
type Adjustment struct {
	Raw       float64          `json:"raw"`
	Penalties PenaltyBreakdown `json:"penalties"`
	Adjusted  float64          `json:"adjusted"`
}

// Adjuster strips known noise sources from raw metric values before trend
// analysis. It is pure and safe for concurrent use.
type Adjuster struct {
	coeffs map[biometrics.MetricKind]Coefficients
}

// New creates an adjuster with the default coefficient table
func New() *Adjuster {
	return &Adjuster{coeffs: defaultCoefficients}
}

// NewWithCoefficients creates an adjuster with a custom coefficient table,
// falling back to defaults for metrics the table omits.
func NewWithCoefficients(coeffs map[biometrics.MetricKind]Coefficients) *Adjuster {
	merged := make(map[biometrics.MetricKind]Coefficients, len(defaultCoefficients))
	for k, v := range defaultCoefficients {
		merged[k] = v
	}
	for k, v := range coeffs {
		merged[k] = v
	}
	return &Adjuster{coeffs: merged}
}

// Adjust maps a raw reading plus its day's confound flags to the estimated
// unconfounded value for the given metric.
func (a *Adjuster) Adjust(raw float64, flags biometrics.ConfoundFlags, metric biometrics.MetricKind) Adjustment {
	c := a.coeffs[metric]

	var p PenaltyBreakdown
	if flags.TrainingIntensity != nil && *flags.TrainingIntensity > 0 {
		p.Training = c.TrainingPerPercent * *flags.TrainingIntensity
	}
	if flags.TravelDay {
		p.Travel = c.TravelFlat
	}
	if flags.AlcoholUnits != nil && *flags.AlcoholUnits > 0 {
		p.Alcohol = c.AlcoholPerUnit * *flags.AlcoholUnits
	}

	return Adjustment{Raw: raw, Penalties: p, Adjusted: raw + p.Total()}
}

// AdjustSeries applies Adjust per day. Data and flags must be the same
// length and aligned by index; a mismatch is a caller bug, not a condition
// to pad over.
func (a *Adjuster) AdjustSeries(data []float64, flags []biometrics.ConfoundFlags, metric biometrics.MetricKind) ([]Adjustment, error) {
	if len(data) != len(flags) {
		return nil, core.NewShapeError(len(data), len(flags))
	}

	out := make([]Adjustment, len(data))
	for i, v := range data {
		out[i] = a.Adjust(v, flags[i], metric)
	}
	return out, nil
}

// Values extracts the adjusted series from a slice of adjustments
func Values(adjs []Adjustment) []float64 {
	out := make([]float64, len(adjs))
	for i, adj := range adjs {
		out[i] = adj.Adjusted
	}
	return out
}
