package trend

import "biosense/domain/biometrics"

// Direction classifies the local slope of a series at one index
type Direction string

const (
	DirectionUp            Direction = "up"
	DirectionDown          Direction = "down"
	DirectionFlat          Direction = "flat"
	DirectionIndeterminate Direction = "indeterminate"
)

// Baseline is a series' own historical center and spread, the yardstick
// significance is measured against instead of any population constant.
type Baseline struct {
	Mean   float64 `json:"mean"`
	Stdev  float64 `json:"stdev"`
	Window int     `json:"window"`
}

// ExtremumKind marks a detected turning point as a peak or a valley
type ExtremumKind string

const (
	Peak   ExtremumKind = "peak"
	Valley ExtremumKind = "valley"
)

// Extremum is one detected turning point in a series
type Extremum struct {
	Index int          `json:"index"`
	Value float64      `json:"value"`
	Kind  ExtremumKind `json:"kind"`
}

// Report is the full de-noised view of one metric's history: the
// confound-adjusted series, its smoothed form, per-day direction, turning
// points, and whether the latest movement clears the noise floor.
type Report struct {
	Metric            biometrics.MetricKind `json:"metric"`
	Adjusted          []float64             `json:"adjusted"`
	Rolling           []float64             `json:"rolling"`
	RollingWindow     int                   `json:"rolling_window"`
	Baseline          Baseline              `json:"baseline"`
	Directions        []Direction           `json:"directions"`
	Extrema           []Extremum            `json:"extrema"`
	LatestDelta       float64               `json:"latest_delta"`
	LatestSignificant bool                  `json:"latest_significant"`
}
