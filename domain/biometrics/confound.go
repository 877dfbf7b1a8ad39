package biometrics

import "biosense/domain/core"

// ConfoundFlags records the known noise sources attached to one calendar day.
// Each flag marks an external factor expected to have suppressed that day's
// biometric readings independent of whatever is being measured.
type ConfoundFlags struct {
	Date core.Day `json:"date"`
	// TrainingIntensity is the reported session intensity, 0-100, nil when
	// no training was logged.
	TrainingIntensity *float64 `json:"training_intensity,omitempty"`
	TravelDay         bool     `json:"travel_day"`
	// AlcoholUnits is the reported standard-unit count, nil when none logged.
	AlcoholUnits *float64 `json:"alcohol_units,omitempty"`
}

// HasAny reports whether any confound was logged for the day
func (f ConfoundFlags) HasAny() bool {
	return f.TrainingIntensity != nil || f.TravelDay || (f.AlcoholUnits != nil && *f.AlcoholUnits > 0)
}
