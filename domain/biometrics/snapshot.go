package biometrics

import (
	"fmt"

	"biosense/domain/core"
)

// MetricKind identifies one of the tracked biometric signals
type MetricKind string

const (
	MetricSleep     MetricKind = "sleep"
	MetricReadiness MetricKind = "readiness"
	MetricHRV       MetricKind = "hrv_balance"
	MetricRestingHR MetricKind = "resting_hr"
)

// Kinds lists every metric a snapshot can carry, in canonical order
func Kinds() []MetricKind {
	return []MetricKind{MetricSleep, MetricReadiness, MetricHRV, MetricRestingHR}
}

// ParseMetricKind validates a metric name
func ParseMetricKind(s string) (MetricKind, error) {
	switch MetricKind(s) {
	case MetricSleep, MetricReadiness, MetricHRV, MetricRestingHR:
		return MetricKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownMetric, s)
}

// Snapshot is one day of biometric readings. Each metric is either measured
// (non-nil) or absent; absent is meaningful and is never substituted with zero.
// A snapshot is immutable once recorded.
type Snapshot struct {
	ID         core.SnapshotID `json:"id"`
	Date       core.Day        `json:"date"`
	Sleep      *float64        `json:"sleep,omitempty"`
	Readiness  *float64        `json:"readiness,omitempty"`
	HRVBalance *float64        `json:"hrv_balance,omitempty"`
	RestingHR  *float64        `json:"resting_hr,omitempty"`
}

// NewSnapshot creates a snapshot for a date with no metrics recorded yet
func NewSnapshot(date core.Day) Snapshot {
	return Snapshot{ID: core.SnapshotID(core.NewID()), Date: date}
}

// Metric returns a metric's value and whether it was measured
func (s Snapshot) Metric(kind MetricKind) (float64, bool) {
	var p *float64
	switch kind {
	case MetricSleep:
		p = s.Sleep
	case MetricReadiness:
		p = s.Readiness
	case MetricHRV:
		p = s.HRVBalance
	case MetricRestingHR:
		p = s.RestingHR
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// WithMetric returns a copy of the snapshot with one metric set
func (s Snapshot) WithMetric(kind MetricKind, value float64) Snapshot {
	v := value
	switch kind {
	case MetricSleep:
		s.Sleep = &v
	case MetricReadiness:
		s.Readiness = &v
	case MetricHRV:
		s.HRVBalance = &v
	case MetricRestingHR:
		s.RestingHR = &v
	}
	return s
}

// IsEmpty reports whether no metric was measured
func (s Snapshot) IsEmpty() bool {
	return s.Sleep == nil && s.Readiness == nil && s.HRVBalance == nil && s.RestingHR == nil
}

// Validate checks metric bounds: scores are 0-100, resting HR 20-200 bpm
func (s Snapshot) Validate() error {
	for _, kind := range []MetricKind{MetricSleep, MetricReadiness, MetricHRV} {
		if v, ok := s.Metric(kind); ok && (v < 0 || v > 100) {
			return core.NewValidationError(string(kind), fmt.Sprintf("value %.2f outside [0,100]", v))
		}
	}
	if v, ok := s.Metric(MetricRestingHR); ok && (v < 20 || v > 200) {
		return core.NewValidationError(string(MetricRestingHR), fmt.Sprintf("value %.2f outside [20,200]", v))
	}
	if s.Date.IsZero() {
		return core.NewValidationError("date", "snapshot date is required")
	}
	return nil
}

// Delta holds per-metric signed differences between two snapshots
type Delta map[MetricKind]float64

// DeltaBetween computes after − before for every metric measured on both
// sides. Metrics absent on either side are omitted, never zero-filled.
func DeltaBetween(after, before Snapshot) Delta {
	d := Delta{}
	for _, kind := range Kinds() {
		a, okA := after.Metric(kind)
		b, okB := before.Metric(kind)
		if okA && okB {
			d[kind] = a - b
		}
	}
	return d
}

// Metric returns the delta for one metric and whether it was computable
func (d Delta) Metric(kind MetricKind) (float64, bool) {
	v, ok := d[kind]
	return v, ok
}
