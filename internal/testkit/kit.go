package testkit

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"biosense/domain/biometrics"
	"biosense/domain/causality"
	"biosense/domain/core"
)

// Kit generates deterministic synthetic fixtures for the causal pipeline.
// Everything is seeded so test runs are reproducible.
type Kit struct {
	rng  *rand.Rand
	base time.Time
}

// New creates a kit with a fixed seed and a fixed anchor date
func New(seed int64) *Kit {
	return &Kit{
		rng:  rand.New(rand.NewSource(seed)),
		base: time.Date(2026, 4, 1, 21, 0, 0, 0, time.UTC),
	}
}

// DayOffset returns the anchor date shifted by n days
func (k *Kit) DayOffset(n int) time.Time {
	return k.base.AddDate(0, 0, n)
}

// Snapshot builds a snapshot with every score metric present
func (k *Kit) Snapshot(day core.Day, hrv, sleep, readiness float64) biometrics.Snapshot {
	return biometrics.NewSnapshot(day).
		WithMetric(biometrics.MetricHRV, hrv).
		WithMetric(biometrics.MetricSleep, sleep).
		WithMetric(biometrics.MetricReadiness, readiness)
}

// ResolvedEvent fabricates a resolved event for one domain whose
// primary-metric delta equals exactly the given value.
func (k *Kit) ResolvedEvent(userID core.UserID, domain causality.ActionDomain, magnitude, delta float64, dayOffset int) (causality.Event, error) {
	occurredAt := k.DayOffset(dayOffset)
	metric := domain.PrimaryMetric()

	before := biometrics.NewSnapshot(core.NewDay(occurredAt)).WithMetric(metric, 60)
	after := biometrics.NewSnapshot(core.NewDay(occurredAt).AddDays(1)).WithMetric(metric, 60+delta)

	event, err := causality.NewEvent(userID, domain, magnitude, core.NewTimestamp(occurredAt), before)
	if err != nil {
		return causality.Event{}, err
	}
	return event.Resolve(after, core.NewTimestamp(after.Date.Time()))
}

// LinearEvents fabricates n resolved events following
// delta = slope*magnitude + N(0, noise), with magnitudes cycling 1..maxMag.
func (k *Kit) LinearEvents(userID core.UserID, domain causality.ActionDomain, n int, slope, noise float64, maxMag int) ([]causality.Event, error) {
	events := make([]causality.Event, 0, n)
	for i := 0; i < n; i++ {
		magnitude := float64(i%maxMag + 1)
		delta := slope*magnitude + k.rng.NormFloat64()*noise
		event, err := k.ResolvedEvent(userID, domain, magnitude, delta, i)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// Series generates a noisy daily metric series around a baseline
func (k *Kit) Series(n int, baseline, noise float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = baseline + k.rng.NormFloat64()*noise
	}
	return out
}

// FlatFlags generates n confound-free flag entries starting at the anchor
func (k *Kit) FlatFlags(n int) []biometrics.ConfoundFlags {
	out := make([]biometrics.ConfoundFlags, n)
	for i := range out {
		out[i] = biometrics.ConfoundFlags{Date: core.NewDay(k.DayOffset(i))}
	}
	return out
}

// FailingProfileStore always errors; it exercises the graceful-degradation
// path where consumers fall back to non-personalized constants.
type FailingProfileStore struct{}

func (FailingProfileStore) SaveProfile(ctx context.Context, profile causality.Profile) error {
	return fmt.Errorf("profile store unavailable")
}

func (FailingProfileStore) GetProfile(ctx context.Context, userID core.UserID) (causality.Profile, error) {
	return causality.Profile{}, fmt.Errorf("profile store unavailable")
}
