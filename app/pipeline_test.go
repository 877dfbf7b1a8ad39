package app

import (
	"context"
	"testing"
	"time"

	"biosense/adapters/memory"
	"biosense/domain/biometrics"
	"biosense/domain/causality"
	"biosense/domain/core"
	"biosense/internal"
	"biosense/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pipeline struct {
	events   *memory.EventStore
	history  *memory.SnapshotHistory
	capture  *CaptureService
	resolver *OutcomeResolver
	cache    *ProfileCache
	intake   *IntakeService
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	log := internal.NewLogger(internal.LogLevelError)
	locks := NewUserLocks()
	events := memory.NewEventStore()
	history := memory.NewSnapshotHistory()

	analyzer := NewCausalityAnalyzer(DefaultAnalyzerConfig())
	cache, err := NewProfileCache(64, memory.NewProfileStore(), log)
	require.NoError(t, err)

	resolver := NewOutcomeResolver(events, analyzer, cache, locks, DefaultResolverConfig(), log)
	return &pipeline{
		events:   events,
		history:  history,
		capture:  NewCaptureService(events, locks, DefaultCaptureConfig(), log),
		resolver: resolver,
		cache:    cache,
		intake:   NewIntakeService(history, resolver, log),
	}
}

func hrvSnapshot(day core.Day, hrv float64) biometrics.Snapshot {
	return biometrics.NewSnapshot(day).WithMetric(biometrics.MetricHRV, hrv)
}

func TestEndToEndAlcoholPattern(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	kit := testkit.New(1)
	user := core.UserID("drinker")

	// Five capture→resolve cycles with increasing magnitudes and a clean
	// linear response: HRV drops 4.5 points per standard unit.
	for i := 0; i < 5; i++ {
		occurredAt := kit.DayOffset(i * 2)
		magnitude := float64(i + 1)

		_, err := p.capture.Capture(ctx, Intent{
			UserID:     user,
			Domain:     causality.DomainAlcohol,
			Magnitude:  magnitude,
			DrinkType:  "beer",
			OccurredAt: core.NewTimestamp(occurredAt),
		}, hrvSnapshot(core.NewDay(occurredAt), 55))
		require.NoError(t, err)

		after := hrvSnapshot(core.NewDay(occurredAt).AddDays(1), 55-4.5*magnitude)
		result, err := p.intake.Ingest(ctx, user, after)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Resolved)
	}

	profile := p.cache.Get(ctx, user)
	require.True(t, profile.IsPersonalized())
	assert.Equal(t, 5, profile.TotalEvents)

	pattern, ok := profile.Pattern(causality.DomainAlcohol)
	require.True(t, ok)
	assert.Equal(t, biometrics.MetricHRV, pattern.Metric)
	assert.Equal(t, 5, pattern.SampleSize)
	assert.InDelta(t, -4.5, pattern.Sensitivity, 1e-6)
	assert.Negative(t, pattern.Sensitivity)
	require.NotNil(t, pattern.SafeLimit)
	assert.Greater(t, *pattern.SafeLimit, 0.0)
}

func TestCaptureStoresDeltaOnResolution(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	user := core.UserID("u")

	occurredAt := time.Date(2026, 6, 1, 22, 0, 0, 0, time.UTC)
	event, err := p.capture.Capture(ctx, Intent{
		UserID:     user,
		Domain:     causality.DomainAlcohol,
		Magnitude:  3,
		DrinkType:  "beer",
		OccurredAt: core.NewTimestamp(occurredAt),
	}, hrvSnapshot(core.NewDay(occurredAt), 55))
	require.NoError(t, err)
	assert.Equal(t, 3.0, event.ActionMagnitude)

	// Two days later a snapshot arrives with HRV 48
	after := hrvSnapshot(core.NewDay(occurredAt).AddDays(2), 48)
	_, err = p.intake.Ingest(ctx, user, after)
	require.NoError(t, err)

	resolved, err := p.events.GetResolvedEvents(ctx, user)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	delta, ok := resolved[0].PrimaryDelta()
	require.True(t, ok)
	assert.InDelta(t, -7.0, delta, 1e-9)
}

func TestResolutionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	kit := testkit.New(2)
	user := core.UserID("u")

	for i := 0; i < 5; i++ {
		occurredAt := kit.DayOffset(i)
		_, err := p.capture.Capture(ctx, Intent{
			UserID:     user,
			Domain:     causality.DomainAlcohol,
			Magnitude:  float64(i + 1),
			OccurredAt: core.NewTimestamp(occurredAt),
		}, hrvSnapshot(core.NewDay(occurredAt), 60))
		require.NoError(t, err)
	}

	// One late snapshot resolves every event whose horizon it satisfies
	after := hrvSnapshot(core.NewDay(kit.DayOffset(6)), 50)
	first, err := p.resolver.Resolve(ctx, user, after)
	require.NoError(t, err)
	assert.Equal(t, 5, first.Resolved)
	once := p.cache.Get(ctx, user)

	// Re-delivering the same snapshot is a no-op: nothing pending remains
	second, err := p.resolver.Resolve(ctx, user, after)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Resolved)
	assert.Equal(t, 0, second.Expired)

	twice := p.cache.Get(ctx, user)
	assert.Equal(t, once.TotalEvents, twice.TotalEvents)
	assert.Equal(t, once.Patterns, twice.Patterns)
}

func TestEventsExpireBeyondHorizon(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	kit := testkit.New(3)
	user := core.UserID("u")

	occurredAt := kit.DayOffset(0)
	_, err := p.capture.Capture(ctx, Intent{
		UserID:     user,
		Domain:     causality.DomainAlcohol,
		Magnitude:  2,
		OccurredAt: core.NewTimestamp(occurredAt),
	}, hrvSnapshot(core.NewDay(occurredAt), 60))
	require.NoError(t, err)

	// The first snapshot arrives nine days later, past the 7-day expiry
	late := hrvSnapshot(core.NewDay(kit.DayOffset(9)), 50)
	result, err := p.resolver.Resolve(ctx, user, late)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Expired)
	assert.Equal(t, 0, result.Resolved)

	// Expired events never reach the regression
	resolved, err := p.events.GetResolvedEvents(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, resolved)
	assert.False(t, p.cache.Get(ctx, user).IsPersonalized())
}

func TestSnapshotBeforeHorizonStaysPending(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	user := core.UserID("u")

	occurredAt := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	_, err := p.capture.Capture(ctx, Intent{
		UserID:     user,
		Domain:     causality.DomainWorkout,
		Magnitude:  60,
		OccurredAt: core.NewTimestamp(occurredAt),
	}, hrvSnapshot(core.NewDay(occurredAt), 60))
	require.NoError(t, err)

	// A same-day snapshot predates the +1 day resolution horizon
	sameDay := hrvSnapshot(core.NewDay(occurredAt), 58)
	result, err := p.resolver.Resolve(ctx, user, sameDay)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)

	pending, err := p.events.GetPendingEvents(ctx, user)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestMultiplePendingEventsSameUser(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	user := core.UserID("u")

	// Two same-day actions are retained as independent events
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, magnitude := range []float64{2, 4} {
		_, err := p.capture.Capture(ctx, Intent{
			UserID:     user,
			Domain:     causality.DomainAlcohol,
			Magnitude:  magnitude,
			OccurredAt: core.NewTimestamp(day.Add(time.Duration(magnitude) * time.Hour)),
		}, hrvSnapshot(core.NewDay(day), 60))
		require.NoError(t, err)
	}

	after := hrvSnapshot(core.NewDay(day).AddDays(1), 52)
	result, err := p.resolver.Resolve(ctx, user, after)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Resolved)
}

func TestResolveAllFansOutAcrossUsers(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	day := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	users := []core.UserID{"a", "b", "c"}
	for _, user := range users {
		_, err := p.capture.Capture(ctx, Intent{
			UserID:     user,
			Domain:     causality.DomainCaffeine,
			Magnitude:  2,
			OccurredAt: core.NewTimestamp(day),
		}, hrvSnapshot(core.NewDay(day), 60))
		require.NoError(t, err)
	}

	snapshots := make(map[core.UserID]biometrics.Snapshot, len(users))
	for _, user := range users {
		snapshots[user] = hrvSnapshot(core.NewDay(day).AddDays(1), 55)
	}

	total, err := p.resolver.ResolveAll(ctx, snapshots)
	require.NoError(t, err)
	assert.Equal(t, 3, total.Resolved)
}
