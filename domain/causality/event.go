package causality

import (
	"fmt"

	"biosense/domain/biometrics"
	"biosense/domain/core"
)

// ActionDomain classifies the kind of action an event captures
type ActionDomain string

const (
	DomainAlcohol  ActionDomain = "alcohol"
	DomainCaffeine ActionDomain = "caffeine"
	DomainWorkout  ActionDomain = "workout"
)

// Domains lists every supported action domain
func Domains() []ActionDomain {
	return []ActionDomain{DomainAlcohol, DomainCaffeine, DomainWorkout}
}

// ParseActionDomain validates a domain name
func ParseActionDomain(s string) (ActionDomain, error) {
	switch ActionDomain(s) {
	case DomainAlcohol, DomainCaffeine, DomainWorkout:
		return ActionDomain(s), nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownDomain, s)
}

// PrimaryMetric is the outcome metric a domain's effect is measured against:
// alcohol hits overnight HRV, caffeine hits sleep quality, workouts hit
// next-day readiness.
func (d ActionDomain) PrimaryMetric() biometrics.MetricKind {
	switch d {
	case DomainAlcohol:
		return biometrics.MetricHRV
	case DomainCaffeine:
		return biometrics.MetricSleep
	case DomainWorkout:
		return biometrics.MetricReadiness
	}
	return biometrics.MetricReadiness
}

// EventStatus is the lifecycle state of a causality event
type EventStatus string

const (
	StatusPending  EventStatus = "pending"
	StatusResolved EventStatus = "resolved"
	StatusExpired  EventStatus = "expired"
)

// Outcome is the resolved half of a causality event: the after-snapshot and
// the per-metric difference it produced against the before-snapshot.
type Outcome struct {
	After      biometrics.Snapshot `json:"after"`
	Delta      biometrics.Delta    `json:"delta"`
	ResolvedAt core.Timestamp      `json:"resolved_at"`
}

// Event is an immutable (action, before-state) record awaiting a later
// after-state. The only legal mutation is the single pending→resolved or
// pending→expired transition; both are terminal.
type Event struct {
	ID              core.EventID        `json:"id"`
	UserID          core.UserID         `json:"user_id"`
	Domain          ActionDomain        `json:"domain"`
	ActionMagnitude float64             `json:"action_magnitude"`
	OccurredAt      core.Timestamp      `json:"occurred_at"`
	Before          biometrics.Snapshot `json:"before"`
	Status          EventStatus         `json:"status"`
	Outcome         *Outcome            `json:"outcome,omitempty"`
}

// NewEvent captures an action taken in a given biometric state
func NewEvent(userID core.UserID, domain ActionDomain, magnitude float64, occurredAt core.Timestamp, before biometrics.Snapshot) (Event, error) {
	if userID.String() == "" {
		return Event{}, core.NewValidationError("user_id", "required")
	}
	if magnitude < 0 {
		return Event{}, core.NewValidationError("action_magnitude", "must be non-negative")
	}
	if before.IsEmpty() {
		return Event{}, fmt.Errorf("%w: before-snapshot has no measured metrics", core.ErrMissingSnapshot)
	}
	return Event{
		ID:              core.EventID(core.NewID()),
		UserID:          userID,
		Domain:          domain,
		ActionMagnitude: magnitude,
		OccurredAt:      occurredAt,
		Before:          before,
		Status:          StatusPending,
	}, nil
}

// IsTerminal reports whether the event can no longer change state
func (e Event) IsTerminal() bool {
	return e.Status == StatusResolved || e.Status == StatusExpired
}

// ResolvableBy reports whether a snapshot dated on/after the resolution
// horizon can complete this pending event.
func (e Event) ResolvableBy(snapshotDay core.Day, horizonDays int) bool {
	if e.Status != StatusPending {
		return false
	}
	earliest := e.OccurredAt.Day().AddDays(horizonDays)
	return !snapshotDay.Before(earliest)
}

// ExpiredBy reports whether the event's expiry horizon has passed as of the
// given day with no outcome recorded.
func (e Event) ExpiredBy(day core.Day, expiryDays int) bool {
	if e.Status != StatusPending {
		return false
	}
	return day.After(e.OccurredAt.Day().AddDays(expiryDays))
}

// Resolve returns the event completed with an outcome. Calling it on a
// terminal event is a caller bug; idempotent re-resolution is handled a
// layer up by skipping terminal events entirely.
func (e Event) Resolve(after biometrics.Snapshot, resolvedAt core.Timestamp) (Event, error) {
	if e.IsTerminal() {
		return e, fmt.Errorf("%w: %s is %s", core.ErrEventTerminal, e.ID, e.Status)
	}
	delta := biometrics.DeltaBetween(after, e.Before)
	e.Status = StatusResolved
	e.Outcome = &Outcome{After: after, Delta: delta, ResolvedAt: resolvedAt}
	return e, nil
}

// Expire returns the event in its terminal expired state
func (e Event) Expire() (Event, error) {
	if e.IsTerminal() {
		return e, fmt.Errorf("%w: %s is %s", core.ErrEventTerminal, e.ID, e.Status)
	}
	e.Status = StatusExpired
	return e, nil
}

// PrimaryDelta returns the outcome delta for the event's domain metric
func (e Event) PrimaryDelta() (float64, bool) {
	if e.Outcome == nil {
		return 0, false
	}
	return e.Outcome.Delta.Metric(e.Domain.PrimaryMetric())
}
