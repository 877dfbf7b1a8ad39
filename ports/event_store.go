package ports

import (
	"context"

	"biosense/domain/causality"
	"biosense/domain/core"
)

// EventStore defines the persistence contract for causality events. Events
// are immutable apart from the single pending→resolved/expired transition;
// implementations must never rewrite a terminal event. Any durable key-value
// or relational backend satisfying this contract is acceptable, as is a
// purely in-memory implementation for single-process use.
type EventStore interface {
	// PutEvent persists a newly captured pending event
	PutEvent(ctx context.Context, event causality.Event) error

	// GetPendingEvents returns a user's pending events, oldest first
	GetPendingEvents(ctx context.Context, userID core.UserID) ([]causality.Event, error)

	// MarkResolved records the pending→resolved transition. Marking an
	// event that is already terminal must return core.ErrEventTerminal.
	MarkResolved(ctx context.Context, eventID core.EventID, outcome causality.Outcome) error

	// MarkExpired records the pending→expired transition, with the same
	// terminal-state guarantee as MarkResolved.
	MarkExpired(ctx context.Context, eventID core.EventID) error

	// GetResolvedEvents returns a user's resolved events, oldest first.
	// Expired events are excluded.
	GetResolvedEvents(ctx context.Context, userID core.UserID) ([]causality.Event, error)

	// GetEvents returns all of a user's events regardless of status
	GetEvents(ctx context.Context, userID core.UserID) ([]causality.Event, error)
}
