package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"biosense/domain/causality"
	"biosense/domain/core"
)

// EventStore is the in-process ports.EventStore for single-process use and
// tests. Events are stored by ID with a per-user index; all reads return
// copies ordered by occurrence time.
type EventStore struct {
	mu     sync.RWMutex
	events map[core.EventID]causality.Event
	byUser map[core.UserID][]core.EventID
}

// NewEventStore creates an empty in-memory event store
func NewEventStore() *EventStore {
	return &EventStore{
		events: make(map[core.EventID]causality.Event),
		byUser: make(map[core.UserID][]core.EventID),
	}
}

// PutEvent persists a newly captured event
func (s *EventStore) PutEvent(ctx context.Context, event causality.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.events[event.ID]; exists {
		return fmt.Errorf("event %s already exists", event.ID)
	}
	s.events[event.ID] = event
	s.byUser[event.UserID] = append(s.byUser[event.UserID], event.ID)
	return nil
}

// GetPendingEvents returns a user's pending events, oldest first
func (s *EventStore) GetPendingEvents(ctx context.Context, userID core.UserID) ([]causality.Event, error) {
	return s.listByStatus(userID, causality.StatusPending), nil
}

// GetResolvedEvents returns a user's resolved events, oldest first
func (s *EventStore) GetResolvedEvents(ctx context.Context, userID core.UserID) ([]causality.Event, error) {
	return s.listByStatus(userID, causality.StatusResolved), nil
}

// GetEvents returns all of a user's events regardless of status
func (s *EventStore) GetEvents(ctx context.Context, userID core.UserID) ([]causality.Event, error) {
	return s.listByStatus(userID, ""), nil
}

// MarkResolved records the pending→resolved transition
func (s *EventStore) MarkResolved(ctx context.Context, eventID core.EventID, outcome causality.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[eventID]
	if !ok {
		return core.NewNotFoundError("causality event", eventID.String())
	}
	resolved, err := event.Resolve(outcome.After, outcome.ResolvedAt)
	if err != nil {
		return err
	}
	s.events[eventID] = resolved
	return nil
}

// MarkExpired records the pending→expired transition
func (s *EventStore) MarkExpired(ctx context.Context, eventID core.EventID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[eventID]
	if !ok {
		return core.NewNotFoundError("causality event", eventID.String())
	}
	expired, err := event.Expire()
	if err != nil {
		return err
	}
	s.events[eventID] = expired
	return nil
}

func (s *EventStore) listByStatus(userID core.UserID, status causality.EventStatus) []causality.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]causality.Event, 0)
	for _, id := range s.byUser[userID] {
		event := s.events[id]
		if status == "" || event.Status == status {
			out = append(out, event)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	return out
}
