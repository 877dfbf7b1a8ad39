package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"biosense/domain/biometrics"
	"biosense/domain/causality"
	"biosense/domain/core"

	"github.com/jmoiron/sqlx"
)

// EventRepository is the postgres ports.EventStore. The pending→terminal
// transition is enforced in SQL: updates only match rows still pending, so
// a replayed resolution can never rewrite a terminal event.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// PutEvent persists a newly captured pending event
func (r *EventRepository) PutEvent(ctx context.Context, event causality.Event) error {
	beforeJSON, err := json.Marshal(event.Before)
	if err != nil {
		return fmt.Errorf("failed to marshal before-snapshot: %w", err)
	}

	query := `
		INSERT INTO causality_events (
			id, user_id, domain, action_magnitude, occurred_at, before_snapshot, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		event.ID.String(),
		event.UserID.String(),
		string(event.Domain),
		event.ActionMagnitude,
		event.OccurredAt.Time(),
		beforeJSON,
		string(event.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert causality event: %w", err)
	}
	return nil
}

// GetPendingEvents returns a user's pending events, oldest first
func (r *EventRepository) GetPendingEvents(ctx context.Context, userID core.UserID) ([]causality.Event, error) {
	return r.listEvents(ctx, userID, string(causality.StatusPending))
}

// GetResolvedEvents returns a user's resolved events, oldest first
func (r *EventRepository) GetResolvedEvents(ctx context.Context, userID core.UserID) ([]causality.Event, error) {
	return r.listEvents(ctx, userID, string(causality.StatusResolved))
}

// GetEvents returns all of a user's events regardless of status
func (r *EventRepository) GetEvents(ctx context.Context, userID core.UserID) ([]causality.Event, error) {
	return r.listEvents(ctx, userID, "")
}

// MarkResolved records the pending→resolved transition
func (r *EventRepository) MarkResolved(ctx context.Context, eventID core.EventID, outcome causality.Outcome) error {
	outcomeJSON, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}

	query := `
		UPDATE causality_events
		SET status = $2, outcome = $3, resolved_at = $4
		WHERE id = $1 AND status = $5`

	res, err := r.db.ExecContext(ctx, query,
		eventID.String(),
		string(causality.StatusResolved),
		outcomeJSON,
		outcome.ResolvedAt.Time(),
		string(causality.StatusPending),
	)
	if err != nil {
		return fmt.Errorf("failed to resolve event: %w", err)
	}
	return r.checkTransition(ctx, res, eventID)
}

// MarkExpired records the pending→expired transition
func (r *EventRepository) MarkExpired(ctx context.Context, eventID core.EventID) error {
	query := `
		UPDATE causality_events
		SET status = $2
		WHERE id = $1 AND status = $3`

	res, err := r.db.ExecContext(ctx, query,
		eventID.String(),
		string(causality.StatusExpired),
		string(causality.StatusPending),
	)
	if err != nil {
		return fmt.Errorf("failed to expire event: %w", err)
	}
	return r.checkTransition(ctx, res, eventID)
}

func (r *EventRepository) checkTransition(ctx context.Context, res sql.Result, eventID core.EventID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// No pending row matched: either the event does not exist or it is
	// already terminal.
	var status string
	err = r.db.QueryRowContext(ctx,
		`SELECT status FROM causality_events WHERE id = $1`, eventID.String()).Scan(&status)
	if err == sql.ErrNoRows {
		return core.NewNotFoundError("causality event", eventID.String())
	}
	if err != nil {
		return fmt.Errorf("failed to check event status: %w", err)
	}
	return fmt.Errorf("%w: %s is %s", core.ErrEventTerminal, eventID, status)
}

func (r *EventRepository) listEvents(ctx context.Context, userID core.UserID, status string) ([]causality.Event, error) {
	query := `
		SELECT id, user_id, domain, action_magnitude, occurred_at, before_snapshot, status, outcome
		FROM causality_events
		WHERE user_id = $1`
	args := []interface{}{userID.String()}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY occurred_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []causality.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanEvent(rows *sql.Rows) (causality.Event, error) {
	var (
		event       causality.Event
		id, userID  string
		domain      string
		status      string
		occurredAt  time.Time
		beforeJSON  []byte
		outcomeJSON []byte
	)

	err := rows.Scan(&id, &userID, &domain, &event.ActionMagnitude, &occurredAt, &beforeJSON, &status, &outcomeJSON)
	if err != nil {
		return causality.Event{}, fmt.Errorf("failed to scan event: %w", err)
	}

	event.ID = core.EventID(id)
	event.UserID = core.UserID(userID)
	event.Domain = causality.ActionDomain(domain)
	event.Status = causality.EventStatus(status)
	event.OccurredAt = core.NewTimestamp(occurredAt)

	var before biometrics.Snapshot
	if err := json.Unmarshal(beforeJSON, &before); err != nil {
		return causality.Event{}, fmt.Errorf("failed to unmarshal before-snapshot: %w", err)
	}
	event.Before = before

	if len(outcomeJSON) > 0 {
		var outcome causality.Outcome
		if err := json.Unmarshal(outcomeJSON, &outcome); err != nil {
			return causality.Event{}, fmt.Errorf("failed to unmarshal outcome: %w", err)
		}
		event.Outcome = &outcome
	}
	return event, nil
}
