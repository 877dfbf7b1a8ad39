package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"biosense/domain/biometrics"
	"biosense/domain/core"

	"github.com/jmoiron/sqlx"
)

// SnapshotRepository is the postgres ports.SnapshotHistory. One snapshot
// per user per calendar day; re-ingesting a day replaces it.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// PutSnapshot records a snapshot for a user's calendar day
func (r *SnapshotRepository) PutSnapshot(ctx context.Context, userID core.UserID, snapshot biometrics.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO biometric_snapshots (user_id, day, snapshot)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, day) DO UPDATE SET snapshot = EXCLUDED.snapshot`

	_, err = r.db.ExecContext(ctx, query, userID.String(), snapshot.Date.Time(), payload)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetSnapshots returns a user's snapshots ordered by date ascending
func (r *SnapshotRepository) GetSnapshots(ctx context.Context, userID core.UserID) ([]biometrics.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT snapshot FROM biometric_snapshots WHERE user_id = $1 ORDER BY day ASC`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []biometrics.Snapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		var snap biometrics.Snapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// GetSnapshotOn returns the snapshot for one day
func (r *SnapshotRepository) GetSnapshotOn(ctx context.Context, userID core.UserID, day core.Day) (biometrics.Snapshot, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT snapshot FROM biometric_snapshots WHERE user_id = $1 AND day = $2`,
		userID.String(), day.Time()).Scan(&payload)
	if err == sql.ErrNoRows {
		return biometrics.Snapshot{}, core.ErrSnapshotNotFound
	}
	if err != nil {
		return biometrics.Snapshot{}, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snap biometrics.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return biometrics.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, nil
}
