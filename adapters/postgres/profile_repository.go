package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"biosense/domain/causality"
	"biosense/domain/core"

	"github.com/jmoiron/sqlx"
)

// ProfileRepository is the postgres ports.ProfileStore. One row per user,
// replaced wholesale on every rebuild.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// SaveProfile replaces the stored profile for the profile's user
func (r *ProfileRepository) SaveProfile(ctx context.Context, profile causality.Profile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	query := `
		INSERT INTO causality_profiles (user_id, profile, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET profile = EXCLUDED.profile, updated_at = EXCLUDED.updated_at`

	_, err = r.db.ExecContext(ctx, query, profile.UserID.String(), payload, profile.UpdatedAt.Time())
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetProfile returns the latest stored profile
func (r *ProfileRepository) GetProfile(ctx context.Context, userID core.UserID) (causality.Profile, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT profile FROM causality_profiles WHERE user_id = $1`, userID.String()).Scan(&payload)
	if err == sql.ErrNoRows {
		return causality.Profile{}, core.ErrProfileNotFound
	}
	if err != nil {
		return causality.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	var profile causality.Profile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return causality.Profile{}, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return profile, nil
}
