package ports

import (
	"context"

	"biosense/domain/causality"
	"biosense/domain/core"
)

// ProfileStore persists the latest causality profile per user. The profile
// is a derived artifact; the only legal write is a full replace with a
// profile recomputed from the resolved-event set.
type ProfileStore interface {
	// SaveProfile replaces the stored profile for the profile's user
	SaveProfile(ctx context.Context, profile causality.Profile) error

	// GetProfile returns the latest stored profile, or core.ErrProfileNotFound
	GetProfile(ctx context.Context, userID core.UserID) (causality.Profile, error)
}
