package ports

import (
	"context"

	"biosense/domain/biometrics"
	"biosense/domain/core"
)

// BiometricProvider abstracts the external wearable API. The concrete HTTP
// clients live outside this repository; the engine only ever sees the fetch
// contract.
type BiometricProvider interface {
	// Fetch returns the latest snapshot for the account behind the token
	Fetch(ctx context.Context, token string) (biometrics.Snapshot, error)
}

// SnapshotHistory stores per-user daily snapshots so trend analysis and
// late event resolution can replay them.
type SnapshotHistory interface {
	// PutSnapshot records a snapshot for a user's calendar day
	PutSnapshot(ctx context.Context, userID core.UserID, snapshot biometrics.Snapshot) error

	// GetSnapshots returns a user's snapshots ordered by date ascending
	GetSnapshots(ctx context.Context, userID core.UserID) ([]biometrics.Snapshot, error)

	// GetSnapshotOn returns the snapshot for one day, or core.ErrSnapshotNotFound
	GetSnapshotOn(ctx context.Context, userID core.UserID, day core.Day) (biometrics.Snapshot, error)
}
