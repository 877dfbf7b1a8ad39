package memory

import (
	"context"
	"sort"
	"sync"

	"biosense/domain/biometrics"
	"biosense/domain/core"
)

// SnapshotHistory is the in-process ports.SnapshotHistory. One snapshot per
// user per calendar day; a re-recorded day replaces the earlier snapshot.
type SnapshotHistory struct {
	mu     sync.RWMutex
	byUser map[core.UserID]map[string]biometrics.Snapshot
}

// NewSnapshotHistory creates an empty in-memory snapshot history
func NewSnapshotHistory() *SnapshotHistory {
	return &SnapshotHistory{byUser: make(map[core.UserID]map[string]biometrics.Snapshot)}
}

// PutSnapshot records a snapshot for a user's calendar day
func (s *SnapshotHistory) PutSnapshot(ctx context.Context, userID core.UserID, snapshot biometrics.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	days, ok := s.byUser[userID]
	if !ok {
		days = make(map[string]biometrics.Snapshot)
		s.byUser[userID] = days
	}
	days[snapshot.Date.String()] = snapshot
	return nil
}

// GetSnapshots returns a user's snapshots ordered by date ascending
func (s *SnapshotHistory) GetSnapshots(ctx context.Context, userID core.UserID) ([]biometrics.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]biometrics.Snapshot, 0, len(s.byUser[userID]))
	for _, snap := range s.byUser[userID] {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// GetSnapshotOn returns the snapshot for one day
func (s *SnapshotHistory) GetSnapshotOn(ctx context.Context, userID core.UserID, day core.Day) (biometrics.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.byUser[userID][day.String()]
	if !ok {
		return biometrics.Snapshot{}, core.ErrSnapshotNotFound
	}
	return snap, nil
}
