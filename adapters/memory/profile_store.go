package memory

import (
	"context"
	"sync"

	"biosense/domain/causality"
	"biosense/domain/core"
)

// ProfileStore is the in-process ports.ProfileStore
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[core.UserID]causality.Profile
}

// NewProfileStore creates an empty in-memory profile store
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[core.UserID]causality.Profile)}
}

// SaveProfile replaces the stored profile for the profile's user
func (s *ProfileStore) SaveProfile(ctx context.Context, profile causality.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	return nil
}

// GetProfile returns the latest stored profile
func (s *ProfileStore) GetProfile(ctx context.Context, userID core.UserID) (causality.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return causality.Profile{}, core.ErrProfileNotFound
	}
	return profile, nil
}
