package app

import (
	"context"

	"biosense/domain/causality"
	"biosense/domain/core"
	"biosense/internal"
	"biosense/ports"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ProfileCache is the materialized view of the latest profile per user.
// The only legal write path is Replace with a profile recomputed from the
// full resolved-event set; reads never recompute, so a consumer can never
// observe a partially-updated profile. A miss falls through to the profile
// store, and store unavailability degrades to the empty (non-personalized)
// profile instead of failing the surrounding request.
type ProfileCache struct {
	cache *lru.Cache[core.UserID, causality.Profile]
	store ports.ProfileStore
	log   *internal.Logger
}

// NewProfileCache creates a cache holding up to size users
func NewProfileCache(size int, store ports.ProfileStore, log *internal.Logger) (*ProfileCache, error) {
	cache, err := lru.New[core.UserID, causality.Profile](size)
	if err != nil {
		return nil, err
	}
	return &ProfileCache{cache: cache, store: store, log: log}, nil
}

// Get returns the user's latest profile. Never fails: consumers fall back
// to default population constants when no personalized profile exists.
func (c *ProfileCache) Get(ctx context.Context, userID core.UserID) causality.Profile {
	if profile, ok := c.cache.Get(userID); ok {
		return profile
	}

	profile, err := c.store.GetProfile(ctx, userID)
	if err != nil {
		if !core.IsNotFoundError(err) {
			c.log.Warn("profile store unavailable for user %s, serving non-personalized fallback: %v", userID, err)
		}
		return causality.EmptyProfile(userID)
	}

	c.cache.Add(userID, profile)
	return profile
}

// Replace atomically installs a freshly recomputed profile for its user,
// writing through to the profile store.
func (c *ProfileCache) Replace(ctx context.Context, profile causality.Profile) error {
	if err := c.store.SaveProfile(ctx, profile); err != nil {
		return err
	}
	c.cache.Add(profile.UserID, profile)
	return nil
}

// Invalidate drops the cached entry, forcing the next read through to the
// store. Used when another process owns the rebuild.
func (c *ProfileCache) Invalidate(userID core.UserID) {
	c.cache.Remove(userID)
}
