package app

import (
	"sync"

	"biosense/domain/core"
)

// UserLocks serializes event-log mutations per user key. Capture and
// resolution for the same user take the same lock; different users never
// contend. Locks are created on first use and kept for the process
// lifetime, which is bounded by the active-user population.
type UserLocks struct {
	mu    sync.Mutex
	locks map[core.UserID]*sync.Mutex
}

// NewUserLocks creates an empty lock table. One instance must be shared by
// every service that mutates the same event store.
func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[core.UserID]*sync.Mutex)}
}

// acquire locks the user's mutex and returns its release func
func (l *UserLocks) acquire(userID core.UserID) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
