// Package state stores per-user conversation state: the named step a user is
// at in a multi-message flow plus arbitrary data carried between handlers.
// Entries expire after a TTL; a periodic sweep removes stale ones.
package state

import (
	"context"
	"time"
)

// Entry is one user's conversation state.
type Entry struct {
	User      string
	State     string
	Data      map[string]any
	ExpiresAt time.Time
}

// Store is the conversation-state backend. Implementations must be safe for
// concurrent use: handlers read and write state from worker goroutines.
type Store interface {
	// Set stores or replaces the user's state, resetting the TTL.
	// Existing data keys not present in data are preserved.
	Set(ctx context.Context, user, state string, data map[string]any, ttl time.Duration) error

	// Get returns the user's entry, or false if none is stored.
	Get(ctx context.Context, user string) (Entry, bool, error)

	// Delete removes the user's entry.
	Delete(ctx context.Context, user string) error

	// Sweep removes entries that expired before now and returns how many
	// were removed.
	Sweep(ctx context.Context, now time.Time) (int, error)

	// Close releases backend resources.
	Close() error
}

// StateOf returns a read-only lookup usable with filter.State. Backend
// errors and missing entries both read as the empty state.
func StateOf(s Store) func(user string) string {
	return func(user string) string {
		entry, ok, err := s.Get(context.Background(), user)
		if err != nil || !ok {
			return ""
		}
		return entry.State
	}
}
