package state

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MemoryStore keeps conversation state in process memory. This is the
// default backend: state survives exactly as long as the run does.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// Compile-time interface guard.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, user, state string, data map[string]any, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[user]
	if !ok {
		entry = Entry{User: user, Data: make(map[string]any)}
	}
	entry.State = state
	entry.ExpiresAt = time.Now().Add(ttl)
	maps.Copy(entry.Data, data)
	s.entries[user] = entry
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, user string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[user]
	if !ok {
		return Entry{}, false, nil
	}
	// Copy the data map so callers cannot mutate the stored entry.
	cp := entry
	cp.Data = maps.Clone(entry.Data)
	return cp, true, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, user)
	return nil
}

// Sweep implements Store.
func (s *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for user, entry := range s.entries {
		if now.After(entry.ExpiresAt) {
			delete(s.entries, user)
			removed++
		}
	}
	return removed, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
