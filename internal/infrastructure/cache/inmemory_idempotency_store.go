package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ngocrm/backend/internal/domain/shared"
)

// InMemoryIdempotencyStore implements IdempotencyStore in process memory.
// It serves single-instance deployments and tests; use the Redis store when
// running more than one instance.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewInMemoryIdempotencyStore creates a new in-memory idempotency store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		entries: make(map[string]time.Time),
	}
}

// MarkProcessed marks a key as processed with a TTL.
// Returns true if the key was newly marked, false if a live entry exists.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if expiry, ok := s.entries[key]; ok && expiry.After(now) {
		return false, nil
	}
	s.entries[key] = now.Add(ttl)

	// Opportunistically drop expired entries to bound memory.
	for k, expiry := range s.entries {
		if expiry.Before(now) {
			delete(s.entries, k)
		}
	}
	return true, nil
}

// IsProcessed checks if a key has a live entry
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.entries[key]
	return ok && expiry.After(time.Now()), nil
}

// Release removes a claimed key
func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Close releases the store's entries
func (s *InMemoryIdempotencyStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]time.Time)
	return nil
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
