package store

import (
	"context"
	"sync"
	"time"

	"github.com/pardee-foods/clockin/core"
	"github.com/pardee-foods/clockin/ports"
)

// MemoryChallengeStore is an in-memory implementation of the ChallengeStore
// interface, primarily intended for testing and single-instance deployments.
type MemoryChallengeStore struct {
	entries map[string]challengeEntry
	mu      sync.Mutex
}

type challengeEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryChallengeStore creates a new in-memory challenge store
func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{
		entries: make(map[string]challengeEntry),
	}
}

// Save stores ceremony state, overwriting any prior pending entry for the key
func (s *MemoryChallengeStore) Save(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := make([]byte, len(data))
	copy(d, data)
	s.entries[key] = challengeEntry{
		data:      d,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Consume retrieves and deletes the entry as one operation under the lock, so
// two concurrent finish calls can never both succeed with the same challenge.
func (s *MemoryChallengeStore) Consume(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, core.ErrChallengeNotFound
	}
	delete(s.entries, key)

	if time.Now().After(entry.expiresAt) {
		return nil, core.ErrChallengeNotFound
	}
	return entry.data, nil
}

var _ ports.ChallengeStore = (*MemoryChallengeStore)(nil)
