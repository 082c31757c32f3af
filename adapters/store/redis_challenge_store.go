package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pardee-foods/clockin/core"
	"github.com/pardee-foods/clockin/ports"
	"github.com/redis/go-redis/v9"
)

// RedisChallengeStore is a Redis implementation of the ChallengeStore
// interface for multi-instance deployments.
type RedisChallengeStore struct {
	client *redis.Client
	prefix string
}

// NewRedisChallengeStore creates a new Redis challenge store
func NewRedisChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{
		client: client,
		prefix: "clockin:challenge:",
	}
}

// Save stores ceremony state with expiration, overwriting any prior entry
func (s *RedisChallengeStore) Save(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save challenge: %w", err)
	}
	return nil
}

// Consume retrieves and deletes the entry atomically. GETDEL is a single
// Redis command, so a replayed finish request always observes the deletion.
func (s *RedisChallengeStore) Consume(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.GetDel(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to consume challenge: %w", err)
	}
	return data, nil
}

var _ ports.ChallengeStore = (*RedisChallengeStore)(nil)
