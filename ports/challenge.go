package ports

import (
	"context"
	"time"
)

// ChallengeStore holds the server-side state of one pending WebAuthn ceremony
// per (user, ceremony kind) key. Entries are single-use: Consume removes the
// entry as part of the same operation that reads it.
type ChallengeStore interface {
	// Save stores ceremony state under key with a TTL, overwriting any prior
	// pending entry for the same key.
	Save(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Consume retrieves and deletes the entry atomically. A second call for
	// the same key returns core.ErrChallengeNotFound, as does a call after the
	// TTL has elapsed.
	Consume(ctx context.Context, key string) ([]byte, error)
}
