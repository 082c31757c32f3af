package ports

import (
	"time"

	"github.com/pardee-foods/clockin/core"
)

// Tokenizer issues and verifies signed session tokens.
type Tokenizer interface {
	// Issue produces a signed token embedding the user ID and role, valid for
	// ttl from now.
	Issue(userID string, role core.Role, ttl time.Duration) (string, error)

	// Verify checks signature and expiry and returns the embedded claims.
	// Fails with core.ErrTokenExpired past expiry and core.ErrTokenInvalid for
	// anything malformed; it never panics on arbitrary input.
	Verify(token string) (*core.TokenClaims, error)
}
