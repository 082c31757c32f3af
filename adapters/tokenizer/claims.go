package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims combines standard claims with the role carried by every
// session token
type SessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}
