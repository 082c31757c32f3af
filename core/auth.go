package core

import "time"

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleEmployee, RoleAdmin, RoleHR:
		return true
	}
	return false
}

// Status gates whether a user may authenticate.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// User represents an account in the attendance system
type User struct {
	ID           string    // UUID string
	Name         string    // Display name
	Email        string    // Unique login identifier, lowercase
	PasswordHash []byte    // bcrypt hash, opaque to everything but the auth service
	Role         Role      // One of employee/admin/hr
	Department   string    // Free-form department label
	Status       Status    // Active users only may authenticate
	CreatedAt    time.Time // When the account was created
	UpdatedAt    time.Time // Last modification time
}

// TokenClaims is the verified content of a session token
type TokenClaims struct {
	Subject   string    // User ID the token was issued to
	Role      Role      // Role embedded at issue time
	IssuedAt  time.Time // When the token was issued
	ExpiresAt time.Time // When the token expires
}
