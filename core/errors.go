package core

import (
	"errors"
)

// Authentication failures (401)
var (
	// ErrMissingCredentials is returned when no Authorization header is present
	ErrMissingCredentials = errors.New("authorization header required")

	// ErrMalformedHeader is returned when the Authorization header is not "Bearer <token>"
	ErrMalformedHeader = errors.New("malformed authorization header")

	// ErrTokenExpired is returned when a token has expired
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenInvalid is returned when a token signature or structure is wrong
	ErrTokenInvalid = errors.New("invalid token")

	// ErrUnknownUser is returned when a token subject no longer resolves to a user
	ErrUnknownUser = errors.New("unknown user")

	// ErrInvalidCredentials is returned on a failed password login
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authorization failures (403)
var (
	// ErrUserInactive is returned when the resolved user is not active
	ErrUserInactive = errors.New("user inactive")

	// ErrForbidden is returned when the user's role is not permitted
	ErrForbidden = errors.New("forbidden")
)

// Ceremony failures
var (
	// ErrChallengeNotFound is returned when no pending challenge exists for the
	// ceremony. Consume is single-use, so this also covers replayed finish
	// requests.
	ErrChallengeNotFound = errors.New("challenge missing or expired")

	// ErrCredentialNotFound is returned when no credential matches the
	// (credential id, user) pair presented in an assertion
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrNoCredentials is returned when a user has no registered credentials
	ErrNoCredentials = errors.New("user has no registered credentials")

	// ErrVerificationFailed is returned when attestation or assertion
	// verification fails. The specific check that failed is logged server-side
	// only.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrClonedAuthenticator is returned when an assertion reports a
	// non-increasing signature counter
	ErrClonedAuthenticator = errors.New("possible cloned authenticator detected")
)

// Store failures
var (
	// ErrUserNotFound is returned when a user lookup finds nothing
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when creating a user with an existing email
	ErrEmailTaken = errors.New("email already registered")

	// ErrAdminExists is returned by the bootstrap path once any admin exists
	ErrAdminExists = errors.New("an admin already exists")

	// ErrAlreadyClockedIn is returned when a user already has a record for the day
	ErrAlreadyClockedIn = errors.New("already clocked in today")

	// ErrNotClockedIn is returned when clocking out without a record for the day
	ErrNotClockedIn = errors.New("not clocked in today")

	// ErrAlreadyClockedOut is returned when a record already has a clock-out
	ErrAlreadyClockedOut = errors.New("already clocked out today")

	// ErrStoreOperationFailed is returned when a store operation fails
	ErrStoreOperationFailed = errors.New("store operation failed")
)
