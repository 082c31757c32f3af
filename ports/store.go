package ports

import (
	"context"

	"github.com/pardee-foods/clockin/core"
)

// UserStore is the persistence interface for user accounts.
type UserStore interface {
	// Create persists a new user. Returns core.ErrEmailTaken if the email is
	// already registered.
	Create(ctx context.Context, user *core.User) error

	// CreateAdminIfNone persists a new admin user only if no admin exists yet.
	// The existence check and the insert are a single atomic operation so two
	// concurrent bootstrap calls cannot both succeed. Returns
	// core.ErrAdminExists once any admin is present.
	CreateAdminIfNone(ctx context.Context, user *core.User) error

	// GetByID retrieves a user by ID. Returns core.ErrUserNotFound if absent.
	GetByID(ctx context.Context, id string) (*core.User, error)

	// GetByEmail retrieves a user by lowercase email.
	GetByEmail(ctx context.Context, email string) (*core.User, error)

	// Update persists changes to an existing user.
	Update(ctx context.Context, user *core.User) error

	// ListByRole returns all users holding the given role.
	ListByRole(ctx context.Context, role core.Role) ([]*core.User, error)

	// CountActive returns the number of active users.
	CountActive(ctx context.Context) (int, error)

	// HasAdmin reports whether at least one admin user exists.
	HasAdmin(ctx context.Context) (bool, error)
}

// CredentialStore is the persistence interface for WebAuthn credentials.
type CredentialStore interface {
	// Save persists a newly registered credential.
	Save(ctx context.Context, cred *core.Credential) error

	// GetByUserID returns all credentials owned by the user. An empty slice
	// means the user has none.
	GetByUserID(ctx context.Context, userID string) ([]*core.Credential, error)

	// GetByCredentialID retrieves a credential by its identifier scoped to the
	// owning user. The user scoping is what prevents one user's credential
	// from authenticating another. Returns core.ErrCredentialNotFound if no
	// (credID, userID) pair matches.
	GetByCredentialID(ctx context.Context, credID []byte, userID string) (*core.Credential, error)

	// UpdateSignCount advances the stored signature counter. The read-compare-
	// write is serialized per credential: if newCount is not strictly greater
	// than the stored counter (0 to 0 excepted), the update fails with
	// core.ErrClonedAuthenticator and the stored counter is left unchanged.
	UpdateSignCount(ctx context.Context, credID []byte, userID string, newCount uint32) error

	// DeleteByUserID removes all credentials owned by the user.
	DeleteByUserID(ctx context.Context, userID string) error
}

// AttendanceStore is the persistence interface for attendance records.
type AttendanceStore interface {
	// RecordClockIn persists a new record. Returns core.ErrAlreadyClockedIn if
	// a record for (user, date) already exists.
	RecordClockIn(ctx context.Context, rec *core.AttendanceRecord) error

	// GetForDay returns the record for (user, date), or core.ErrNotClockedIn.
	GetForDay(ctx context.Context, userID string, date string) (*core.AttendanceRecord, error)

	// Update persists changes to an existing record.
	Update(ctx context.Context, rec *core.AttendanceRecord) error

	// Query returns records matching the filter, newest first.
	Query(ctx context.Context, filter core.AttendanceFilter) ([]*core.AttendanceRecord, error)
}
