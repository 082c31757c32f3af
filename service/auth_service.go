package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pardee-foods/clockin/core"
	"github.com/pardee-foods/clockin/ports"
	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooShort is returned when a new password fails the length check
var ErrPasswordTooShort = errors.New("password must be at least 6 characters")

const minPasswordLength = 6

// AuthService handles password login, session tokens and the authorization
// gate every protected operation passes through.
type AuthService struct {
	users     ports.UserStore
	tokenizer ports.Tokenizer
	eventPub  ports.EventPublisher

	tokenTTL time.Duration
}

// NewAuthService creates a new authentication service. A zero tokenTTL falls
// back to the default of two hours.
func NewAuthService(
	users ports.UserStore,
	tokenizer ports.Tokenizer,
	eventPub ports.EventPublisher,
	tokenTTL time.Duration,
) *AuthService {
	if tokenTTL == 0 {
		tokenTTL = 2 * time.Hour
	}
	return &AuthService{
		users:     users,
		tokenizer: tokenizer,
		eventPub:  eventPub,
		tokenTTL:  tokenTTL,
	}
}

// Login authenticates a user by email and password and issues a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *core.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Same failure as a wrong password, to avoid user enumeration
		return "", nil, core.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", nil, core.ErrInvalidCredentials
	}

	if user.Status != core.StatusActive {
		return "", nil, core.ErrUserInactive
	}

	token, err := s.tokenizer.Issue(user.ID, user.Role, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.eventPub.PublishLogin(ctx, user.ID, "password"); err != nil {
		// The login already succeeded; losing the event is not fatal
		log.Printf("warning: failed to publish login event: %v", err)
	}

	return token, user, nil
}

// Authenticate resolves the Authorization header to an active user.
// Every protected operation runs this before anything else.
func (s *AuthService) Authenticate(ctx context.Context, authHeader string) (*core.User, error) {
	if authHeader == "" {
		return nil, core.ErrMissingCredentials
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, core.ErrMalformedHeader
	}

	claims, err := s.tokenizer.Verify(parts[1])
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, core.ErrUnknownUser
	}

	if user.Status != core.StatusActive {
		return nil, core.ErrUserInactive
	}

	return user, nil
}

// Authorize checks the user's role against the allowed set
func (s *AuthService) Authorize(user *core.User, allowed ...core.Role) error {
	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}
	return core.ErrForbidden
}

// CreateUser creates a new account with a freshly hashed password
func (s *AuthService) CreateUser(ctx context.Context, name, email, password string, role core.Role, department string, status core.Status) (*core.User, error) {
	if !core.ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	if status != core.StatusActive && status != core.StatusInactive {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &core.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Role:         role,
		Department:   department,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BootstrapAdmin creates the first admin without authentication. The
// zero-admin check and the insert are atomic in the store, so of two
// concurrent calls exactly one can take the bootstrap path; the loser gets
// core.ErrAdminExists and must go through the authenticated path.
func (s *AuthService) BootstrapAdmin(ctx context.Context, name, email, password string) (*core.User, error) {
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &core.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Role:         core.RoleAdmin,
		Department:   "Management",
		Status:       core.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateAdminIfNone(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// HasAdmin reports whether any admin exists, which decides whether the
// bootstrap path is still open.
func (s *AuthService) HasAdmin(ctx context.Context) (bool, error) {
	return s.users.HasAdmin(ctx)
}

// ChangePassword replaces the user's password after verifying the old one
func (s *AuthService) ChangePassword(ctx context.Context, user *core.User, oldPassword, newPassword string) error {
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(oldPassword)); err != nil {
		return core.ErrInvalidCredentials
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// ListUsers returns every account, all roles included
func (s *AuthService) ListUsers(ctx context.Context) ([]*core.User, error) {
	var users []*core.User
	for _, role := range []core.Role{core.RoleEmployee, core.RoleAdmin, core.RoleHR} {
		batch, err := s.users.ListByRole(ctx, role)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		users = append(users, batch...)
	}
	return users, nil
}

// GetUser resolves a user by ID
func (s *AuthService) GetUser(ctx context.Context, id string) (*core.User, error) {
	return s.users.GetByID(ctx, id)
}

// CountActiveUsers returns the number of active accounts
func (s *AuthService) CountActiveUsers(ctx context.Context) (int, error) {
	return s.users.CountActive(ctx)
}
