package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pardee-foods/clockin/core"
	"github.com/pardee-foods/clockin/ports"
)

// MemoryUserStore is an in-memory implementation of the UserStore interface
type MemoryUserStore struct {
	byID    map[string]*core.User
	byEmail map[string]*core.User
	mu      sync.RWMutex
}

// NewMemoryUserStore creates a new in-memory user store
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]*core.User),
		byEmail: make(map[string]*core.User),
	}
}

// Create persists a new user
func (s *MemoryUserStore) Create(ctx context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := s.byEmail[email]; exists {
		return core.ErrEmailTaken
	}

	u := *user
	u.Email = email
	s.byID[u.ID] = &u
	s.byEmail[email] = &u
	return nil
}

// CreateAdminIfNone persists a new admin only when no admin exists yet.
// The existence check and the insert happen under one lock so two concurrent
// bootstrap calls cannot both succeed.
func (s *MemoryUserStore) CreateAdminIfNone(ctx context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byID {
		if u.Role == core.RoleAdmin {
			return core.ErrAdminExists
		}
	}

	email := strings.ToLower(user.Email)
	if _, exists := s.byEmail[email]; exists {
		return core.ErrEmailTaken
	}

	u := *user
	u.Email = email
	u.Role = core.RoleAdmin
	s.byID[u.ID] = &u
	s.byEmail[email] = &u
	return nil
}

// GetByID retrieves a user by ID
func (s *MemoryUserStore) GetByID(ctx context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

// GetByEmail retrieves a user by email
func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

// Update persists changes to an existing user
func (s *MemoryUserStore) Update(ctx context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[user.ID]
	if !ok {
		return core.ErrUserNotFound
	}

	u := *user
	u.Email = strings.ToLower(u.Email)
	u.UpdatedAt = time.Now()
	if existing.Email != u.Email {
		if _, taken := s.byEmail[u.Email]; taken {
			return core.ErrEmailTaken
		}
		delete(s.byEmail, existing.Email)
	}
	s.byID[u.ID] = &u
	s.byEmail[u.Email] = &u
	return nil
}

// ListByRole returns all users holding the given role
func (s *MemoryUserStore) ListByRole(ctx context.Context, role core.Role) ([]*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []*core.User
	for _, user := range s.byID {
		if user.Role == role {
			u := *user
			users = append(users, &u)
		}
	}
	return users, nil
}

// CountActive returns the number of active users
func (s *MemoryUserStore) CountActive(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, user := range s.byID {
		if user.Status == core.StatusActive {
			count++
		}
	}
	return count, nil
}

// HasAdmin reports whether at least one admin user exists
func (s *MemoryUserStore) HasAdmin(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.byID {
		if user.Role == core.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

var _ ports.UserStore = (*MemoryUserStore)(nil)
