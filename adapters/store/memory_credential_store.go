package store

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"github.com/pardee-foods/clockin/core"
	"github.com/pardee-foods/clockin/ports"
)

// MemoryCredentialStore is an in-memory implementation of the CredentialStore
// interface. Credentials are keyed by (credential id, user id) so an
// assertion can never resolve another user's credential.
type MemoryCredentialStore struct {
	byKey    map[string]*core.Credential
	byUserID map[string][]string
	mu       sync.RWMutex
}

// NewMemoryCredentialStore creates a new in-memory credential store
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		byKey:    make(map[string]*core.Credential),
		byUserID: make(map[string][]string),
	}
}

func credKey(credID []byte, userID string) string {
	return hex.EncodeToString(credID) + ":" + userID
}

// Save persists a newly registered credential
func (s *MemoryCredentialStore) Save(ctx context.Context, cred *core.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := credKey(cred.ID, cred.UserID)
	if _, exists := s.byKey[key]; exists {
		return core.ErrStoreOperationFailed
	}

	c := *cred
	s.byKey[key] = &c
	s.byUserID[cred.UserID] = append(s.byUserID[cred.UserID], key)
	return nil
}

// GetByUserID returns all credentials owned by the user
func (s *MemoryCredentialStore) GetByUserID(ctx context.Context, userID string) ([]*core.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.byUserID[userID]
	creds := make([]*core.Credential, 0, len(keys))
	for _, key := range keys {
		c := *s.byKey[key]
		creds = append(creds, &c)
	}
	return creds, nil
}

// GetByCredentialID retrieves a credential scoped to the owning user
func (s *MemoryCredentialStore) GetByCredentialID(ctx context.Context, credID []byte, userID string) (*core.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.byKey[credKey(credID, userID)]
	if !ok {
		return nil, core.ErrCredentialNotFound
	}
	c := *cred
	return &c, nil
}

// UpdateSignCount advances the stored signature counter. The read, the
// monotonicity check and the write happen under one lock so two concurrent
// assertions replaying the same counter cannot both pass against a stale
// read.
func (s *MemoryCredentialStore) UpdateSignCount(ctx context.Context, credID []byte, userID string, newCount uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.byKey[credKey(credID, userID)]
	if !ok {
		return core.ErrCredentialNotFound
	}

	// Many authenticators always report 0; 0 to 0 is acceptable. Anything
	// else non-increasing indicates a cloned authenticator.
	if !(cred.SignCount == 0 && newCount == 0) && newCount <= cred.SignCount {
		return core.ErrClonedAuthenticator
	}

	cred.SignCount = newCount
	cred.LastUsedAt = time.Now()
	return nil
}

// DeleteByUserID removes all credentials owned by the user
func (s *MemoryCredentialStore) DeleteByUserID(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range s.byUserID[userID] {
		delete(s.byKey, key)
	}
	delete(s.byUserID, userID)
	return nil
}

var _ ports.CredentialStore = (*MemoryCredentialStore)(nil)
