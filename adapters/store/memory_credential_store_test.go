package store

import (
	"context"
	"testing"

	"github.com/pardee-foods/clockin/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCredential(id byte, userID string, signCount uint32) *core.Credential {
	return &core.Credential{
		ID:              []byte{id, 0x01, 0x02},
		UserID:          userID,
		PublicKey:       []byte("public-key"),
		AttestationType: "none",
		SignCount:       signCount,
	}
}

func TestMemoryCredentialStore_SaveAndLookup(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCredentialStore()

	cred := newTestCredential(0xaa, "u1", 0)
	require.NoError(t, s.Save(ctx, cred))

	got, err := s.GetByCredentialID(ctx, cred.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, cred.ID, got.ID)
	assert.Equal(t, "u1", got.UserID)

	all, err := s.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryCredentialStore_LookupScopedToUser(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCredentialStore()

	cred := newTestCredential(0xaa, "u1", 0)
	require.NoError(t, s.Save(ctx, cred))

	// The same credential id does not resolve for a different user
	_, err := s.GetByCredentialID(ctx, cred.ID, "u2")
	assert.ErrorIs(t, err, core.ErrCredentialNotFound)
}

func TestMemoryCredentialStore_UpdateSignCount(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		stored  uint32
		new     uint32
		wantErr error
	}{
		{name: "increasing", stored: 5, new: 6, wantErr: nil},
		{name: "large jump", stored: 5, new: 500, wantErr: nil},
		{name: "both zero", stored: 0, new: 0, wantErr: nil},
		{name: "equal nonzero", stored: 5, new: 5, wantErr: core.ErrClonedAuthenticator},
		{name: "regression", stored: 5, new: 4, wantErr: core.ErrClonedAuthenticator},
		{name: "regression to zero", stored: 5, new: 0, wantErr: core.ErrClonedAuthenticator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemoryCredentialStore()
			cred := newTestCredential(0xaa, "u1", tt.stored)
			require.NoError(t, s.Save(ctx, cred))

			err := s.UpdateSignCount(ctx, cred.ID, "u1", tt.new)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				// A rejected update must leave the stored counter unchanged
				got, getErr := s.GetByCredentialID(ctx, cred.ID, "u1")
				require.NoError(t, getErr)
				assert.Equal(t, tt.stored, got.SignCount)
				return
			}

			require.NoError(t, err)
			got, getErr := s.GetByCredentialID(ctx, cred.ID, "u1")
			require.NoError(t, getErr)
			assert.Equal(t, tt.new, got.SignCount)
		})
	}
}

func TestMemoryCredentialStore_UpdateSignCountUnknownCredential(t *testing.T) {
	s := NewMemoryCredentialStore()

	err := s.UpdateSignCount(context.Background(), []byte{0x01}, "u1", 1)
	assert.ErrorIs(t, err, core.ErrCredentialNotFound)
}

func TestMemoryCredentialStore_DeleteByUserID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCredentialStore()

	require.NoError(t, s.Save(ctx, newTestCredential(0xaa, "u1", 0)))
	require.NoError(t, s.Save(ctx, newTestCredential(0xbb, "u1", 0)))
	require.NoError(t, s.Save(ctx, newTestCredential(0xcc, "u2", 0)))

	require.NoError(t, s.DeleteByUserID(ctx, "u1"))

	remaining, err := s.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	others, err := s.GetByUserID(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, others, 1)
}
