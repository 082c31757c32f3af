package tokenizer

import (
	"testing"
	"time"

	"github.com/pardee-foods/clockin/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTTokenizer_EmptySecret(t *testing.T) {
	_, err := NewJWTTokenizer(nil)
	require.Error(t, err)
}

func TestJWTTokenizer_RoundTrip(t *testing.T) {
	tk, err := NewJWTTokenizer([]byte("test-secret"))
	require.NoError(t, err)

	token, err := tk.Issue("user-123", core.RoleHR, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tk.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, core.RoleHR, claims.Role)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt, 5*time.Second)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestJWTTokenizer_Expired(t *testing.T) {
	tk, err := NewJWTTokenizer([]byte("test-secret"))
	require.NoError(t, err)

	token, err := tk.Issue("user-123", core.RoleEmployee, -time.Minute)
	require.NoError(t, err)

	_, err = tk.Verify(token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestJWTTokenizer_WrongSecret(t *testing.T) {
	issuer, err := NewJWTTokenizer([]byte("secret-a"))
	require.NoError(t, err)
	verifier, err := NewJWTTokenizer([]byte("secret-b"))
	require.NoError(t, err)

	token, err := issuer.Issue("user-123", core.RoleEmployee, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWTTokenizer_Malformed(t *testing.T) {
	tk, err := NewJWTTokenizer([]byte("test-secret"))
	require.NoError(t, err)

	for _, token := range []string{
		"",
		"not-a-jwt",
		"a.b.c",
		"eyJhbGciOiJub25lIn0.eyJzdWIiOiJ1c2VyLTEyMyJ9.",
	} {
		_, err := tk.Verify(token)
		assert.ErrorIs(t, err, core.ErrTokenInvalid, "token %q", token)
	}
}

func TestJWTTokenizer_UnknownRoleRejected(t *testing.T) {
	tk, err := NewJWTTokenizer([]byte("test-secret"))
	require.NoError(t, err)

	token, err := tk.Issue("user-123", core.Role("superuser"), time.Hour)
	require.NoError(t, err)

	_, err = tk.Verify(token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}
