package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pardee-foods/clockin/adapters/store"
	"github.com/pardee-foods/clockin/adapters/tokenizer"
	"github.com/pardee-foods/clockin/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPublisher records published events for assertions
type stubPublisher struct {
	mu       sync.Mutex
	logins   []string
	security []string
}

func (p *stubPublisher) PublishLogin(ctx context.Context, userID, method string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logins = append(p.logins, userID+":"+method)
	return nil
}

func (p *stubPublisher) PublishSecurityEvent(ctx context.Context, userID, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.security = append(p.security, userID+":"+reason)
	return nil
}

func (p *stubPublisher) loginEvents() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.logins...)
}

func (p *stubPublisher) securityEvents() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.security...)
}

func newTestAuthService(t *testing.T) (*AuthService, *stubPublisher) {
	t.Helper()

	tk, err := tokenizer.NewJWTTokenizer([]byte("test-secret"))
	require.NoError(t, err)

	pub := &stubPublisher{}
	return NewAuthService(store.NewMemoryUserStore(), tk, pub, time.Hour), pub
}

func mustCreateUser(t *testing.T, svc *AuthService, email string, role core.Role, status core.Status) *core.User {
	t.Helper()

	user, err := svc.CreateUser(context.Background(), "Test User", email, "password123", role, "Kitchen", status)
	require.NoError(t, err)
	return user
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestAuthService(t)
	user := mustCreateUser(t, svc, "alice@example.com", core.RoleEmployee, core.StatusActive)

	token, loggedIn, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Equal(t, []string{user.ID + ":password"}, pub.loginEvents())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)
	mustCreateUser(t, svc, "alice@example.com", core.RoleEmployee, core.StatusActive)

	// An unknown email and a wrong password are indistinguishable
	_, _, err := svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)
	mustCreateUser(t, svc, "alice@example.com", core.RoleEmployee, core.StatusInactive)

	_, _, err := svc.Login(ctx, "alice@example.com", "password123")
	assert.ErrorIs(t, err, core.ErrUserInactive)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)
	user := mustCreateUser(t, svc, "alice@example.com", core.RoleEmployee, core.StatusActive)

	token, _, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// The scheme comparison is case-insensitive
	got, err = svc.Authenticate(ctx, "bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestAuthenticate_HeaderErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)
	mustCreateUser(t, svc, "alice@example.com", core.RoleEmployee, core.StatusActive)

	token, _, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{name: "missing", header: "", wantErr: core.ErrMissingCredentials},
		{name: "scheme only", header: "Bearer", wantErr: core.ErrMalformedHeader},
		{name: "too many parts", header: "Bearer " + token + " extra", wantErr: core.ErrMalformedHeader},
		{name: "wrong scheme", header: "Token " + token, wantErr: core.ErrMalformedHeader},
		{name: "garbage token", header: "Bearer not-a-jwt", wantErr: core.ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tt.header)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	ctx := context.Background()

	tk, err := tokenizer.NewJWTTokenizer([]byte("test-secret"))
	require.NoError(t, err)
	svc := NewAuthService(store.NewMemoryUserStore(), tk, &stubPublisher{}, time.Hour)

	token, err := tk.Issue("user-123", core.RoleEmployee, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "Bearer "+token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestAuthenticate_UnknownSubject(t *testing.T) {
	ctx := context.Background()

	tk, err := tokenizer.NewJWTTokenizer([]byte("test-secret"))
	require.NoError(t, err)
	svc := NewAuthService(store.NewMemoryUserStore(), tk, &stubPublisher{}, time.Hour)

	// A valid token whose subject no longer exists
	token, err := tk.Issue("deleted-user", core.RoleEmployee, time.Hour)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "Bearer "+token)
	assert.ErrorIs(t, err, core.ErrUnknownUser)
}

func TestAuthenticate_DeactivatedAfterIssue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)
	user := mustCreateUser(t, svc, "alice@example.com", core.RoleEmployee, core.StatusActive)

	token, _, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	// Deactivation takes effect on the next request even with a live token
	user.Status = core.StatusInactive
	require.NoError(t, svc.users.Update(ctx, user))

	_, err = svc.Authenticate(ctx, "Bearer "+token)
	assert.ErrorIs(t, err, core.ErrUserInactive)
}

func TestAuthorize(t *testing.T) {
	svc, _ := newTestAuthService(t)

	employee := &core.User{Role: core.RoleEmployee}
	admin := &core.User{Role: core.RoleAdmin}
	hr := &core.User{Role: core.RoleHR}

	assert.NoError(t, svc.Authorize(admin, core.RoleAdmin))
	assert.NoError(t, svc.Authorize(hr, core.RoleAdmin, core.RoleHR))
	assert.NoError(t, svc.Authorize(employee, core.RoleEmployee, core.RoleAdmin, core.RoleHR))

	assert.ErrorIs(t, svc.Authorize(employee, core.RoleAdmin), core.ErrForbidden)
	assert.ErrorIs(t, svc.Authorize(employee, core.RoleAdmin, core.RoleHR), core.ErrForbidden)
	assert.ErrorIs(t, svc.Authorize(hr, core.RoleAdmin), core.ErrForbidden)
}

func TestCreateUser_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	_, err := svc.CreateUser(ctx, "X", "x@example.com", "short", core.RoleEmployee, "", core.StatusActive)
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.CreateUser(ctx, "X", "x@example.com", "password123", core.Role("superuser"), "", core.StatusActive)
	assert.Error(t, err)

	_, err = svc.CreateUser(ctx, "X", "x@example.com", "password123", core.RoleEmployee, "", core.Status("Retired"))
	assert.Error(t, err)
}

func TestBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	hasAdmin, err := svc.HasAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, hasAdmin)

	admin, err := svc.BootstrapAdmin(ctx, "First Admin", "admin@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, core.RoleAdmin, admin.Role)
	assert.Equal(t, core.StatusActive, admin.Status)

	_, err = svc.BootstrapAdmin(ctx, "Second Admin", "admin2@example.com", "password123")
	assert.ErrorIs(t, err, core.ErrAdminExists)
}

func TestBootstrapAdmin_Concurrent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.BootstrapAdmin(ctx, "Admin", string(rune('a'+i))+"@example.com", "password123")
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, core.ErrAdminExists)
		}
	}
	assert.Equal(t, 1, successes)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)
	user := mustCreateUser(t, svc, "alice@example.com", core.RoleEmployee, core.StatusActive)

	err := svc.ChangePassword(ctx, user, "wrong-password", "newpassword")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, user, "password123", "tiny")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	require.NoError(t, svc.ChangePassword(ctx, user, "password123", "newpassword"))

	_, _, err = svc.Login(ctx, "alice@example.com", "password123")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "alice@example.com", "newpassword")
	assert.NoError(t, err)
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	mustCreateUser(t, svc, "e1@example.com", core.RoleEmployee, core.StatusActive)
	mustCreateUser(t, svc, "e2@example.com", core.RoleEmployee, core.StatusInactive)
	mustCreateUser(t, svc, "hr@example.com", core.RoleHR, core.StatusActive)
	mustCreateUser(t, svc, "admin@example.com", core.RoleAdmin, core.StatusActive)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 4)

	count, err := svc.CountActiveUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
