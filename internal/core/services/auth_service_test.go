package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"crm-leads/internal/adapters/persistence/repositories"
	"crm-leads/internal/config"
	"crm-leads/internal/core/domain"
	"crm-leads/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			Issuer:      "crm-leads-test",
			ExpiryHours: 1,
		},
	}
}

type authFixture struct {
	svc      *AuthService
	accounts *repositories.MemoryAccountRepository
	denylist *repositories.MemoryTokenDenylist
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	accounts := repositories.NewMemoryAccountRepository()
	denylist := repositories.NewMemoryTokenDenylist(zap.NewNop())
	svc := NewAuthService(accounts, denylist, testConfig(), zap.NewNop(), WithHashCost(bcrypt.MinCost))
	return &authFixture{svc: svc, accounts: accounts, denylist: denylist}
}

func bob() *RegisterInput {
	return &RegisterInput{Username: "bob", Email: "bob@x.com", Password: "secret1"}
}

func TestAuth_ScenarioC(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	account, err := f.svc.Register(ctx, bob())
	require.NoError(t, err)
	assert.Equal(t, "bob", account.Username)
	assert.Equal(t, domain.RoleEmployee, account.Role)

	resp, err := f.svc.Login(ctx, &LoginInput{Email: "bob@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, account.ID, resp.User.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, 5*time.Second)

	identity, err := f.svc.Verify(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, identity.AccountID)
	assert.Equal(t, domain.RoleEmployee, identity.Role)
}

func TestRegister_StoresOnlyHash(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, bob())
	require.NoError(t, err)

	stored, err := f.accounts.GetByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestRegister_Conflicts(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, bob())
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, &RegisterInput{Username: "bob", Email: "other@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrAccountExists)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.svc.Register(ctx, &RegisterInput{Username: "bobby", Email: "BOB@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegister_Validation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	cases := map[string]*RegisterInput{
		"missing":        {Username: "bob"},
		"short password": {Username: "bob", Email: "bob@x.com", Password: "12345"},
		"long password":  {Username: "bob", Email: "bob@x.com", Password: strings.Repeat("a", 80)},
		"mismatch":       {Username: "bob", Email: "bob@x.com", Password: "secret1", ConfirmPassword: "secret2"},
		"short username": {Username: "bo", Email: "bob@x.com", Password: "secret1"},
		"long username":  {Username: "abcdefghijklmnopqrstuvwxyz12345", Email: "bob@x.com", Password: "secret1"},
		"bad email":      {Username: "bob", Email: "not-an-email", Password: "secret1"},
		"bad role":       {Username: "bob", Email: "bob@x.com", Password: "secret1", Role: "owner"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	exists, err := f.accounts.ExistsByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRegister_ExplicitRole(t *testing.T) {
	f := newAuthFixture(t)
	in := bob()
	in.Role = domain.RoleManager
	in.ConfirmPassword = "secret1"

	account, err := f.svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, account.Role)
}

func TestLogin_UniformRejection(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, bob())
	require.NoError(t, err)

	_, wrongPassword := f.svc.Login(ctx, &LoginInput{Email: "bob@x.com", Password: "nope123"})
	_, unknownEmail := f.svc.Login(ctx, &LoginInput{Email: "alice@x.com", Password: "secret1"})
	_, empty := f.svc.Login(ctx, &LoginInput{})

	for _, err := range []error{wrongPassword, unknownEmail, empty} {
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin_EmailIsCaseInsensitive(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, bob())
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, &LoginInput{Email: " Bob@X.com ", Password: "secret1"})
	assert.NoError(t, err)
}

func TestVerify_Rejections(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Verify(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	expired, _, err := jwt.GenerateAccessToken("acc-1", "employee", "test-secret", "crm-leads-test", -time.Minute)
	require.NoError(t, err)
	_, err = f.svc.Verify(ctx, expired)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	foreign, _, err := jwt.GenerateAccessToken("acc-1", "employee", "other-secret", "crm-leads-test", time.Hour)
	require.NoError(t, err)
	_, err = f.svc.Verify(ctx, foreign)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestCurrentUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	account, err := f.svc.Register(ctx, bob())
	require.NoError(t, err)
	resp, err := f.svc.Login(ctx, &LoginInput{Email: "bob@x.com", Password: "secret1"})
	require.NoError(t, err)

	me, err := f.svc.CurrentUser(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, me.ID)
	assert.Equal(t, "bob@x.com", me.Email)

	require.NoError(t, f.accounts.Delete(ctx, account.ID))
	_, err = f.svc.CurrentUser(ctx, resp.Token)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.CurrentUser(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogout_RevokesOnlyThatToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, bob())
	require.NoError(t, err)
	first, err := f.svc.Login(ctx, &LoginInput{Email: "bob@x.com", Password: "secret1"})
	require.NoError(t, err)
	second, err := f.svc.Login(ctx, &LoginInput{Email: "bob@x.com", Password: "secret1"})
	require.NoError(t, err)

	identity, err := f.svc.Verify(ctx, first.Token)
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx, identity))

	_, err = f.svc.Verify(ctx, first.Token)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	_, err = f.svc.Verify(ctx, second.Token)
	assert.NoError(t, err)
	assert.Equal(t, 1, f.denylist.Len())
}

func TestLogout_WithoutDenylistIsNoop(t *testing.T) {
	accounts := repositories.NewMemoryAccountRepository()
	svc := NewAuthService(accounts, nil, testConfig(), zap.NewNop(), WithHashCost(bcrypt.MinCost))
	ctx := context.Background()

	_, err := svc.Register(ctx, bob())
	require.NoError(t, err)
	resp, err := svc.Login(ctx, &LoginInput{Email: "bob@x.com", Password: "secret1"})
	require.NoError(t, err)

	identity, err := svc.Verify(ctx, resp.Token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, identity))

	_, err = svc.Verify(ctx, resp.Token)
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	account, err := f.svc.Register(ctx, bob())
	require.NoError(t, err)

	err = f.svc.ChangePassword(ctx, account.ID, &ChangePasswordInput{CurrentPassword: "wrong1", NewPassword: "secret2"})
	assert.ErrorIs(t, err, domain.ErrWrongPassword)
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = f.svc.ChangePassword(ctx, account.ID, &ChangePasswordInput{CurrentPassword: "secret1", NewPassword: "123"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = f.svc.ChangePassword(ctx, account.ID, &ChangePasswordInput{CurrentPassword: "secret1", NewPassword: strings.Repeat("a", 80)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = f.svc.ChangePassword(ctx, account.ID, &ChangePasswordInput{CurrentPassword: "secret1", NewPassword: "secret2", ConfirmPassword: "secret3"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = f.svc.ChangePassword(ctx, "missing", &ChangePasswordInput{CurrentPassword: "secret1", NewPassword: "secret2"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, f.svc.ChangePassword(ctx, account.ID, &ChangePasswordInput{
		CurrentPassword: "secret1", NewPassword: "secret2", ConfirmPassword: "secret2",
	}))

	_, err = f.svc.Login(ctx, &LoginInput{Email: "bob@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, &LoginInput{Email: "bob@x.com", Password: "secret2"})
	assert.NoError(t, err)
}
