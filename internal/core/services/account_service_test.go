package services

import (
	"context"
	"testing"

	"crm-leads/internal/adapters/persistence/repositories"
	"crm-leads/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAccountFixture(t *testing.T) (*AccountService, *AuthService) {
	t.Helper()
	accounts := repositories.NewMemoryAccountRepository()
	auth := NewAuthService(accounts, nil, testConfig(), zap.NewNop(), WithHashCost(bcrypt.MinCost))
	return NewAccountService(accounts, zap.NewNop()), auth
}

func TestAccountService_ListAndSetRole(t *testing.T) {
	svc, auth := newAccountFixture(t)
	ctx := context.Background()

	admin, err := auth.Register(ctx, &RegisterInput{Username: "root", Email: "root@x.com", Password: "secret1", Role: domain.RoleAdmin})
	require.NoError(t, err)
	employee, err := auth.Register(ctx, bob())
	require.NoError(t, err)

	accounts, err := svc.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	updated, err := svc.SetRole(ctx, admin.ID, employee.ID, domain.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, updated.Role)

	_, err = svc.SetRole(ctx, admin.ID, employee.ID, "owner")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = svc.SetRole(ctx, admin.ID, admin.ID, domain.RoleEmployee)
	assert.ErrorIs(t, err, domain.ErrCannotChangeOwnRole)

	_, err = svc.SetRole(ctx, admin.ID, "missing", domain.RoleEmployee)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountService_Delete(t *testing.T) {
	svc, auth := newAccountFixture(t)
	ctx := context.Background()

	admin, err := auth.Register(ctx, &RegisterInput{Username: "root", Email: "root@x.com", Password: "secret1", Role: domain.RoleAdmin})
	require.NoError(t, err)
	employee, err := auth.Register(ctx, bob())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, admin.ID, admin.ID), domain.ErrCannotDeleteSelf)

	require.NoError(t, svc.DeleteAccount(ctx, admin.ID, employee.ID))
	assert.ErrorIs(t, svc.DeleteAccount(ctx, admin.ID, employee.ID), domain.ErrNotFound)

	// the freed email can be registered again
	_, err = auth.Register(ctx, bob())
	assert.NoError(t, err)
}
