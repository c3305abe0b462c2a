package config

import (
	"context"
	"testing"

	"crm-leads/internal/adapters/persistence/repositories"
	"crm-leads/internal/core/domain"
	"crm-leads/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	accounts := repositories.NewMemoryAccountRepository()
	seeder := NewSeeder(accounts, AdminConfig{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "admin123",
	}, zap.NewNop())

	admin, err := seeder.SeedAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.NotEmpty(t, admin.ID)

	stored, err := accounts.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, password.Verify("admin123", stored.PasswordHash))

	_, err = seeder.SeedAdmin(ctx)
	assert.ErrorIs(t, err, ErrAdminExists)
}

func TestSeedAdmin_EmailTaken(t *testing.T) {
	ctx := context.Background()
	accounts := repositories.NewMemoryAccountRepository()
	_, err := NewSeeder(accounts, AdminConfig{Username: "first", Email: "admin@example.com", Password: "admin123"}, zap.NewNop()).SeedAdmin(ctx)
	require.NoError(t, err)

	_, err = NewSeeder(accounts, AdminConfig{Username: "second", Email: "admin@example.com", Password: "admin123"}, zap.NewNop()).SeedAdmin(ctx)
	assert.ErrorIs(t, err, ErrAdminExists)
}

func TestSeedAdmin_ShortPassword(t *testing.T) {
	accounts := repositories.NewMemoryAccountRepository()
	_, err := NewSeeder(accounts, AdminConfig{Username: "admin", Email: "a@b.c", Password: "123"}, zap.NewNop()).SeedAdmin(context.Background())
	assert.ErrorIs(t, err, domain.ErrValidation)
}
