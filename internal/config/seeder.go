package config

import (
	"context"
	"errors"
	"strings"

	"crm-leads/internal/adapters/persistence/models"
	"crm-leads/internal/adapters/persistence/repositories"
	"crm-leads/internal/core/domain"
	"crm-leads/internal/pkg/password"

	"go.uber.org/zap"
)

// ErrAdminExists is returned when the default admin username or email is taken
var ErrAdminExists = errors.New("admin username or email already exists")

// Seeder provisions the default admin account
type Seeder struct {
	accounts repositories.AccountRepository
	admin    AdminConfig
	logger   *zap.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(accounts repositories.AccountRepository, admin AdminConfig, logger *zap.Logger) *Seeder {
	return &Seeder{accounts: accounts, admin: admin, logger: logger}
}

// SeedAdmin creates the admin account unless its username or email is already in use
func (s *Seeder) SeedAdmin(ctx context.Context) (*models.Account, error) {
	s.admin.Username = strings.TrimSpace(s.admin.Username)
	s.admin.Email = strings.ToLower(strings.TrimSpace(s.admin.Email))

	exists, err := s.accounts.ExistsByUsername(ctx, s.admin.Username)
	if err != nil {
		return nil, err
	}
	if !exists {
		exists, err = s.accounts.ExistsByEmail(ctx, s.admin.Email)
		if err != nil {
			return nil, err
		}
	}
	if exists {
		s.logger.Info("admin account already present, skipping",
			zap.String("username", s.admin.Username),
			zap.String("email", s.admin.Email),
		)
		return nil, ErrAdminExists
	}

	if !password.ValidatePassword(s.admin.Password) {
		return nil, domain.NewValidationError("admin password must be between 6 and 72 characters", "password")
	}
	hash, err := password.Hash(s.admin.Password)
	if err != nil {
		return nil, domain.NewStorageError("hash admin password", err)
	}

	admin := &models.Account{
		Username:     s.admin.Username,
		Email:        s.admin.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.accounts.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("admin account created",
		zap.String("account_id", admin.ID),
		zap.String("username", admin.Username),
	)
	return admin, nil
}
