package services

import (
	"context"
	"errors"
	"strings"

	"crm-leads/internal/adapters/persistence/models"
	"crm-leads/internal/adapters/persistence/repositories"
	"crm-leads/internal/core/domain"
	"crm-leads/internal/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccountService handles account administration
type AccountService struct {
	accountRepo repositories.AccountRepository
	logger      *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo repositories.AccountRepository, logger *zap.Logger) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// ListAccounts lists every account, oldest first
func (s *AccountService) ListAccounts(ctx context.Context) ([]*models.AccountResponse, error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		return nil, domain.NewStorageError("list accounts", err)
	}

	out := make([]*models.AccountResponse, len(accounts))
	for i, account := range accounts {
		out[i] = account.ToResponse()
	}
	return out, nil
}

// SetRole changes the role of another account
func (s *AccountService) SetRole(ctx context.Context, actorID, accountID string, role domain.Role) (*models.AccountResponse, error) {
	account, err := s.setRole(ctx, actorID, accountID, role)
	metrics.RecordAuthEvent("set_role", err)
	return account, err
}

func (s *AccountService) setRole(ctx context.Context, actorID, accountID string, role domain.Role) (*models.AccountResponse, error) {
	role = domain.Role(strings.TrimSpace(string(role)))
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	// Prevent admin from changing own role
	if accountID == actorID {
		return nil, domain.ErrCannotChangeOwnRole
	}

	if err := s.accountRepo.UpdateRole(ctx, accountID, role); err != nil {
		return nil, classifyAccountError("update role", err)
	}
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, classifyAccountError("get account", err)
	}

	s.logger.Info("account role changed",
		zap.String("account_id", accountID),
		zap.String("role", string(role)),
		zap.String("by", actorID),
	)
	return account.ToResponse(), nil
}

// DeleteAccount permanently removes another account
func (s *AccountService) DeleteAccount(ctx context.Context, actorID, accountID string) error {
	err := s.deleteAccount(ctx, actorID, accountID)
	metrics.RecordAuthEvent("delete_account", err)
	return err
}

func (s *AccountService) deleteAccount(ctx context.Context, actorID, accountID string) error {
	// Prevent admin from deleting self
	if accountID == actorID {
		return domain.ErrCannotDeleteSelf
	}
	if err := s.accountRepo.Delete(ctx, accountID); err != nil {
		return classifyAccountError("delete account", err)
	}

	s.logger.Info("account deleted",
		zap.String("account_id", accountID),
		zap.String("by", actorID),
	)
	return nil
}

func classifyAccountError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrAccountNotFound
	}
	return domain.NewStorageError(op, err)
}
