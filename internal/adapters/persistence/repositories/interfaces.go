package repositories

import (
	"context"
	"time"

	"crm-leads/internal/adapters/persistence/models"
	"crm-leads/internal/core/domain"
)

// LeadRepository defines lead repository interface
// Missing records are reported as gorm.ErrRecordNotFound by every implementation.
type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	List(ctx context.Context, filter models.LeadFilter) ([]*models.Lead, error)
	GetByID(ctx context.Context, id string) (*models.Lead, error)
	SearchByGeneratedBy(ctx context.Context, name string) ([]*models.Lead, error)
	UpdateByID(ctx context.Context, id string, changes models.LeadChanges) (*models.Lead, error)
	DeleteByID(ctx context.Context, id string) (*models.Lead, error)
}

// AccountRepository defines account repository interface
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*models.Account, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}

// TokenDenylist records revoked credentials until they would have expired
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
