package repositories

import (
	"context"
	"strings"
	"time"

	"crm-leads/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// leadRepository implements LeadRepository on GORM
type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

// Create inserts a lead; id and timestamps are assigned by the model hooks
func (r *leadRepository) Create(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

// List returns leads newest first, optionally narrowed by exact filters
func (r *leadRepository) List(ctx context.Context, filter models.LeadFilter) ([]*models.Lead, error) {
	var leads []*models.Lead
	q := r.db.WithContext(ctx)
	if filter.Date != "" {
		q = q.Where("date = ?", filter.Date)
	}
	if filter.GeneratedBy != "" {
		q = q.Where("generated_by = ?", filter.GeneratedBy)
	}
	if err := q.Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// GetByID gets a lead by ID
func (r *leadRepository) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// SearchByGeneratedBy matches generatedBy as a case-insensitive substring
func (r *leadRepository) SearchByGeneratedBy(ctx context.Context, name string) ([]*models.Lead, error) {
	var leads []*models.Lead
	pattern := "%" + escapeLike(strings.ToLower(name)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(generated_by) LIKE ?", pattern).
		Order("created_at DESC").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}

// UpdateByID applies changes under a row lock and returns the updated lead
func (r *leadRepository) UpdateByID(ctx context.Context, id string, changes models.LeadChanges) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&lead).Error; err != nil {
			return err
		}

		now := time.Now()
		cols := changes.Columns()
		cols["updated_at"] = now
		if err := tx.Model(&lead).Updates(cols).Error; err != nil {
			return err
		}

		changes.Apply(&lead)
		lead.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// DeleteByID permanently removes a lead and returns what was removed
func (r *leadRepository) DeleteByID(ctx context.Context, id string) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&lead).Error; err != nil {
			return err
		}
		return tx.Delete(&lead).Error
	})
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// escapeLike escapes LIKE wildcards so the name is matched literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
