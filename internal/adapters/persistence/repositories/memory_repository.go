package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"crm-leads/internal/adapters/persistence/models"
	"crm-leads/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemoryLeadRepository keeps leads in process memory (DB_DRIVER=memory and tests).
// Stored records are copied on the way in and out, so readers never observe
// a partially applied write.
type MemoryLeadRepository struct {
	mu    sync.RWMutex
	leads map[string]*memoryLead
	seq   uint64
	now   func() time.Time
}

// memoryLead remembers insertion order to break createdAt ties
type memoryLead struct {
	lead *models.Lead
	seq  uint64
}

// NewMemoryLeadRepository creates an empty in-memory lead store
func NewMemoryLeadRepository() *MemoryLeadRepository {
	return &MemoryLeadRepository{
		leads: map[string]*memoryLead{},
		now:   time.Now,
	}
}

// Create stores a copy of lead, assigning id and timestamps
func (r *MemoryLeadRepository) Create(_ context.Context, lead *models.Lead) error {
	if missing := lead.MissingFields(); len(missing) > 0 {
		return domain.MissingFields(missing...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	now := r.now()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	r.seq++
	r.leads[lead.ID] = &memoryLead{lead: lead.Clone(), seq: r.seq}
	return nil
}

// List returns leads newest first, optionally narrowed by exact filters
func (r *MemoryLeadRepository) List(_ context.Context, filter models.LeadFilter) ([]*models.Lead, error) {
	return r.collect(func(l *models.Lead) bool {
		if filter.Date != "" && l.Date != filter.Date {
			return false
		}
		if filter.GeneratedBy != "" && l.GeneratedBy != filter.GeneratedBy {
			return false
		}
		return true
	}), nil
}

// GetByID gets a lead by ID
func (r *MemoryLeadRepository) GetByID(_ context.Context, id string) (*models.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.leads[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return stored.lead.Clone(), nil
}

// SearchByGeneratedBy matches generatedBy as a case-insensitive substring
func (r *MemoryLeadRepository) SearchByGeneratedBy(_ context.Context, name string) ([]*models.Lead, error) {
	needle := strings.ToLower(name)
	return r.collect(func(l *models.Lead) bool {
		return strings.Contains(strings.ToLower(l.GeneratedBy), needle)
	}), nil
}

// UpdateByID applies changes and returns the updated lead
func (r *MemoryLeadRepository) UpdateByID(_ context.Context, id string, changes models.LeadChanges) (*models.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.leads[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	updated := stored.lead.Clone()
	changes.Apply(updated)
	updated.UpdatedAt = r.now()
	stored.lead = updated
	return updated.Clone(), nil
}

// DeleteByID permanently removes a lead and returns what was removed
func (r *MemoryLeadRepository) DeleteByID(_ context.Context, id string) (*models.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.leads[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	delete(r.leads, id)
	return stored.lead, nil
}

func (r *MemoryLeadRepository) collect(keep func(*models.Lead) bool) []*models.Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*memoryLead, 0, len(r.leads))
	for _, stored := range r.leads {
		if keep(stored.lead) {
			matched = append(matched, stored)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.lead.CreatedAt.Equal(b.lead.CreatedAt) {
			return a.seq > b.seq
		}
		return a.lead.CreatedAt.After(b.lead.CreatedAt)
	})

	out := make([]*models.Lead, len(matched))
	for i, stored := range matched {
		out[i] = stored.lead.Clone()
	}
	return out
}

// MemoryAccountRepository keeps accounts in process memory
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
}

// NewMemoryAccountRepository creates an empty in-memory account store
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{accounts: map[string]*models.Account{}}
}

// Create stores a copy of account; username and email stay unique
func (r *MemoryAccountRepository) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Username == account.Username || a.Email == account.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	stored := *account
	r.accounts[account.ID] = &stored
	return nil
}

// GetByID gets an account by ID
func (r *MemoryAccountRepository) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *a
	return &out, nil
}

// GetByEmail gets an account by email
func (r *MemoryAccountRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Email == email {
			out := *a
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ExistsByUsername checks if username exists
func (r *MemoryAccountRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// ExistsByEmail checks if email exists
func (r *MemoryAccountRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// List returns every account, oldest first
func (r *MemoryAccountRepository) List(_ context.Context) ([]*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		copied := *a
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Username < out[j].Username
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateRole sets the role of an account
func (r *MemoryAccountRepository) UpdateRole(_ context.Context, id string, role domain.Role) error {
	return r.update(id, func(a *models.Account) { a.Role = role })
}

// UpdatePasswordHash replaces the stored password hash
func (r *MemoryAccountRepository) UpdatePasswordHash(_ context.Context, id, hash string) error {
	return r.update(id, func(a *models.Account) { a.PasswordHash = hash })
}

func (r *MemoryAccountRepository) update(id string, mutate func(*models.Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	mutate(a)
	a.UpdatedAt = time.Now()
	return nil
}

// Delete removes an account
func (r *MemoryAccountRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.accounts, id)
	return nil
}
