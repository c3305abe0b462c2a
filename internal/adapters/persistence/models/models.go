package models

import (
	"time"

	"crm-leads/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Leads
// ============================================================

// Lead represents leads table
type Lead struct {
	ID            string            `gorm:"primaryKey;size:36" json:"id"`
	ClientName    string            `gorm:"size:255;not null" json:"clientName"`
	ClientNumber  *string           `gorm:"size:50" json:"clientNumber"`
	BusinessType  string            `gorm:"size:255;not null" json:"businessType"`
	Location      string            `gorm:"size:255;not null" json:"location"`
	Requirement   *string           `gorm:"type:text" json:"requirement"`
	GeneratedBy   string            `gorm:"size:100;not null;index" json:"generatedBy"`
	Date          string            `gorm:"size:10;not null;index" json:"date"`
	Time          string            `gorm:"size:20;not null" json:"time"`
	Status        domain.LeadStatus `gorm:"size:30;not null" json:"status"`
	NFD           *string           `gorm:"column:nfd;size:10" json:"nfd"`
	NFDUpdatedDay *time.Time        `gorm:"column:nfd_updated_day" json:"nfdUpdatedDay"`
	CreatedAt     time.Time         `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Lead) TableName() string {
	return "leads"
}

// BeforeCreate rejects incomplete leads and assigns the lead identity
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if missing := l.MissingFields(); len(missing) > 0 {
		return domain.MissingFields(missing...)
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// MissingFields lists the required fields that are empty, in declaration order
func (l *Lead) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		field string
		value string
	}{
		{"clientName", l.ClientName},
		{"businessType", l.BusinessType},
		{"location", l.Location},
		{"generatedBy", l.GeneratedBy},
		{"date", l.Date},
		{"time", l.Time},
		{"status", string(l.Status)},
	} {
		if f.value == "" {
			missing = append(missing, f.field)
		}
	}
	return missing
}

// Clone returns a deep copy so callers never share pointer fields
func (l *Lead) Clone() *Lead {
	c := *l
	c.ClientNumber = cloneString(l.ClientNumber)
	c.Requirement = cloneString(l.Requirement)
	c.NFD = cloneString(l.NFD)
	if l.NFDUpdatedDay != nil {
		t := *l.NFDUpdatedDay
		c.NFDUpdatedDay = &t
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// LeadFilter holds exact-match filters on the lead collection
type LeadFilter struct {
	Date        string
	GeneratedBy string
}

// ============================================================
// Accounts
// ============================================================

// Account represents accounts table
type Account struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	Username     string      `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email        string      `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string      `gorm:"size:255;not null" json:"-"`
	Role         domain.Role `gorm:"size:20;not null;default:'employee'" json:"role"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Account) TableName() string {
	return "accounts"
}

// BeforeCreate assigns the account identity
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AccountResponse DTO
type AccountResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (a *Account) ToResponse() *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	}
}

// AutoMigrate creates or updates the leads and accounts tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Lead{},
		&Account{},
	)
}
