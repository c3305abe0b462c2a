package models

import (
	"time"

	"crm-leads/internal/core/domain"
)

// LeadChanges is a partial update of a lead. Nil pointers and unset
// NullStrings leave the stored value untouched.
type LeadChanges struct {
	ClientName    *string
	ClientNumber  domain.NullString
	BusinessType  *string
	Location      *string
	Requirement   domain.NullString
	GeneratedBy   *string
	Date          *string
	Time          *string
	Status        *domain.LeadStatus
	NFD           domain.NullString
	NFDUpdatedDay *time.Time
}

// Columns returns the changed columns keyed by database column name
func (c LeadChanges) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if c.ClientName != nil {
		cols["client_name"] = *c.ClientName
	}
	if c.ClientNumber.Set {
		cols["client_number"] = c.ClientNumber.Value
	}
	if c.BusinessType != nil {
		cols["business_type"] = *c.BusinessType
	}
	if c.Location != nil {
		cols["location"] = *c.Location
	}
	if c.Requirement.Set {
		cols["requirement"] = c.Requirement.Value
	}
	if c.GeneratedBy != nil {
		cols["generated_by"] = *c.GeneratedBy
	}
	if c.Date != nil {
		cols["date"] = *c.Date
	}
	if c.Time != nil {
		cols["time"] = *c.Time
	}
	if c.Status != nil {
		cols["status"] = *c.Status
	}
	if c.NFD.Set {
		cols["nfd"] = c.NFD.Value
	}
	if c.NFDUpdatedDay != nil {
		cols["nfd_updated_day"] = *c.NFDUpdatedDay
	}
	return cols
}

// Apply writes the changes onto l
func (c LeadChanges) Apply(l *Lead) {
	if c.ClientName != nil {
		l.ClientName = *c.ClientName
	}
	if c.ClientNumber.Set {
		l.ClientNumber = cloneString(c.ClientNumber.Value)
	}
	if c.BusinessType != nil {
		l.BusinessType = *c.BusinessType
	}
	if c.Location != nil {
		l.Location = *c.Location
	}
	if c.Requirement.Set {
		l.Requirement = cloneString(c.Requirement.Value)
	}
	if c.GeneratedBy != nil {
		l.GeneratedBy = *c.GeneratedBy
	}
	if c.Date != nil {
		l.Date = *c.Date
	}
	if c.Time != nil {
		l.Time = *c.Time
	}
	if c.Status != nil {
		l.Status = *c.Status
	}
	if c.NFD.Set {
		l.NFD = cloneString(c.NFD.Value)
	}
	if c.NFDUpdatedDay != nil {
		t := *c.NFDUpdatedDay
		l.NFDUpdatedDay = &t
	}
}
