package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"crm-leads/internal/adapters/persistence/models"
	"crm-leads/internal/adapters/persistence/repositories"
	"crm-leads/internal/core/domain"
	"crm-leads/internal/core/report"
	"crm-leads/internal/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeadService enforces the business rules for leads above the raw store
type LeadService struct {
	leadRepo repositories.LeadRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewLeadService creates a new lead service
func NewLeadService(leadRepo repositories.LeadRepository, logger *zap.Logger) *LeadService {
	return &LeadService{
		leadRepo: leadRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateLeadInput represents the payload of a new lead
type CreateLeadInput struct {
	ClientName   string            `json:"clientName"`
	ClientNumber *string           `json:"clientNumber"`
	BusinessType string            `json:"businessType"`
	Location     string            `json:"location"`
	Requirement  *string           `json:"requirement"`
	GeneratedBy  string            `json:"generatedBy"`
	Date         string            `json:"date"`
	Time         string            `json:"time"`
	Status       domain.LeadStatus `json:"status"`
	NFD          *string           `json:"nfd"`
}

// UpdateLeadInput is a partial update. Absent keys leave the stored value untouched;
// nullable fields distinguish an explicit null from absence.
type UpdateLeadInput struct {
	ClientName   *string            `json:"clientName"`
	ClientNumber domain.NullString  `json:"clientNumber"`
	BusinessType *string            `json:"businessType"`
	Location     *string            `json:"location"`
	Requirement  domain.NullString  `json:"requirement"`
	GeneratedBy  *string            `json:"generatedBy"`
	Date         *string            `json:"date"`
	Time         *string            `json:"time"`
	Status       *domain.LeadStatus `json:"status"`
	NFD          domain.NullString  `json:"nfd"`
}

// CreateLead validates input and stores a new lead
func (s *LeadService) CreateLead(ctx context.Context, input *CreateLeadInput) (*models.Lead, error) {
	lead := &models.Lead{
		ClientName:   strings.TrimSpace(input.ClientName),
		ClientNumber: optional(input.ClientNumber),
		BusinessType: strings.TrimSpace(input.BusinessType),
		Location:     strings.TrimSpace(input.Location),
		Requirement:  optional(input.Requirement),
		GeneratedBy:  strings.TrimSpace(input.GeneratedBy),
		Date:         strings.TrimSpace(input.Date),
		Time:         strings.TrimSpace(input.Time),
		Status:       domain.LeadStatus(strings.TrimSpace(string(input.Status))),
		NFD:          optional(input.NFD),
	}

	if err := validateNewLead(lead); err != nil {
		metrics.RecordLeadMutation("create", err)
		return nil, err
	}

	if lead.NFD != nil {
		now := s.now()
		lead.NFDUpdatedDay = &now
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			err = domain.NewStorageError("create lead", err)
		}
		metrics.RecordLeadMutation("create", err)
		return nil, err
	}

	metrics.RecordLeadMutation("create", nil)
	s.logger.Info("lead created",
		zap.String("lead_id", lead.ID),
		zap.String("generated_by", lead.GeneratedBy),
		zap.String("status", string(lead.Status)),
	)
	return lead, nil
}

// GetLead gets a lead by ID
func (s *LeadService) GetLead(ctx context.Context, id string) (*models.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, classifyLeadError("get lead", err)
	}
	return lead, nil
}

// UpdateLead applies a partial update. A non-null nfd refreshes nfdUpdatedDay;
// clearing nfd leaves nfdUpdatedDay at its last value.
func (s *LeadService) UpdateLead(ctx context.Context, id string, input *UpdateLeadInput) (*models.Lead, error) {
	changes, err := s.buildChanges(input)
	if err != nil {
		metrics.RecordLeadMutation("update", err)
		return nil, err
	}

	lead, err := s.leadRepo.UpdateByID(ctx, id, changes)
	if err != nil {
		err = classifyLeadError("update lead", err)
		metrics.RecordLeadMutation("update", err)
		return nil, err
	}

	metrics.RecordLeadMutation("update", nil)
	s.logger.Info("lead updated",
		zap.String("lead_id", lead.ID),
		zap.Strings("fields", changedFields(changes)),
	)
	return lead, nil
}

// DeleteLead removes a lead permanently and returns the removed record
func (s *LeadService) DeleteLead(ctx context.Context, id string) (*models.Lead, error) {
	lead, err := s.leadRepo.DeleteByID(ctx, id)
	if err != nil {
		err = classifyLeadError("delete lead", err)
		metrics.RecordLeadMutation("delete", err)
		return nil, err
	}

	metrics.RecordLeadMutation("delete", nil)
	s.logger.Info("lead deleted", zap.String("lead_id", lead.ID))
	return lead, nil
}

// ListLeads returns leads newest first, narrowed by exact date and/or generatedBy
func (s *LeadService) ListLeads(ctx context.Context, filter models.LeadFilter) ([]*models.Lead, error) {
	filter.Date = strings.TrimSpace(filter.Date)
	filter.GeneratedBy = strings.TrimSpace(filter.GeneratedBy)

	leads, err := s.leadRepo.List(ctx, filter)
	if err != nil {
		return nil, domain.NewStorageError("list leads", err)
	}
	return leads, nil
}

// FindByEmployee matches generatedBy case-insensitively. No match is an empty result.
func (s *LeadService) FindByEmployee(ctx context.Context, name string) ([]*models.Lead, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("employeeName is required", "employeeName")
	}

	leads, err := s.leadRepo.SearchByGeneratedBy(ctx, name)
	if err != nil {
		return nil, domain.NewStorageError("find leads by employee", err)
	}
	return leads, nil
}

// FindByEmployeeStrict is FindByEmployee reporting no match as ErrNoLeadsForEmployee
func (s *LeadService) FindByEmployeeStrict(ctx context.Context, name string) ([]*models.Lead, error) {
	leads, err := s.FindByEmployee(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, domain.ErrNoLeadsForEmployee
	}
	return leads, nil
}

// Dashboard fetches every lead and computes the reporting views for criteria
func (s *LeadService) Dashboard(ctx context.Context, criteria report.Criteria) (*report.Dashboard, error) {
	criteria.Date = strings.TrimSpace(criteria.Date)
	criteria.Employee = strings.TrimSpace(criteria.Employee)

	leads, err := s.ListLeads(ctx, models.LeadFilter{})
	if err != nil {
		return nil, err
	}
	dash := report.Build(leads, criteria)
	return &dash, nil
}

// Export renders the dashboard for criteria as an XLSX workbook
func (s *LeadService) Export(ctx context.Context, criteria report.Criteria) ([]byte, error) {
	dash, err := s.Dashboard(ctx, criteria)
	if err != nil {
		return nil, err
	}
	data, err := report.GenerateLeadExport(*dash)
	if err != nil {
		return nil, err
	}
	s.logger.Info("leads exported",
		zap.Int("rows", len(dash.Leads)),
		zap.String("date", criteria.Date),
		zap.String("employee", criteria.Employee),
	)
	return data, nil
}

func (s *LeadService) buildChanges(input *UpdateLeadInput) (models.LeadChanges, error) {
	var changes models.LeadChanges
	var empty []string

	required := []struct {
		field string
		value *string
		dst   **string
	}{
		{"clientName", input.ClientName, &changes.ClientName},
		{"businessType", input.BusinessType, &changes.BusinessType},
		{"location", input.Location, &changes.Location},
		{"generatedBy", input.GeneratedBy, &changes.GeneratedBy},
		{"date", input.Date, &changes.Date},
		{"time", input.Time, &changes.Time},
	}
	for _, r := range required {
		if r.value == nil {
			continue
		}
		v := strings.TrimSpace(*r.value)
		if v == "" {
			empty = append(empty, r.field)
			continue
		}
		*r.dst = &v
	}
	if input.Status != nil && strings.TrimSpace(string(*input.Status)) == "" {
		empty = append(empty, "status")
	}
	if len(empty) > 0 {
		return changes, domain.NewValidationError("fields cannot be empty: "+strings.Join(empty, ", "), empty...)
	}

	if changes.Date != nil && !isCalendarDate(*changes.Date) {
		return changes, domain.NewValidationError("date must be formatted as YYYY-MM-DD", "date")
	}
	if input.Status != nil {
		status := domain.LeadStatus(strings.TrimSpace(string(*input.Status)))
		if !status.Valid() {
			return changes, domain.ErrInvalidStatus
		}
		changes.Status = &status
	}

	changes.ClientNumber = trimNullable(input.ClientNumber)
	changes.Requirement = trimNullable(input.Requirement)

	if input.NFD.Set {
		nfd := trimNullable(input.NFD)
		if nfd.Value != nil {
			if !isCalendarDate(*nfd.Value) {
				return changes, domain.NewValidationError("nfd must be formatted as YYYY-MM-DD", "nfd")
			}
			now := s.now()
			changes.NFDUpdatedDay = &now
		}
		changes.NFD = nfd
	}
	return changes, nil
}

func validateNewLead(l *models.Lead) error {
	if missing := l.MissingFields(); len(missing) > 0 {
		return domain.MissingFields(missing...)
	}

	if !isCalendarDate(l.Date) {
		return domain.NewValidationError("date must be formatted as YYYY-MM-DD", "date")
	}
	if !l.Status.Valid() {
		return domain.ErrInvalidStatus
	}
	if l.NFD != nil && !isCalendarDate(*l.NFD) {
		return domain.NewValidationError("nfd must be formatted as YYYY-MM-DD", "nfd")
	}
	return nil
}

func classifyLeadError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrLeadNotFound
	}
	return domain.NewStorageError(op, err)
}

func isCalendarDate(s string) bool {
	_, err := time.Parse(domain.DateLayout, s)
	return err == nil
}

// optional trims s and maps blank to nil
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func trimNullable(n domain.NullString) domain.NullString {
	if !n.Set {
		return n
	}
	if v := optional(n.Value); v != nil {
		return domain.SetString(*v)
	}
	return domain.SetNull()
}

func changedFields(c models.LeadChanges) []string {
	cols := c.Columns()
	fields := make([]string, 0, len(cols))
	for col := range cols {
		fields = append(fields, col)
	}
	sort.Strings(fields)
	return fields
}
