// Package report turns a flat lead collection into the filtered, grouped and
// counted views used by the dashboard and the export. Every function is pure:
// inputs are never modified and the same input always yields the same output.
package report

import (
	"sort"
	"time"

	"crm-leads/internal/adapters/persistence/models"
	"crm-leads/internal/core/domain"
)

// Criteria narrows a lead set by exact field equality. Empty fields match everything.
type Criteria struct {
	Date     string `json:"date,omitempty"`
	Employee string `json:"employee,omitempty"`
}

// Matches reports whether lead satisfies every criterion
func (c Criteria) Matches(lead *models.Lead) bool {
	if c.Date != "" && lead.Date != c.Date {
		return false
	}
	if c.Employee != "" && lead.GeneratedBy != c.Employee {
		return false
	}
	return true
}

// EmployeeGroup is the leads of one employee within a date bucket
type EmployeeGroup struct {
	Employee string         `json:"employee"`
	Count    int            `json:"count"`
	Leads    []*models.Lead `json:"leads"`
}

// DateGroup is the leads of one calendar date, split by employee
type DateGroup struct {
	Date      string          `json:"date"`
	Count     int             `json:"count"`
	Employees []EmployeeGroup `json:"employees"`
}

// EmployeeCount is one row of Stats.LeadsByEmployee
type EmployeeCount struct {
	EmployeeName string `json:"employeeName"`
	Count        int    `json:"count"`
}

// Stats summarises a lead set
type Stats struct {
	TotalLeads      int             `json:"totalLeads"`
	LeadsByEmployee []EmployeeCount `json:"leadsByEmployee"`
}

// Options are the distinct values offered by the dashboard selectors
type Options struct {
	Employees []string `json:"employees"`
	Statuses  []string `json:"statuses"`
	Locations []string `json:"locations"`
}

// Dashboard is the full reporting view for one set of criteria
type Dashboard struct {
	Criteria Criteria       `json:"criteria"`
	Stats    Stats          `json:"stats"`
	Groups   []DateGroup    `json:"groups"`
	Options  Options        `json:"options"`
	Leads    []*models.Lead `json:"leads"`
}

// Filter keeps the leads matching c, preserving input order
func Filter(leads []*models.Lead, c Criteria) []*models.Lead {
	out := make([]*models.Lead, 0, len(leads))
	for _, lead := range leads {
		if c.Matches(lead) {
			out = append(out, lead)
		}
	}
	return out
}

// GroupByDate buckets leads by date, most recent date first.
// Leads keep their input order inside a bucket; employee sub-groups appear
// in order of first occurrence.
func GroupByDate(leads []*models.Lead) []DateGroup {
	index := map[string]int{}
	var groups []DateGroup
	for _, lead := range leads {
		i, ok := index[lead.Date]
		if !ok {
			i = len(groups)
			index[lead.Date] = i
			groups = append(groups, DateGroup{Date: lead.Date})
		}
		groups[i].Count++
		groups[i].Employees = appendToEmployee(groups[i].Employees, lead)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return dateAfter(groups[i].Date, groups[j].Date)
	})
	if groups == nil {
		groups = []DateGroup{}
	}
	return groups
}

func appendToEmployee(groups []EmployeeGroup, lead *models.Lead) []EmployeeGroup {
	name := EmployeeLabel(lead.GeneratedBy)
	for i := range groups {
		if groups[i].Employee == name {
			groups[i].Count++
			groups[i].Leads = append(groups[i].Leads, lead)
			return groups
		}
	}
	return append(groups, EmployeeGroup{Employee: name, Count: 1, Leads: []*models.Lead{lead}})
}

// dateAfter orders calendar dates descending; unparseable dates sort last
func dateAfter(a, b string) bool {
	ta, errA := time.Parse(domain.DateLayout, a)
	tb, errB := time.Parse(domain.DateLayout, b)
	switch {
	case errA != nil:
		return false
	case errB != nil:
		return true
	default:
		return ta.After(tb)
	}
}

// EmployeeLabel returns the grouping label for a generatedBy value
func EmployeeLabel(generatedBy string) string {
	if generatedBy == "" {
		return domain.UnknownEmployee
	}
	return generatedBy
}

// ComputeStats counts leads overall and per employee (first-occurrence order)
func ComputeStats(leads []*models.Lead) Stats {
	stats := Stats{TotalLeads: len(leads), LeadsByEmployee: []EmployeeCount{}}
	index := map[string]int{}
	for _, lead := range leads {
		name := EmployeeLabel(lead.GeneratedBy)
		i, ok := index[name]
		if !ok {
			i = len(stats.LeadsByEmployee)
			index[name] = i
			stats.LeadsByEmployee = append(stats.LeadsByEmployee, EmployeeCount{EmployeeName: name})
		}
		stats.LeadsByEmployee[i].Count++
	}
	return stats
}

// DistinctOptions lists unique employees, statuses and locations in first-occurrence order
func DistinctOptions(leads []*models.Lead) Options {
	employees := newDistinct()
	statuses := newDistinct()
	locations := newDistinct()
	for _, lead := range leads {
		employees.add(lead.GeneratedBy)
		statuses.add(string(lead.Status))
		locations.add(lead.Location)
	}
	return Options{
		Employees: employees.values,
		Statuses:  statuses.values,
		Locations: locations.values,
	}
}

type distinct struct {
	seen   map[string]struct{}
	values []string
}

func newDistinct() *distinct {
	return &distinct{seen: map[string]struct{}{}, values: []string{}}
}

func (d *distinct) add(v string) {
	if v == "" {
		return
	}
	if _, ok := d.seen[v]; ok {
		return
	}
	d.seen[v] = struct{}{}
	d.values = append(d.values, v)
}

// Build filters leads by c and computes every view over the filtered set
func Build(leads []*models.Lead, c Criteria) Dashboard {
	filtered := Filter(leads, c)
	return Dashboard{
		Criteria: c,
		Stats:    ComputeStats(filtered),
		Groups:   GroupByDate(filtered),
		Options:  DistinctOptions(filtered),
		Leads:    filtered,
	}
}
