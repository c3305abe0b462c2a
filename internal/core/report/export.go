package report

import (
	"fmt"

	"crm-leads/internal/adapters/persistence/models"

	"github.com/xuri/excelize/v2"
)

const (
	leadsSheet   = "Leads"
	summarySheet = "Summary"
)

// LeadExportHeader is the header row of the Leads sheet
var LeadExportHeader = []string{
	"Date",
	"Time",
	"Client Name",
	"Client Number",
	"Business Type",
	"Location",
	"Requirement",
	"Generated By",
	"Status",
	"NFD",
	"NFD Updated",
	"Created At",
}

var leadColumnWidths = []float64{12, 10, 28, 16, 20, 18, 40, 18, 18, 12, 20, 20}

// GenerateLeadExport renders a dashboard as an XLSX workbook: the filtered
// leads on one sheet and the per-employee counts on another
func GenerateLeadExport(dash Dashboard) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(leadsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(leadsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to find sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRow(f, leadsSheet, 1, toCells(LeadExportHeader), headerStyle); err != nil {
		return nil, err
	}
	for i, width := range leadColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(leadsSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}
	for i, lead := range dash.Leads {
		if err := writeRow(f, leadsSheet, i+2, leadCells(lead), 0); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, summarySheet, 1, []interface{}{"Employee", "Leads"}, headerStyle); err != nil {
		return nil, err
	}
	row := 2
	for _, e := range dash.Stats.LeadsByEmployee {
		if err := writeRow(f, summarySheet, row, []interface{}{e.EmployeeName, e.Count}, 0); err != nil {
			return nil, err
		}
		row++
	}
	if err := writeRow(f, summarySheet, row, []interface{}{"Total", dash.Stats.TotalLeads}, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}, style int) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if value != nil && value != "" {
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
		if style != 0 {
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return fmt.Errorf("failed to set style on %s: %w", cell, err)
			}
		}
	}
	return nil
}

func leadCells(l *models.Lead) []interface{} {
	nfdUpdated := ""
	if l.NFDUpdatedDay != nil {
		nfdUpdated = l.NFDUpdatedDay.Format("2006-01-02 15:04")
	}
	created := ""
	if !l.CreatedAt.IsZero() {
		created = l.CreatedAt.Format("2006-01-02 15:04")
	}
	return []interface{}{
		l.Date,
		l.Time,
		l.ClientName,
		deref(l.ClientNumber),
		l.BusinessType,
		l.Location,
		deref(l.Requirement),
		EmployeeLabel(l.GeneratedBy),
		string(l.Status),
		deref(l.NFD),
		nfdUpdated,
		created,
	}
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
