package handlers

import (
	"fmt"
	"time"

	"crm-leads/internal/core/domain"
	"crm-leads/internal/core/report"
	"crm-leads/internal/core/services"
	"crm-leads/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves the dashboard views and exports
type ReportHandler struct {
	errorResponder
	leadService *services.LeadService
}

// NewReportHandler creates a new report handler
func NewReportHandler(leadService *services.LeadService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		errorResponder: errorResponder{logger: logger},
		leadService:    leadService,
	}
}

// Dashboard returns filtered leads with stats, date groups and selector options
// @Summary Lead dashboard
// @Tags Reports
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param employee query string false "Employee name (exact)"
// @Success 200 {object} response.Response
// @Router /leads/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.leadService.Dashboard(c.UserContext(), criteriaFromQuery(c))
	if err != nil {
		return h.fail(c, err)
	}

	return response.List(c, "Dashboard fetched successfully", dash, dash.Stats.TotalLeads)
}

// Export downloads the filtered leads as an XLSX workbook
// @Summary Export leads
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param employee query string false "Employee name (exact)"
// @Success 200 {file} file
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /leads/export [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	criteria := criteriaFromQuery(c)
	data, err := h.leadService.Export(c.UserContext(), criteria)
	if err != nil {
		return h.fail(c, err)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, exportFilename(criteria)))
	return c.Send(data)
}

func criteriaFromQuery(c *fiber.Ctx) report.Criteria {
	return report.Criteria{
		Date:     c.Query("date"),
		Employee: c.Query("employee"),
	}
}

func exportFilename(criteria report.Criteria) string {
	name := "leads"
	if _, err := time.Parse(domain.DateLayout, criteria.Date); err == nil {
		name += "-" + criteria.Date
	}
	return name + ".xlsx"
}
