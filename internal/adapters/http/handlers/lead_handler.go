package handlers

import (
	"net/url"

	"crm-leads/internal/adapters/persistence/models"
	"crm-leads/internal/core/services"
	"crm-leads/internal/pkg/pagination"
	"crm-leads/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LeadHandler handles lead endpoints
type LeadHandler struct {
	errorResponder
	leadService *services.LeadService
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadService *services.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		errorResponder: errorResponder{logger: logger},
		leadService:    leadService,
	}
}

// CreateLead handles lead creation
// @Summary Create lead
// @Description Create a new client lead
// @Tags Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateLeadInput true "Lead data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /add-client-lead [post]
func (h *LeadHandler) CreateLead(c *fiber.Ctx) error {
	var req services.CreateLeadInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	lead, err := h.leadService.CreateLead(c.UserContext(), &req)
	if err != nil {
		return h.fail(c, err)
	}

	return response.Created(c, "Lead added successfully", lead)
}

// GetAllLeads lists leads newest first
// @Summary List leads
// @Description List all leads, newest first, optionally filtered by exact date and employee
// @Tags Leads
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param employee query string false "Employee name (exact)"
// @Param page query int false "Page number; paging is off unless page or limit is given"
// @Param limit query int false "Items per page (max 100)"
// @Success 200 {object} response.Response
// @Router /get-all-leads [get]
func (h *LeadHandler) GetAllLeads(c *fiber.Ctx) error {
	leads, err := h.leadService.ListLeads(c.UserContext(), models.LeadFilter{
		Date:        c.Query("date"),
		GeneratedBy: c.Query("employee"),
	})
	if err != nil {
		return h.fail(c, err)
	}

	if pagination.Requested(c) {
		params := pagination.GetParams(c)
		page := pagination.Slice(leads, params)
		return response.Paginated(c, "Leads fetched successfully", page, len(page), pagination.GetMeta(params, len(leads)))
	}

	return response.List(c, "Leads fetched successfully", leads, len(leads))
}

// GetLead gets a single lead
// @Summary Get lead
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /get-client-lead/{id} [get]
func (h *LeadHandler) GetLead(c *fiber.Ctx) error {
	lead, err := h.leadService.GetLead(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	return response.Success(c, "Lead fetched successfully", lead)
}

// GetLeadsByEmployee finds leads by employee name given in the path; no match is a 404
// @Summary List leads by employee (path)
// @Tags Leads
// @Produce json
// @Param employeeName path string true "Employee name (case-insensitive substring)"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /get-leads-by-employee/{employeeName} [get]
func (h *LeadHandler) GetLeadsByEmployee(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("employeeName"))
	if err != nil {
		return response.BadRequest(c, "Invalid employee name")
	}

	leads, err := h.leadService.FindByEmployeeStrict(c.UserContext(), name)
	if err != nil {
		return h.fail(c, err)
	}

	return response.List(c, "Leads fetched successfully", leads, len(leads))
}

// GetLeadsByEmployeeQuery finds leads by employee name given as a query parameter; no match is an empty list
// @Summary List leads by employee (query)
// @Tags Leads
// @Produce json
// @Param employeeName query string true "Employee name (case-insensitive substring)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /get-leads-by-employee-query [get]
func (h *LeadHandler) GetLeadsByEmployeeQuery(c *fiber.Ctx) error {
	leads, err := h.leadService.FindByEmployee(c.UserContext(), c.Query("employeeName"))
	if err != nil {
		return h.fail(c, err)
	}

	return response.List(c, "Leads fetched successfully", leads, len(leads))
}

// UpdateLead applies a partial update
// @Summary Update lead
// @Description Only the supplied fields change. A non-null nfd refreshes nfdUpdatedDay.
// @Tags Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param body body services.UpdateLeadInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /update-client-lead/{id} [put]
func (h *LeadHandler) UpdateLead(c *fiber.Ctx) error {
	var req services.UpdateLeadInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	lead, err := h.leadService.UpdateLead(c.UserContext(), c.Params("id"), &req)
	if err != nil {
		return h.fail(c, err)
	}

	return response.Success(c, "Lead updated successfully", lead)
}

// DeleteLead removes a lead permanently
// @Summary Delete lead
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /delete-client-lead/{id} [delete]
func (h *LeadHandler) DeleteLead(c *fiber.Ctx) error {
	lead, err := h.leadService.DeleteLead(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	return response.Success(c, "Lead deleted successfully", lead)
}
