package handlers

import (
	"crm-leads/internal/adapters/http/middleware"
	"crm-leads/internal/core/domain"
	"crm-leads/internal/core/services"
	"crm-leads/internal/pkg/pagination"
	"crm-leads/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AccountHandler handles account administration endpoints
type AccountHandler struct {
	errorResponder
	accountService *services.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *services.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		errorResponder: errorResponder{logger: logger},
		accountService: accountService,
	}
}

// ListAccounts handles listing all accounts (Admin only)
// @Summary List accounts
// @Description List every account, oldest first (Admin only)
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number; paging is off unless page or limit is given"
// @Param limit query int false "Items per page (max 100)"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /accounts [get]
func (h *AccountHandler) ListAccounts(c *fiber.Ctx) error {
	accounts, err := h.accountService.ListAccounts(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}

	if pagination.Requested(c) {
		params := pagination.GetParams(c)
		page := pagination.Slice(accounts, params)
		return response.Paginated(c, "Accounts fetched successfully", page, len(page), pagination.GetMeta(params, len(accounts)))
	}

	return response.List(c, "Accounts fetched successfully", accounts, len(accounts))
}

// SetRoleRequest represents set role request body
type SetRoleRequest struct {
	Role domain.Role `json:"role"`
}

// SetRole handles changing an account's role (Admin only)
// @Summary Set account role
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param body body SetRoleRequest true "Role data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /accounts/{id}/role [put]
func (h *AccountHandler) SetRole(c *fiber.Ctx) error {
	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actorID, _ := c.Locals(middleware.LocalAccountID).(string)
	account, err := h.accountService.SetRole(c.UserContext(), actorID, c.Params("id"), req.Role)
	if err != nil {
		return h.fail(c, err)
	}

	return response.Success(c, "Account role updated successfully", account)
}

// DeleteAccount handles deleting an account (Admin only)
// @Summary Delete account
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *fiber.Ctx) error {
	actorID, _ := c.Locals(middleware.LocalAccountID).(string)
	if err := h.accountService.DeleteAccount(c.UserContext(), actorID, c.Params("id")); err != nil {
		return h.fail(c, err)
	}

	return response.Success(c, "Account deleted successfully", nil)
}
