package handlers

import (
	"time"

	"crm-leads/internal/adapters/http/middleware"
	"crm-leads/internal/config"
	"crm-leads/internal/core/services"
	"crm-leads/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const accessTokenCookie = "access_token"

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	errorResponder
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		errorResponder: errorResponder{logger: logger},
		authService:    authService,
		cfg:            cfg,
	}
}

// Register handles account registration
// @Summary Register new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.ConfirmPassword == "" {
		return response.ErrorWithDetail(c, fiber.StatusBadRequest, "Password confirmation is required", "confirmPassword")
	}
	if req.ConfirmPassword != req.Password {
		return response.ErrorWithDetail(c, fiber.StatusBadRequest, "Passwords do not match", "confirmPassword")
	}

	account, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return h.fail(c, err)
	}

	return response.Created(c, "User registered successfully", account)
}

// Login handles login by email and password
// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return h.fail(c, err)
	}

	h.setAuthCookie(c, result.Token, result.ExpiresAt)

	return response.Success(c, "Login successful", result)
}

// Logout revokes the presented credential when possible and clears the cookie
// @Summary Logout
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := middleware.BearerToken(c); token != "" {
		// an already invalid token needs no revocation
		if identity, err := h.authService.Verify(c.UserContext(), token); err == nil {
			if err := h.authService.Logout(c.UserContext(), identity); err != nil {
				return h.fail(c, err)
			}
		}
	}

	h.clearAuthCookie(c)

	return response.Success(c, "Logged out successfully", nil)
}

// Me returns the account behind the current credential
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	token, _ := c.Locals(middleware.LocalToken).(string)

	account, err := h.authService.CurrentUser(c.UserContext(), token)
	if err != nil {
		return h.fail(c, err)
	}

	return response.Success(c, "User fetched successfully", account)
}

func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   h.cfg.IsProd(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     accessTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.IsProd(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ChangePassword handles changing the caller's password
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Password data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var input services.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	accountID, _ := c.Locals(middleware.LocalAccountID).(string)
	if err := h.authService.ChangePassword(c.UserContext(), accountID, &input); err != nil {
		return h.fail(c, err)
	}

	return response.Success(c, "Password changed successfully", nil)
}
