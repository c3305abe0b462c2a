package middleware

import (
	"errors"
	"strings"

	"crm-leads/internal/core/domain"
	"crm-leads/internal/core/services"
	"crm-leads/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthMiddleware
const (
	LocalAccountID = "accountID"
	LocalRole      = "role"
	LocalToken     = "token"
)

// AuthMiddleware requires a valid bearer credential
func AuthMiddleware(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := BearerToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		identity, err := authService.Verify(c.UserContext(), accessToken)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenExpired):
				return response.Unauthorized(c, "Access token expired")
			case errors.Is(err, domain.ErrTokenRevoked):
				return response.Unauthorized(c, "Access token revoked")
			case errors.Is(err, domain.ErrUnauthorized):
				return response.Unauthorized(c, "Invalid access token")
			default:
				return response.InternalServerError(c, "Failed to verify access token")
			}
		}

		c.Locals(LocalAccountID, identity.AccountID)
		c.Locals(LocalRole, string(identity.Role))
		c.Locals(LocalToken, accessToken)

		return c.Next()
	}
}

// BearerToken reads the credential from the Authorization header, then the access_token cookie
func BearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return c.Cookies("access_token")
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == string(allowedRole) {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// ManagerOrAdmin middleware allows manager or admin roles
func ManagerOrAdmin() fiber.Handler {
	return RoleMiddleware(domain.RoleManager, domain.RoleAdmin)
}

// AdminOnly middleware allows only admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}
