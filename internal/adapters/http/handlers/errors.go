package handlers

import (
	"errors"
	"strings"

	"crm-leads/internal/core/domain"
	"crm-leads/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// errorResponder maps service errors onto the response envelope
type errorResponder struct {
	logger *zap.Logger
}

func (e errorResponder) fail(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return response.ErrorWithDetail(c, fiber.StatusBadRequest, verr.Message, strings.Join(verr.Fields, ","))
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, err.Error())
	default:
		e.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return response.InternalServerError(c, "Internal server error")
	}
}
