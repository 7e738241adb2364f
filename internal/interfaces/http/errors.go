package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/steel-billing/internal/application/dto"
	"github.com/jhoicas/steel-billing/internal/domain"
)

// localsError clave de Locals con el error interno que RequestLogger registra.
const localsError = "error"

// respondError traduce los errores de dominio a status HTTP + dto.ErrorResponse.
// notFound es el mensaje para domain.ErrNotFound; un domain.ReferenceError usa el suyo.
// Los errores internos no se exponen al cliente.
func respondError(c *fiber.Ctx, err error, notFound string) error {
	var ref *domain.ReferenceError
	switch {
	case errors.As(err, &ref):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: ref.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrCompanyNotConfigured):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "COMPANY_NOT_CONFIGURED", Message: "company details must be configured first"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFound})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid credentials"})
	case errors.Is(err, domain.ErrBackupUnavailable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BACKUP_UNAVAILABLE", Message: err.Error()})
	}
	c.Locals(localsError, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "internal server error"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
}
