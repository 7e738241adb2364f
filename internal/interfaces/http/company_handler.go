package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/steel-billing/internal/application/dto"
	"github.com/jhoicas/steel-billing/internal/application/setup"
)

// CompanyHandler datos de la empresa emisora.
type CompanyHandler struct {
	uc *setup.CompanyUseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *setup.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Get godoc
// @Summary      Datos de la empresa
// @Tags         company
// @Produce      json
// @Success      200  {object}  dto.CompanyResponse
// @Router       /api/company [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context())
	if err != nil {
		return respondError(c, err, "")
	}
	return c.JSON(out)
}

// Save godoc
// @Summary      Guardar datos de la empresa
// @Tags         company
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompanyRequest  true  "empresa"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/company [put]
func (h *CompanyHandler) Save(c *fiber.Ctx) error {
	var in dto.CompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Save(c.Context(), in)
	if err != nil {
		return respondError(c, err, "")
	}
	return c.JSON(out)
}
