package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/steel-billing/internal/application/analytics"
)

// DashboardHandler maneja el endpoint de la pantalla principal.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve clientes, productos, facturas del mes, ingresos cobrados y pendientes.
// GET /api/dashboard
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return respondError(c, err, "")
	}
	return c.JSON(summary)
}
