package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/steel-billing/internal/application/backup"
	"github.com/jhoicas/steel-billing/internal/application/dto"
)

// BackupHandler respaldo, exportación y borrado de datos.
type BackupHandler struct {
	uc *backup.UseCase
}

// NewBackupHandler construye el handler.
func NewBackupHandler(uc *backup.UseCase) *BackupHandler {
	return &BackupHandler{uc: uc}
}

// Create POST /api/backups
func (h *BackupHandler) Create(c *fiber.Ctx) error {
	out, err := h.uc.CreateBackup(c.Context())
	if err != nil {
		return respondError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Restore POST /api/backups/restore
func (h *BackupHandler) Restore(c *fiber.Ctx) error {
	var in dto.RestoreBackupRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.Restore(c.Context(), in.Name); err != nil {
		return respondError(c, err, "backup file not found")
	}
	return c.JSON(dto.MessageResponse{Message: "data restored"})
}

// Export GET /api/export
func (h *BackupHandler) Export(c *fiber.Ctx) error {
	out, err := h.uc.Export(c.Context())
	if err != nil {
		return respondError(c, err, "")
	}
	c.Attachment("steel_billing_export.json")
	return c.JSON(out)
}

// Stats GET /api/stats
func (h *BackupHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context())
	if err != nil {
		return respondError(c, err, "")
	}
	return c.JSON(out)
}

// ClearAll DELETE /api/data
func (h *BackupHandler) ClearAll(c *fiber.Ctx) error {
	if err := h.uc.ClearAll(c.Context()); err != nil {
		return respondError(c, err, "")
	}
	return c.JSON(dto.MessageResponse{Message: "all data cleared"})
}
