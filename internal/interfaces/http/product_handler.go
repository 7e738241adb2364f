package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/steel-billing/internal/application/catalog"
	"github.com/jhoicas/steel-billing/internal/application/dto"
)

// ProductHandler maneja las peticiones HTTP del catálogo de productos.
type ProductHandler struct {
	uc *catalog.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err, "product not found")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/products?search=&category=&active=true
func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := catalog.ProductFilter{
		Search:     c.Query("search"),
		Category:   c.Query("category"),
		ActiveOnly: c.QueryBool("active", false),
	}
	list, err := h.uc.List(c.Context(), f)
	if err != nil {
		return respondError(c, err, "")
	}
	return c.JSON(list)
}

// Get GET /api/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "product not found")
	}
	return c.JSON(out)
}

// Update PUT /api/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err, "product not found")
	}
	return c.JSON(out)
}

// Delete DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err, "product not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
