package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/steel-billing/internal/application/billing"
	"github.com/jhoicas/steel-billing/internal/application/dto"
	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
)

const invoiceNotFound = "invoice not found"

// InvoiceHandler maneja las peticiones HTTP de facturación.
type InvoiceHandler struct {
	uc   *billing.InvoiceUseCase
	docs *billing.DocumentUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, docs *billing.DocumentUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, docs: docs}
}

// Create godoc
// @Summary      Crear factura
// @Description  Asigna el número INV-<año>-<seq> si no se indica y calcula los importes.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InvoiceRequest  true  "factura"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err, "client or product not found")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// historyFilter lee los filtros del historial desde la query string.
func historyFilter(c *fiber.Ctx) (billing.HistoryFilter, error) {
	f := billing.HistoryFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Range:  billing.DateRange(c.Query("range")),
		Sort:   billing.SortOrder(c.Query("sort")),
	}
	for _, p := range []struct {
		key string
		dst *time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		v := c.Query(p.key)
		if v == "" {
			continue
		}
		t, err := time.Parse(entity.DateLayout, v)
		if err != nil {
			return f, fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrInvalidInput, p.key)
		}
		*p.dst = t
	}
	return f, nil
}

// List godoc
// @Summary      Historial de facturas
// @Tags         invoices
// @Produce      json
// @Param        search  query  string  false  "número o cliente"
// @Param        status  query  string  false  "Draft|Sent|Paid|Overdue|Cancelled"
// @Param        range   query  string  false  "all|last30|last90|this_year|custom"
// @Param        from    query  string  false  "YYYY-MM-DD (custom)"
// @Param        to      query  string  false  "YYYY-MM-DD (custom)"
// @Param        sort    query  string  false  "date_desc|date_asc|amount_desc|amount_asc|status|client"
// @Success      200  {object}  dto.InvoiceListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	f, err := historyFilter(c)
	if err != nil {
		return respondError(c, err, "")
	}
	out, err := h.uc.List(c.Context(), f)
	if err != nil {
		return respondError(c, err, "")
	}
	return c.JSON(out)
}

// ExportCSV GET /api/invoices/export.csv?encoding=windows-1252 (mismos filtros que List)
func (h *InvoiceHandler) ExportCSV(c *fiber.Ctx) error {
	f, err := historyFilter(c)
	if err != nil {
		return respondError(c, err, "")
	}
	enc := c.Query("encoding", billing.EncodingUTF8)
	var buf bytes.Buffer
	if err := h.uc.ExportCSV(c.Context(), f, enc, &buf); err != nil {
		return respondError(c, err, "")
	}
	c.Attachment("invoices.csv")
	c.Set(fiber.HeaderContentType, "text/csv; charset="+enc)
	return c.Send(buf.Bytes())
}

// NextNumber GET /api/invoices/next-number (no reserva el número)
func (h *InvoiceHandler) NextNumber(c *fiber.Ctx) error {
	number, err := h.uc.NextNumber(c.Context())
	if err != nil {
		return respondError(c, err, "")
	}
	return c.JSON(dto.NextInvoiceNumberResponse{InvoiceNumber: number})
}

// Preview POST /api/invoices/preview (calcula sin guardar)
func (h *InvoiceHandler) Preview(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Preview(c.Context(), in)
	if err != nil {
		return respondError(c, err, "client or product not found")
	}
	return c.JSON(out)
}

// Get GET /api/invoices/:id
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, invoiceNotFound)
	}
	return c.JSON(out)
}

// Update PUT /api/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err, invoiceNotFound)
	}
	return c.JSON(out)
}

// UpdateStatus PATCH /api/invoices/:id/status
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err, invoiceNotFound)
	}
	return c.JSON(out)
}

// Delete DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err, invoiceNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPDF godoc
// @Summary      Descargar factura en PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id   path      string  true  "ID de la factura"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.docs.DownloadInvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, invoiceNotFound)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdf)
}

// DownloadUBL godoc
// @Summary      Descargar factura UBL 2.1
// @Description  El header X-Document-Digest lleva el SHA-256 de la forma canónica.
// @Tags         invoices
// @Produce      application/xml
// @Param        id   path      string  true  "ID de la factura"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/ubl [get]
func (h *InvoiceHandler) DownloadUBL(c *fiber.Ctx) error {
	xml, digest, filename, err := h.docs.ExportInvoiceXML(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, invoiceNotFound)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set("X-Document-Digest", "sha-256="+digest)
	return c.Send(xml)
}
