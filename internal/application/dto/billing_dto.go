package dto

import "github.com/shopspring/decimal"

// InvoiceItemRequest línea de factura.
// Si ProductID viene informado, los campos opcionales (nil / vacíos) se completan con
// los datos del producto: nombre, descripción, precio base y cargo por corte. Al editar
// una factura que ya tenía ese producto se completan con los de la línea guardada.
type InvoiceItemRequest struct {
	ProductID           string           `json:"product_id"`
	ProductName         string           `json:"product_name,omitempty"`
	Description         *string          `json:"description,omitempty"`
	Quantity            decimal.Decimal  `json:"quantity"`
	UnitPrice           *decimal.Decimal `json:"unit_price,omitempty"`
	CutsRequired        int              `json:"cuts_required"`
	CuttingChargePerCut *decimal.Decimal `json:"cutting_charge_per_cut,omitempty"`
	DiscountPercentage  decimal.Decimal  `json:"discount_percentage"`
	DiscountAmount      decimal.Decimal  `json:"discount_amount"`
}

// InvoiceRequest body para POST /api/invoices, PUT /api/invoices/:id y POST /api/invoices/preview.
// Fechas en formato YYYY-MM-DD; vacías = valores por defecto (hoy / hoy + plazo de pago).
type InvoiceRequest struct {
	InvoiceNumber            string               `json:"invoice_number,omitempty"` // vacío = se asigna al guardar
	ClientID                 string               `json:"client_id"`
	IssueDate                string               `json:"issue_date,omitempty"`
	DueDate                  string               `json:"due_date,omitempty"`
	Status                   string               `json:"status,omitempty"`
	Items                    []InvoiceItemRequest `json:"items"`
	ShippingCost             decimal.Decimal      `json:"shipping_cost"`
	HandlingCost             decimal.Decimal      `json:"handling_cost"`
	OtherCharges             decimal.Decimal      `json:"other_charges"`
	OtherChargesDescription  string               `json:"other_charges_description,omitempty"`
	GlobalDiscountPercentage decimal.Decimal      `json:"global_discount_percentage"`
	GlobalDiscountAmount     decimal.Decimal      `json:"global_discount_amount"`
	VATRate                  *decimal.Decimal     `json:"vat_rate,omitempty"`
	VATNumber                string               `json:"vat_number,omitempty"`
	PaymentTerms             string               `json:"payment_terms,omitempty"`
	Notes                    string               `json:"notes,omitempty"`
}

// UpdateInvoiceStatusRequest body para PATCH /api/invoices/:id/status.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status"`
}

// InvoiceItemResponse línea de factura con sus importes derivados.
type InvoiceItemResponse struct {
	ProductID               string          `json:"product_id"`
	ProductName             string          `json:"product_name"`
	Description             string          `json:"description"`
	Quantity                decimal.Decimal `json:"quantity"`
	UnitPrice               decimal.Decimal `json:"unit_price"`
	CutsRequired            int             `json:"cuts_required"`
	CuttingChargePerCut     decimal.Decimal `json:"cutting_charge_per_cut"`
	DiscountPercentage      decimal.Decimal `json:"discount_percentage"`
	DiscountAmount          decimal.Decimal `json:"discount_amount"`
	LineTotalBeforeDiscount decimal.Decimal `json:"line_total_before_discount"`
	TotalDiscount           decimal.Decimal `json:"total_discount"`
	LineTotal               decimal.Decimal `json:"line_total"`
}

// InvoiceTotalsResponse los siete importes de la factura.
type InvoiceTotalsResponse struct {
	Subtotal                  decimal.Decimal `json:"subtotal"`
	AdditionalChargesTotal    decimal.Decimal `json:"additional_charges_total"`
	TotalBeforeGlobalDiscount decimal.Decimal `json:"total_before_global_discount"`
	GlobalDiscountTotal       decimal.Decimal `json:"global_discount_total"`
	TotalBeforeVAT            decimal.Decimal `json:"total_before_vat"`
	VATAmount                 decimal.Decimal `json:"vat_amount"`
	TotalAmount               decimal.Decimal `json:"total_amount"`
}

// InvoiceResponse factura completa para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID                       string                `json:"id"`
	InvoiceNumber            string                `json:"invoice_number"`
	ClientID                 string                `json:"client_id"`
	ClientName               string                `json:"client_name"`
	IssueDate                string                `json:"issue_date"`
	DueDate                  string                `json:"due_date"`
	Status                   string                `json:"status"`
	Items                    []InvoiceItemResponse `json:"items"`
	ShippingCost             decimal.Decimal       `json:"shipping_cost"`
	HandlingCost             decimal.Decimal       `json:"handling_cost"`
	OtherCharges             decimal.Decimal       `json:"other_charges"`
	OtherChargesDescription  string                `json:"other_charges_description"`
	GlobalDiscountPercentage decimal.Decimal       `json:"global_discount_percentage"`
	GlobalDiscountAmount     decimal.Decimal       `json:"global_discount_amount"`
	VATRate                  decimal.Decimal       `json:"vat_rate"`
	VATNumber                string                `json:"vat_number"`
	PaymentTerms             string                `json:"payment_terms"`
	Notes                    string                `json:"notes"`
	CreatedDate              string                `json:"created_date"`
	LastModified             string                `json:"last_modified"`
	Totals                   InvoiceTotalsResponse `json:"totals"`
}

// InvoiceSummaryResponse fila del historial de facturas.
type InvoiceSummaryResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientID      string          `json:"client_id"`
	ClientName    string          `json:"client_name"`
	IssueDate     string          `json:"issue_date"`
	DueDate       string          `json:"due_date"`
	Status        string          `json:"status"`
	ItemsCount    int             `json:"items_count"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// InvoiceHistorySummary totales del historial filtrado.
type InvoiceHistorySummary struct {
	Count       int             `json:"count"`
	TotalValue  decimal.Decimal `json:"total_value"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"` // Sent + Overdue
}

// InvoiceListResponse respuesta de GET /api/invoices.
type InvoiceListResponse struct {
	Items   []InvoiceSummaryResponse `json:"items"`
	Summary InvoiceHistorySummary    `json:"summary"`
}

// NextInvoiceNumberResponse respuesta de GET /api/invoices/next-number.
type NextInvoiceNumberResponse struct {
	InvoiceNumber string `json:"invoice_number"`
}
