package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de la factura. Las transiciones no están restringidas:
// cualquier estado puede pasar a cualquier otro por acción explícita del usuario.
type InvoiceStatus string

// Estados de factura.
const (
	InvoiceStatusDraft     InvoiceStatus = "Draft"
	InvoiceStatusSent      InvoiceStatus = "Sent"
	InvoiceStatusPaid      InvoiceStatus = "Paid"
	InvoiceStatusOverdue   InvoiceStatus = "Overdue"
	InvoiceStatusCancelled InvoiceStatus = "Cancelled"
)

// InvoiceStatuses devuelve los estados en el orden en que se presentan al usuario.
func InvoiceStatuses() []InvoiceStatus {
	return []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusSent,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
		InvoiceStatusCancelled,
	}
}

// Valid indica si s es uno de los estados conocidos.
func (s InvoiceStatus) Valid() bool {
	for _, st := range InvoiceStatuses() {
		if s == st {
			return true
		}
	}
	return false
}

// Valores por defecto de una factura nueva.
const (
	DefaultPaymentTerms = "30 days"
	DefaultDueDays      = 30
)

// DateLayout formato de las fechas de factura (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// DateOnly trunca t a su fecha civil (medianoche UTC).
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DefaultVATRate tipo de IVA por defecto (Irlanda, tipo general).
var DefaultVATRate = decimal.NewFromInt(23)

// Invoice representa la factura completa tal como se persiste.
// ClientName es una copia del nombre del cliente al momento de facturar: la factura
// sigue siendo válida aunque el cliente se edite o elimine después.
type Invoice struct {
	ID                       string
	InvoiceNumber            string // INV-<año>-<secuencia de 3 dígitos>
	ClientID                 string
	ClientName               string
	IssueDate                time.Time
	DueDate                  time.Time
	Status                   InvoiceStatus
	Items                    []InvoiceItem
	ShippingCost             decimal.Decimal
	HandlingCost             decimal.Decimal
	OtherCharges             decimal.Decimal
	OtherChargesDescription  string
	GlobalDiscountPercentage decimal.Decimal // 0-100
	GlobalDiscountAmount     decimal.Decimal
	VATRate                  decimal.Decimal // porcentaje, ej: 23
	VATNumber                string
	PaymentTerms             string
	Notes                    string
	CreatedDate              time.Time
	LastModified             time.Time
}

// Clone devuelve una copia profunda (los ítems no se comparten).
func (inv *Invoice) Clone() *Invoice {
	if inv == nil {
		return nil
	}
	out := *inv
	if inv.Items != nil {
		out.Items = make([]InvoiceItem, len(inv.Items))
		copy(out.Items, inv.Items)
	}
	return &out
}
