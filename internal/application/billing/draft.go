package billing

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// Clock devuelve la hora actual (inyectable en tests).
type Clock func() time.Time

// InvoiceDraft contexto de edición de una factura. Acumula cambios sobre una copia
// privada; la factura se confirma con Invoice() y se guarda con InvoiceUseCase.
// No es seguro para uso concurrente.
type InvoiceDraft struct {
	inv   *entity.Invoice
	clock Clock
}

// NewInvoiceDraft crea una factura nueva con los valores por defecto:
// emisión hoy, vencimiento a 30 días, estado Draft, plazo "30 days".
func NewInvoiceDraft(clock Clock, vatRate decimal.Decimal) *InvoiceDraft {
	if clock == nil {
		clock = time.Now
	}
	now := clock()
	today := entity.DateOnly(now)
	return &InvoiceDraft{
		clock: clock,
		inv: &entity.Invoice{
			ID:           uuid.New().String(),
			IssueDate:    today,
			DueDate:      today.AddDate(0, 0, entity.DefaultDueDays),
			Status:       entity.InvoiceStatusDraft,
			VATRate:      vatRate,
			PaymentTerms: entity.DefaultPaymentTerms,
			CreatedDate:  now,
			LastModified: now,
		},
	}
}

// EditInvoice abre un borrador sobre una copia de una factura guardada.
func EditInvoice(inv *entity.Invoice, clock Clock) *InvoiceDraft {
	if clock == nil {
		clock = time.Now
	}
	return &InvoiceDraft{inv: inv.Clone(), clock: clock}
}

// DueDays interpreta el número inicial del plazo de pago ("30 days" → 30).
// Si no hay número devuelve 30.
func DueDays(paymentTerms string) int {
	fields := strings.Fields(paymentTerms)
	if len(fields) == 0 {
		return entity.DefaultDueDays
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return entity.DefaultDueDays
	}
	return n
}

func (d *InvoiceDraft) touch() { d.inv.LastModified = d.clock() }

func (d *InvoiceDraft) recomputeDueDate() {
	d.inv.DueDate = d.inv.IssueDate.AddDate(0, 0, DueDays(d.inv.PaymentTerms))
}

// ID identificador de la factura en edición.
func (d *InvoiceDraft) ID() string { return d.inv.ID }

// SetClient copia id, nombre y plazo de pago del cliente y recalcula el vencimiento.
func (d *InvoiceDraft) SetClient(c *entity.Client) {
	d.inv.ClientID = c.ID
	d.inv.ClientName = c.Name
	if c.PaymentTerms != "" {
		d.inv.PaymentTerms = c.PaymentTerms
	}
	d.recomputeDueDate()
	d.touch()
}

// SetIssueDate cambia la fecha de emisión y recalcula el vencimiento según el plazo.
func (d *InvoiceDraft) SetIssueDate(t time.Time) {
	d.inv.IssueDate = entity.DateOnly(t)
	d.recomputeDueDate()
	d.touch()
}

// SetDueDate fija el vencimiento explícitamente.
func (d *InvoiceDraft) SetDueDate(t time.Time) {
	d.inv.DueDate = entity.DateOnly(t)
	d.touch()
}

// SetPaymentTerms cambia el plazo de pago y recalcula el vencimiento.
func (d *InvoiceDraft) SetPaymentTerms(terms string) {
	d.inv.PaymentTerms = terms
	d.recomputeDueDate()
	d.touch()
}

// SetNumber fija el número de factura (vacío = se asigna al guardar).
func (d *InvoiceDraft) SetNumber(number string) {
	d.inv.InvoiceNumber = strings.TrimSpace(number)
	d.touch()
}

// SetStatus cambia el estado. Cualquier transición está permitida.
func (d *InvoiceDraft) SetStatus(s entity.InvoiceStatus) {
	d.inv.Status = s
	d.touch()
}

// AddItem agrega una línea al final.
func (d *InvoiceDraft) AddItem(item entity.InvoiceItem) {
	d.inv.Items = append(d.inv.Items, item)
	d.touch()
}

// RemoveItem elimina la línea en la posición index. Fuera de rango no hace nada y devuelve false.
func (d *InvoiceDraft) RemoveItem(index int) bool {
	if index < 0 || index >= len(d.inv.Items) {
		return false
	}
	d.inv.Items = append(d.inv.Items[:index:index], d.inv.Items[index+1:]...)
	d.touch()
	return true
}

// ClearItems elimina todas las líneas.
func (d *InvoiceDraft) ClearItems() {
	d.inv.Items = nil
	d.touch()
}

// Items copia de las líneas actuales.
func (d *InvoiceDraft) Items() []entity.InvoiceItem {
	out := make([]entity.InvoiceItem, len(d.inv.Items))
	copy(out, d.inv.Items)
	return out
}

// SetCharges fija los cargos adicionales.
func (d *InvoiceDraft) SetCharges(shipping, handling, other decimal.Decimal, otherDescription string) {
	d.inv.ShippingCost = shipping
	d.inv.HandlingCost = handling
	d.inv.OtherCharges = other
	d.inv.OtherChargesDescription = otherDescription
	d.touch()
}

// SetGlobalDiscount fija el descuento global (porcentaje y fijo).
func (d *InvoiceDraft) SetGlobalDiscount(percentage, amount decimal.Decimal) {
	d.inv.GlobalDiscountPercentage = percentage
	d.inv.GlobalDiscountAmount = amount
	d.touch()
}

// SetVAT fija el tipo de IVA y el número de IVA mostrado en la factura.
func (d *InvoiceDraft) SetVAT(rate decimal.Decimal, vatNumber string) {
	d.inv.VATRate = rate
	d.inv.VATNumber = vatNumber
	d.touch()
}

// SetNotes fija las notas de la factura.
func (d *InvoiceDraft) SetNotes(notes string) {
	d.inv.Notes = notes
	d.touch()
}

// Totals calcula los importes con el estado actual (nunca se cachean).
func (d *InvoiceDraft) Totals() pricing.InvoiceTotals {
	return pricing.ComputeInvoiceTotals(d.inv)
}

// Invoice devuelve una copia de la factura en edición.
func (d *InvoiceDraft) Invoice() *entity.Invoice {
	return d.inv.Clone()
}

// ItemInput datos de una línea elegidos por el usuario. Los punteros nil se completan
// con los datos del producto.
type ItemInput struct {
	Description         *string
	Quantity            decimal.Decimal
	UnitPrice           *decimal.Decimal
	CutsRequired        int
	CuttingChargePerCut *decimal.Decimal
	DiscountPercentage  decimal.Decimal
	DiscountAmount      decimal.Decimal
}

// NewItemFromProduct construye una línea copiando el nombre del producto.
// Un producto que no admite corte no lleva cortes ni cargo por corte.
func NewItemFromProduct(p *entity.Product, in ItemInput) entity.InvoiceItem {
	item := entity.InvoiceItem{
		ProductID:          p.ID,
		ProductName:        p.Name,
		Description:        p.Description,
		Quantity:           in.Quantity,
		UnitPrice:          p.BasePrice,
		DiscountPercentage: in.DiscountPercentage,
		DiscountAmount:     in.DiscountAmount,
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.UnitPrice != nil {
		item.UnitPrice = *in.UnitPrice
	}
	if p.IsCuttable {
		item.CutsRequired = in.CutsRequired
		item.CuttingChargePerCut = p.CuttingCharge
		if in.CuttingChargePerCut != nil {
			item.CuttingChargePerCut = *in.CuttingChargePerCut
		}
	}
	return item
}
