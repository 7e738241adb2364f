// Package pricing calcula los importes derivados de una factura: totales por línea
// (precio, cortes, descuentos) y la cadena de totales de la factura hasta el IVA.
//
// Las funciones son puras: no redondean (el redondeo es responsabilidad de la
// presentación) y no limitan los descuentos, de modo que un descuento mayor que
// la base produce un total negativo.
package pricing

import (
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LineItemTotals importes derivados de una línea de factura.
type LineItemTotals struct {
	LineTotalBeforeDiscount decimal.Decimal
	TotalDiscount           decimal.Decimal
	LineTotal               decimal.Decimal
}

// InvoiceTotals importes derivados de una factura, en el orden en que se calculan.
type InvoiceTotals struct {
	Subtotal                  decimal.Decimal
	AdditionalChargesTotal    decimal.Decimal
	TotalBeforeGlobalDiscount decimal.Decimal
	GlobalDiscountTotal       decimal.Decimal
	TotalBeforeVAT            decimal.Decimal
	VATAmount                 decimal.Decimal
	TotalAmount               decimal.Decimal
}

// percentOf devuelve base * pct / 100 sin pérdida de precisión.
func percentOf(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct.Shift(-2))
}

// ComputeLineItemTotals calcula:
//
//	antes de descuento = cantidad * precio + cortes * cargo por corte
//	descuento          = antes de descuento * pct/100 + descuento fijo
//	total              = antes de descuento - descuento
func ComputeLineItemTotals(item entity.InvoiceItem) LineItemTotals {
	cuts := decimal.NewFromInt(int64(item.CutsRequired))
	before := item.Quantity.Mul(item.UnitPrice).Add(cuts.Mul(item.CuttingChargePerCut))
	discount := percentOf(before, item.DiscountPercentage).Add(item.DiscountAmount)
	return LineItemTotals{
		LineTotalBeforeDiscount: before,
		TotalDiscount:           discount,
		LineTotal:               before.Sub(discount),
	}
}

// ComputeInvoiceTotals recorre la cadena subtotal → cargos → descuento global → IVA → total.
// Una factura nil o sin ítems produce subtotal cero.
func ComputeInvoiceTotals(inv *entity.Invoice) InvoiceTotals {
	if inv == nil {
		return InvoiceTotals{}
	}

	subtotal := decimal.Zero
	for _, it := range inv.Items {
		subtotal = subtotal.Add(ComputeLineItemTotals(it).LineTotal)
	}

	charges := inv.ShippingCost.Add(inv.HandlingCost).Add(inv.OtherCharges)
	beforeGlobal := subtotal.Add(charges)
	globalDiscount := percentOf(beforeGlobal, inv.GlobalDiscountPercentage).Add(inv.GlobalDiscountAmount)
	beforeVAT := beforeGlobal.Sub(globalDiscount)
	vat := percentOf(beforeVAT, inv.VATRate)

	return InvoiceTotals{
		Subtotal:                  subtotal,
		AdditionalChargesTotal:    charges,
		TotalBeforeGlobalDiscount: beforeGlobal,
		GlobalDiscountTotal:       globalDiscount,
		TotalBeforeVAT:            beforeVAT,
		VATAmount:                 vat,
		TotalAmount:               beforeVAT.Add(vat),
	}
}
