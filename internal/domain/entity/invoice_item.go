package entity

import "github.com/shopspring/decimal"

// InvoiceItem línea de factura. No tiene identidad propia: se identifica por su posición.
// ProductName es una copia del nombre del producto al momento de agregar la línea.
type InvoiceItem struct {
	ProductID           string
	ProductName         string
	Description         string
	Quantity            decimal.Decimal
	UnitPrice           decimal.Decimal
	CutsRequired        int
	CuttingChargePerCut decimal.Decimal
	DiscountPercentage  decimal.Decimal // 0-100
	DiscountAmount      decimal.Decimal
}
