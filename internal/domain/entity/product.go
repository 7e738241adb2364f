package entity

import "github.com/shopspring/decimal"

// Valores por defecto del catálogo.
const (
	DefaultProductCategory = "Steel Bar"
	DefaultUnitOfMeasure   = "length"
	DefaultFinish          = "Hot Rolled"
)

// Categorías y acabados ofrecidos en el catálogo.
var (
	ProductCategories = []string{"Steel Bar", "Steel Plate", "Steel Beam", "Angle Iron", "Channel Steel", "Tube", "Other"}
	ProductFinishes   = []string{"Hot Rolled", "Cold Rolled", "Galvanized", "Painted", "Stainless", "Other"}
)

// Product representa un producto de acero del catálogo.
type Product struct {
	ID               string
	Name             string
	Description      string
	Category         string
	Grade            string // S355, S275, ...
	Dimensions       string // ej: "20x20x6000"
	WeightPerUnit    decimal.Decimal // kg
	BasePrice        decimal.Decimal // EUR por unidad
	CuttingCharge    decimal.Decimal // EUR por corte
	UnitOfMeasure    string          // length, weight, piece
	Finish           string
	StockQuantity    int
	MinOrderQuantity int
	IsCuttable       bool
	IsActive         bool
}
