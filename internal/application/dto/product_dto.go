package dto

import "github.com/shopspring/decimal"

// ProductRequest body para POST /api/products y PUT /api/products/:id.
// Los punteros nil toman el valor por defecto del catálogo al crear.
type ProductRequest struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	Grade            string          `json:"grade"`
	Dimensions       string          `json:"dimensions"`
	WeightPerUnit    decimal.Decimal `json:"weight_per_unit"`
	BasePrice        decimal.Decimal `json:"base_price"`
	CuttingCharge    decimal.Decimal `json:"cutting_charge"`
	UnitOfMeasure    string          `json:"unit_of_measure"`
	Finish           string          `json:"finish"`
	StockQuantity    int             `json:"stock_quantity"`
	MinOrderQuantity *int            `json:"min_order_quantity,omitempty"`
	IsCuttable       *bool           `json:"is_cuttable,omitempty"`
	IsActive         *bool           `json:"is_active,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Category            string          `json:"category"`
	Grade               string          `json:"grade"`
	Dimensions          string          `json:"dimensions"`
	DimensionsFormatted string          `json:"dimensions_formatted"`
	WeightPerUnit       decimal.Decimal `json:"weight_per_unit"`
	BasePrice           decimal.Decimal `json:"base_price"`
	CuttingCharge       decimal.Decimal `json:"cutting_charge"`
	UnitOfMeasure       string          `json:"unit_of_measure"`
	Finish              string          `json:"finish"`
	StockQuantity       int             `json:"stock_quantity"`
	MinOrderQuantity    int             `json:"min_order_quantity"`
	IsCuttable          bool            `json:"is_cuttable"`
	IsActive            bool            `json:"is_active"`
}
