package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCountry país por defecto de clientes y empresa.
const DefaultCountry = "Ireland"

// Client representa un cliente al que se factura.
type Client struct {
	ID            string
	Name          string
	ContactPerson string
	Address       string
	City          string
	County        string
	PostalCode    string // Eircode
	Country       string
	Phone         string
	Email         string
	VATNumber     string
	PaymentTerms  string
	CreditLimit   decimal.Decimal
	Notes         string
	CreatedDate   time.Time
}
