package dto

import "github.com/shopspring/decimal"

// ClientRequest body para POST /api/clients y PUT /api/clients/:id.
type ClientRequest struct {
	Name          string          `json:"name"`
	ContactPerson string          `json:"contact_person"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	County        string          `json:"county"`
	PostalCode    string          `json:"postal_code"`
	Country       string          `json:"country"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	VATNumber     string          `json:"vat_number"`
	PaymentTerms  string          `json:"payment_terms"`
	CreditLimit   decimal.Decimal `json:"credit_limit"`
	Notes         string          `json:"notes"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ContactPerson string          `json:"contact_person"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	County        string          `json:"county"`
	PostalCode    string          `json:"postal_code"`
	Country       string          `json:"country"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	VATNumber     string          `json:"vat_number"`
	PaymentTerms  string          `json:"payment_terms"`
	CreditLimit   decimal.Decimal `json:"credit_limit"`
	Notes         string          `json:"notes"`
	CreatedDate   string          `json:"created_date"`
}
