package dto

// CompanyRequest body para PUT /api/company.
type CompanyRequest struct {
	Name                string `json:"name"`
	Address             string `json:"address"`
	City                string `json:"city"`
	County              string `json:"county"`
	PostalCode          string `json:"postal_code"`
	Country             string `json:"country"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	Website             string `json:"website"`
	VATNumber           string `json:"vat_number"`
	CompanyRegistration string `json:"company_registration"`
	BankName            string `json:"bank_name"`
	BankAccount         string `json:"bank_account"`
	BankSortCode        string `json:"bank_sort_code"`
	IBAN                string `json:"iban"`
}

// CompanyResponse datos de la empresa; Configured=false si aún no se ha guardado.
type CompanyResponse struct {
	CompanyRequest
	Configured bool `json:"configured"`
}
