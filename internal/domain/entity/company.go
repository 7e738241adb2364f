package entity

// Company datos del emisor de las facturas (registro único).
type Company struct {
	Name                string
	Address             string
	City                string
	County              string
	PostalCode          string
	Country             string
	Phone               string
	Email               string
	Website             string
	VATNumber           string
	CompanyRegistration string
	BankName            string
	BankAccount         string
	BankSortCode        string
	IBAN                string
}

// Configured indica si la empresa ya fue configurada (tiene nombre).
func (c *Company) Configured() bool {
	return c != nil && c.Name != ""
}
