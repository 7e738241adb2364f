package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL (fila única id=1).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para la empresa.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Get devuelve (nil, nil) si la empresa aún no fue configurada.
func (r *CompanyRepo) Get(ctx context.Context) (*entity.Company, error) {
	query := `
		SELECT name, address, city, county, postal_code, country, phone, email, website,
		       vat_number, company_registration, bank_name, bank_account, bank_sort_code, iban
		FROM company WHERE id = 1`
	var c entity.Company
	err := r.q.QueryRow(ctx, query).Scan(
		&c.Name, &c.Address, &c.City, &c.County, &c.PostalCode, &c.Country, &c.Phone, &c.Email, &c.Website,
		&c.VATNumber, &c.CompanyRegistration, &c.BankName, &c.BankAccount, &c.BankSortCode, &c.IBAN,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// Save reemplaza el registro completo (upsert).
func (r *CompanyRepo) Save(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO company (id, name, address, city, county, postal_code, country, phone, email, website,
		                     vat_number, company_registration, bank_name, bank_account, bank_sort_code, iban)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, address = EXCLUDED.address, city = EXCLUDED.city,
			county = EXCLUDED.county, postal_code = EXCLUDED.postal_code, country = EXCLUDED.country,
			phone = EXCLUDED.phone, email = EXCLUDED.email, website = EXCLUDED.website,
			vat_number = EXCLUDED.vat_number, company_registration = EXCLUDED.company_registration,
			bank_name = EXCLUDED.bank_name, bank_account = EXCLUDED.bank_account,
			bank_sort_code = EXCLUDED.bank_sort_code, iban = EXCLUDED.iban`
	_, err := r.q.Exec(ctx, query,
		c.Name, c.Address, c.City, c.County, c.PostalCode, c.Country, c.Phone, c.Email, c.Website,
		c.VATNumber, c.CompanyRegistration, c.BankName, c.BankAccount, c.BankSortCode, c.IBAN,
	)
	if err != nil {
		return fmt.Errorf("save company: %w", err)
	}
	return nil
}
