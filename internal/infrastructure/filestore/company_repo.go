package filestore

import (
	"context"

	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/repository"
)

// CompanyRepo implementa repository.CompanyRepository sobre company.json.
type CompanyRepo struct{ s *Store }

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// Get devuelve (nil, nil) si la empresa no tiene nombre (no configurada).
func (r *CompanyRepo) Get(ctx context.Context) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rec companyRecord
	if err := r.s.load(CompanyFile, &rec); err != nil {
		return nil, err
	}
	if rec.Name == "" {
		return nil, nil
	}
	return rec.toEntity(), nil
}

// Save reemplaza los datos de la empresa.
func (r *CompanyRepo) Save(ctx context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.save(CompanyFile, companyToRecord(c))
}
