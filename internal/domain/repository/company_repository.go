package repository

import (
	"context"

	"github.com/jhoicas/steel-billing/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (registro único).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	// Get devuelve (nil, nil) si la empresa aún no fue configurada.
	Get(ctx context.Context) (*entity.Company, error)
	Save(ctx context.Context, company *entity.Company) error
}
