package repository

import (
	"context"

	"github.com/jhoicas/steel-billing/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice con sus ítems.
// La factura se guarda siempre completa: nunca hay actualizaciones parciales.
type InvoiceRepository interface {
	// Create devuelve domain.ErrDuplicate si el número de factura ya existe.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// List devuelve todas las facturas, más recientes primero (created_date desc).
	List(ctx context.Context) ([]*entity.Invoice, error)
	// ListNumbers devuelve los números de todas las facturas almacenadas.
	ListNumbers(ctx context.Context) ([]string, error)
	// Update reemplaza la factura conservando ID y CreatedDate.
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id string) error
}

// InvoiceCreationRunner serializa la creación de facturas: la lectura de números
// existentes y la inserción ocurren dentro de fn sin que otro escritor intervenga.
type InvoiceCreationRunner interface {
	RunInvoiceCreation(ctx context.Context, fn func(repo InvoiceRepository) error) error
}

// DataResetter vacía todos los datos del almacén (empresa, clientes, productos, facturas).
type DataResetter interface {
	ClearAll(ctx context.Context) error
}
