package filestore

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/repository"
)

// InvoiceRepo implementa repository.InvoiceRepository sobre invoices.json.
// Cada factura se guarda completa, con sus ítems embebidos.
type InvoiceRepo struct{ s *Store }

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

func (r *InvoiceRepo) read() ([]invoiceRecord, error) {
	var recs []invoiceRecord
	if err := r.s.load(InvoicesFile, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Create agrega la factura. Devuelve domain.ErrDuplicate si el ID o el número ya existen.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := r.read()
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if rec.ID == inv.ID {
			return fmt.Errorf("%w: factura %s", domain.ErrDuplicate, inv.ID)
		}
		if rec.InvoiceNumber == inv.InvoiceNumber {
			return fmt.Errorf("%w: número %s", domain.ErrDuplicate, inv.InvoiceNumber)
		}
	}
	return r.s.save(InvoicesFile, append(recs, invoiceToRecord(inv)))
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := r.read()
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.ID == id {
			return rec.toEntity(), nil
		}
	}
	return nil, nil
}

// List devuelve todas las facturas, más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context) ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	recs, err := r.read()
	r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Invoice, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toEntity())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedDate.After(out[j].CreatedDate) })
	return out, nil
}

func (r *InvoiceRepo) ListNumbers(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := r.read()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.InvoiceNumber)
	}
	return out, nil
}

// Update reemplaza la factura con el mismo ID. Rechaza un número que ya use otra factura.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := r.read()
	if err != nil {
		return err
	}
	idx := -1
	for i, rec := range recs {
		if rec.ID == inv.ID {
			idx = i
		} else if rec.InvoiceNumber == inv.InvoiceNumber {
			return fmt.Errorf("%w: número %s", domain.ErrDuplicate, inv.InvoiceNumber)
		}
	}
	if idx < 0 {
		return domain.ErrNotFound
	}
	recs[idx] = invoiceToRecord(inv)
	return r.s.save(InvoicesFile, recs)
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := r.read()
	if err != nil {
		return err
	}
	for i, rec := range recs {
		if rec.ID == id {
			return r.s.save(InvoicesFile, append(recs[:i], recs[i+1:]...))
		}
	}
	return domain.ErrNotFound
}
