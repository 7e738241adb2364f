package filestore

import (
	"context"
	"fmt"

	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/repository"
)

// ProductRepo implementa repository.ProductRepository sobre products.json.
type ProductRepo struct{ s *Store }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) read() ([]productRecord, error) {
	var recs []productRecord
	if err := r.s.load(ProductsFile, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := r.read()
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if rec.ID == p.ID {
			return fmt.Errorf("%w: producto %s", domain.ErrDuplicate, p.ID)
		}
	}
	return r.s.save(ProductsFile, append(recs, productToRecord(p)))
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
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

// List devuelve los productos en el orden del archivo.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := r.read()
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toEntity())
	}
	return out, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := r.read()
	if err != nil {
		return err
	}
	for i, rec := range recs {
		if rec.ID == p.ID {
			recs[i] = productToRecord(p)
			return r.s.save(ProductsFile, recs)
		}
	}
	return domain.ErrNotFound
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := r.read()
	if err != nil {
		return err
	}
	for i, rec := range recs {
		if rec.ID == id {
			return r.s.save(ProductsFile, append(recs[:i], recs[i+1:]...))
		}
	}
	return domain.ErrNotFound
}
