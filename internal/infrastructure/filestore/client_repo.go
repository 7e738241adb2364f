package filestore

import (
	"context"
	"fmt"

	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/repository"
)

// ClientRepo implementa repository.ClientRepository sobre clients.json.
type ClientRepo struct{ s *Store }

var _ repository.ClientRepository = (*ClientRepo)(nil)

func (r *ClientRepo) read() ([]clientRecord, error) {
	var recs []clientRecord
	if err := r.s.load(ClientsFile, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := r.read()
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if rec.ID == c.ID {
			return fmt.Errorf("%w: cliente %s", domain.ErrDuplicate, c.ID)
		}
	}
	return r.s.save(ClientsFile, append(recs, clientToRecord(c)))
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
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

// List devuelve los clientes en el orden del archivo.
func (r *ClientRepo) List(ctx context.Context) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := r.read()
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Client, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toEntity())
	}
	return out, nil
}

func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := r.read()
	if err != nil {
		return err
	}
	for i, rec := range recs {
		if rec.ID == c.ID {
			recs[i] = clientToRecord(c)
			return r.s.save(ClientsFile, recs)
		}
	}
	return domain.ErrNotFound
}

func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs, err := r.read()
	if err != nil {
		return err
	}
	for i, rec := range recs {
		if rec.ID == id {
			return r.s.save(ClientsFile, append(recs[:i], recs[i+1:]...))
		}
	}
	return domain.ErrNotFound
}
