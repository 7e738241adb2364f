package repository

import (
	"context"

	"github.com/jhoicas/steel-billing/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// GetByID devuelve (nil, nil) si no existe; Update y Delete devuelven domain.ErrNotFound.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	List(ctx context.Context) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id string) error
}
