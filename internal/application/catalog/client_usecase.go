// Package catalog contiene los casos de uso del maestro de clientes y productos.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/steel-billing/internal/application/dto"
	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/repository"
	"github.com/jhoicas/steel-billing/pkg/logger"
	"github.com/jhoicas/steel-billing/pkg/validation"
)

// TimestampLayout formato de created_date en las respuestas.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// ClientUseCase casos de uso CRUD para clientes.
type ClientUseCase struct {
	repo  repository.ClientRepository
	clock func() time.Time
	log   *logger.Logger
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, log *logger.Logger) *ClientUseCase {
	return &ClientUseCase{repo: repo, clock: time.Now, log: log.Component("clients")}
}

func validateClient(in dto.ClientRequest) error {
	return domain.Invalid(
		validation.Required(in.Name, "name"),
		validation.Field("email", validation.Email(in.Email)),
		validation.Field("phone", validation.Phone(in.Phone)),
		validation.Field("vat_number", validation.VATNumber(in.VATNumber)),
		validation.Field("postal_code", validation.Eircode(in.PostalCode)),
		validation.Field("credit_limit", validation.NonNegative(in.CreditLimit)),
	)
}

// Create da de alta un cliente con ID nuevo. País y plazo de pago vacíos toman los valores por defecto.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if err := validateClient(in); err != nil {
		return nil, err
	}
	c := &entity.Client{ID: uuid.New().String(), CreatedDate: uc.clock()}
	applyClient(c, in)
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.log.Info().Str("client_id", c.ID).Str("name", c.Name).Msg("cliente creado")
	return ToClientResponse(c), nil
}

// Get obtiene un cliente o domain.ErrNotFound.
func (uc *ClientUseCase) Get(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return ToClientResponse(c), nil
}

// List devuelve los clientes ordenados por nombre. search filtra por nombre, ciudad o
// persona de contacto sin distinguir mayúsculas.
func (uc *ClientUseCase) List(ctx context.Context, search string) ([]dto.ClientResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: listar clientes: %w", err)
	}
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		if q != "" && !containsAny(q, c.Name, c.City, c.ContactPerson) {
			continue
		}
		out = append(out, *ToClientResponse(c))
	}
	sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

// Update reemplaza los datos del cliente conservando ID y fecha de alta.
// Las facturas existentes mantienen su copia del nombre.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if err := validateClient(in); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	applyClient(c, in)
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return ToClientResponse(c), nil
}

// Delete elimina el cliente.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("client_id", id).Msg("cliente eliminado")
	return nil
}

func applyClient(c *entity.Client, in dto.ClientRequest) {
	c.Name = strings.TrimSpace(in.Name)
	c.ContactPerson = in.ContactPerson
	c.Address = in.Address
	c.City = in.City
	c.County = in.County
	c.PostalCode = strings.ToUpper(in.PostalCode)
	c.Country = in.Country
	if c.Country == "" {
		c.Country = entity.DefaultCountry
	}
	c.Phone = in.Phone
	c.Email = in.Email
	c.VATNumber = strings.ToUpper(in.VATNumber)
	c.PaymentTerms = in.PaymentTerms
	if c.PaymentTerms == "" {
		c.PaymentTerms = entity.DefaultPaymentTerms
	}
	c.CreditLimit = in.CreditLimit
	c.Notes = in.Notes
}

// ToClientResponse convierte el cliente a DTO.
func ToClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:            c.ID,
		Name:          c.Name,
		ContactPerson: c.ContactPerson,
		Address:       c.Address,
		City:          c.City,
		County:        c.County,
		PostalCode:    c.PostalCode,
		Country:       c.Country,
		Phone:         c.Phone,
		Email:         c.Email,
		VATNumber:     c.VATNumber,
		PaymentTerms:  c.PaymentTerms,
		CreditLimit:   c.CreditLimit,
		Notes:         c.Notes,
		CreatedDate:   c.CreatedDate.Format(TimestampLayout),
	}
}

func containsAny(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
