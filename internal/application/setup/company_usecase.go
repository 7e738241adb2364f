// Package setup contiene la configuración de la empresa emisora.
package setup

import (
	"context"
	"strings"

	"github.com/jhoicas/steel-billing/internal/application/dto"
	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/repository"
	"github.com/jhoicas/steel-billing/pkg/logger"
	"github.com/jhoicas/steel-billing/pkg/validation"
)

// CompanyUseCase lee y guarda los datos de la empresa (registro único).
type CompanyUseCase struct {
	repo repository.CompanyRepository
	log  *logger.Logger
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, log *logger.Logger) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, log: log.Component("company")}
}

// Get devuelve los datos guardados. Sin configurar devuelve Configured=false y país por defecto.
func (uc *CompanyUseCase) Get(ctx context.Context) (*dto.CompanyResponse, error) {
	c, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &dto.CompanyResponse{CompanyRequest: dto.CompanyRequest{Country: entity.DefaultCountry}}, nil
	}
	return toCompanyResponse(c), nil
}

// Save valida y reemplaza los datos de la empresa.
func (uc *CompanyUseCase) Save(ctx context.Context, in dto.CompanyRequest) (*dto.CompanyResponse, error) {
	err := domain.Invalid(
		validation.Required(in.Name, "name"),
		validation.Field("email", validation.Email(in.Email)),
		validation.Field("phone", validation.Phone(in.Phone)),
		validation.Field("vat_number", validation.VATNumber(in.VATNumber)),
		validation.Field("iban", validation.IBAN(in.IBAN)),
		validation.Field("postal_code", validation.Eircode(in.PostalCode)),
	)
	if err != nil {
		return nil, err
	}

	c := entity.Company(in)
	c.Name = strings.TrimSpace(c.Name)
	c.VATNumber = strings.ToUpper(c.VATNumber)
	c.PostalCode = strings.ToUpper(c.PostalCode)
	c.IBAN = strings.ToUpper(strings.ReplaceAll(c.IBAN, " ", ""))
	if c.Country == "" {
		c.Country = entity.DefaultCountry
	}
	if err := uc.repo.Save(ctx, &c); err != nil {
		return nil, err
	}
	uc.log.Info().Str("name", c.Name).Msg("datos de empresa guardados")
	return toCompanyResponse(&c), nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{CompanyRequest: dto.CompanyRequest(*c), Configured: c.Configured()}
}
