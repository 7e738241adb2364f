package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/steel-billing/internal/application/dto"
	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/repository"
	"github.com/jhoicas/steel-billing/pkg/format"
	"github.com/jhoicas/steel-billing/pkg/logger"
	"github.com/jhoicas/steel-billing/pkg/validation"
)

// ProductFilter criterios del listado de productos.
type ProductFilter struct {
	Search     string // nombre, grado o dimensiones
	Category   string
	ActiveOnly bool
}

// ProductUseCase casos de uso CRUD para productos del catálogo.
type ProductUseCase struct {
	repo repository.ProductRepository
	log  *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, log: log.Component("products")}
}

func validateProduct(in dto.ProductRequest) error {
	errs := []error{
		validation.Required(in.Name, "name"),
		validation.Field("base_price", validation.NonNegative(in.BasePrice)),
		validation.Field("cutting_charge", validation.NonNegative(in.CuttingCharge)),
		validation.Field("weight_per_unit", validation.NonNegative(in.WeightPerUnit)),
	}
	if in.Category != "" && !slices.Contains(entity.ProductCategories, in.Category) {
		errs = append(errs, validation.Field("category", fmt.Errorf("unknown category %q", in.Category)))
	}
	if in.Finish != "" && !slices.Contains(entity.ProductFinishes, in.Finish) {
		errs = append(errs, validation.Field("finish", fmt.Errorf("unknown finish %q", in.Finish)))
	}
	if in.StockQuantity < 0 {
		errs = append(errs, validation.Field("stock_quantity", validation.ErrNegative))
	}
	if in.MinOrderQuantity != nil && *in.MinOrderQuantity < 1 {
		errs = append(errs, validation.Field("min_order_quantity", errors.New("must be at least 1")))
	}
	return domain.Invalid(errs...)
}

// Create da de alta un producto. Los campos opcionales ausentes toman los valores por defecto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	p := &entity.Product{
		ID:               uuid.New().String(),
		Category:         entity.DefaultProductCategory,
		UnitOfMeasure:    entity.DefaultUnitOfMeasure,
		Finish:           entity.DefaultFinish,
		MinOrderQuantity: 1,
		IsCuttable:       true,
		IsActive:         true,
	}
	applyProduct(p, in)
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", p.ID).Str("name", p.Name).Msg("producto creado")
	return ToProductResponse(p), nil
}

// Get obtiene un producto o domain.ErrNotFound.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(p), nil
}

// List devuelve los productos que cumplen el filtro, ordenados por categoría y nombre.
func (uc *ProductUseCase) List(ctx context.Context, f ProductFilter) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: listar productos: %w", err)
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if q != "" && !containsAny(q, p.Name, p.Grade, p.Dimensions) {
			continue
		}
		out = append(out, *ToProductResponse(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Update reemplaza los datos del producto. Los punteros nil conservan el valor guardado.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	applyProduct(p, in)
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return ToProductResponse(p), nil
}

// Delete elimina el producto. Las facturas conservan su copia del nombre.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("product_id", id).Msg("producto eliminado")
	return nil
}

func applyProduct(p *entity.Product, in dto.ProductRequest) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	if in.Category != "" {
		p.Category = in.Category
	}
	p.Grade = in.Grade
	p.Dimensions = in.Dimensions
	p.WeightPerUnit = in.WeightPerUnit
	p.BasePrice = in.BasePrice
	p.CuttingCharge = in.CuttingCharge
	if in.UnitOfMeasure != "" {
		p.UnitOfMeasure = in.UnitOfMeasure
	}
	if in.Finish != "" {
		p.Finish = in.Finish
	}
	p.StockQuantity = in.StockQuantity
	if in.MinOrderQuantity != nil {
		p.MinOrderQuantity = *in.MinOrderQuantity
	}
	if in.IsCuttable != nil {
		p.IsCuttable = *in.IsCuttable
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

// ToProductResponse convierte el producto a DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		Category:            p.Category,
		Grade:               p.Grade,
		Dimensions:          p.Dimensions,
		DimensionsFormatted: format.Dimensions(p.Dimensions),
		WeightPerUnit:       p.WeightPerUnit,
		BasePrice:           p.BasePrice,
		CuttingCharge:       p.CuttingCharge,
		UnitOfMeasure:       p.UnitOfMeasure,
		Finish:              p.Finish,
		StockQuantity:       p.StockQuantity,
		MinOrderQuantity:    p.MinOrderQuantity,
		IsCuttable:          p.IsCuttable,
		IsActive:            p.IsActive,
	}
}
