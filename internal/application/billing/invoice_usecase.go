package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/steel-billing/internal/application/dto"
	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/numbering"
	"github.com/jhoicas/steel-billing/internal/domain/pricing"
	"github.com/jhoicas/steel-billing/internal/domain/repository"
	"github.com/jhoicas/steel-billing/pkg/logger"
	"github.com/jhoicas/steel-billing/pkg/validation"
	"github.com/shopspring/decimal"
)

// maxNumberAttempts intentos de asignación de número ante un conflicto de unicidad.
const maxNumberAttempts = 3

// InvoiceUseCase casos de uso de facturas: alta, edición, estado, vista previa e historial.
type InvoiceUseCase struct {
	runner      repository.InvoiceCreationRunner
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	companyRepo repository.CompanyRepository
	vatRate     decimal.Decimal
	clock       Clock
	recorder    Recorder
	log         *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso. recorder puede ser nil.
func NewInvoiceUseCase(
	runner repository.InvoiceCreationRunner,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	companyRepo repository.CompanyRepository,
	vatRate decimal.Decimal,
	recorder Recorder,
	log *logger.Logger,
) *InvoiceUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &InvoiceUseCase{
		runner:      runner,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		companyRepo: companyRepo,
		vatRate:     vatRate,
		clock:       time.Now,
		recorder:    recorder,
		log:         log.Component("billing"),
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *InvoiceUseCase) WithClock(clock Clock) *InvoiceUseCase {
	uc.clock = clock
	return uc
}

// ── Construcción del borrador ────────────────────────────────────────────────

// BuildDraft valida la petición y construye el borrador resolviendo cliente y productos.
// base == nil crea una factura nueva; si no, edita una copia de base.
func (uc *InvoiceUseCase) BuildDraft(ctx context.Context, base *entity.Invoice, in dto.InvoiceRequest) (*InvoiceDraft, error) {
	var d *InvoiceDraft
	if base == nil {
		d = NewInvoiceDraft(uc.clock, uc.vatRate)
	} else {
		d = EditInvoice(base, uc.clock)
		d.ClearItems()
	}

	var errs []error

	if strings.TrimSpace(in.ClientID) == "" {
		errs = append(errs, validation.Required(in.ClientID, "client_id"))
	} else {
		client, err := uc.clientRepo.GetByID(ctx, in.ClientID)
		if err != nil {
			return nil, fmt.Errorf("billing: obtener cliente: %w", err)
		}
		switch {
		case client != nil:
			d.SetClient(client)
		case base != nil && base.ClientID == in.ClientID:
			// Cliente eliminado: la factura conserva la copia del nombre.
		default:
			return nil, &domain.ReferenceError{Kind: "client", ID: in.ClientID}
		}
	}
	if in.PaymentTerms != "" {
		d.SetPaymentTerms(in.PaymentTerms)
	}
	if in.IssueDate != "" {
		t, err := time.Parse(entity.DateLayout, in.IssueDate)
		if err != nil {
			errs = append(errs, validation.Field("issue_date", errors.New("expected YYYY-MM-DD")))
		} else {
			d.SetIssueDate(t)
		}
	}
	if in.DueDate != "" {
		t, err := time.Parse(entity.DateLayout, in.DueDate)
		if err != nil {
			errs = append(errs, validation.Field("due_date", errors.New("expected YYYY-MM-DD")))
		} else {
			d.SetDueDate(t)
		}
	}
	if in.Status != "" {
		st := entity.InvoiceStatus(in.Status)
		if !st.Valid() {
			errs = append(errs, validation.Field("status", fmt.Errorf("unknown status %q", in.Status)))
		} else {
			d.SetStatus(st)
		}
	}
	if in.InvoiceNumber != "" || base != nil {
		d.SetNumber(in.InvoiceNumber)
	}

	errs = append(errs,
		validation.Field("shipping_cost", validation.NonNegative(in.ShippingCost)),
		validation.Field("handling_cost", validation.NonNegative(in.HandlingCost)),
		validation.Field("other_charges", validation.NonNegative(in.OtherCharges)),
		validation.Field("global_discount_percentage", validation.Percentage(in.GlobalDiscountPercentage)),
		validation.Field("global_discount_amount", validation.NonNegative(in.GlobalDiscountAmount)),
	)
	d.SetCharges(in.ShippingCost, in.HandlingCost, in.OtherCharges, in.OtherChargesDescription)
	d.SetGlobalDiscount(in.GlobalDiscountPercentage, in.GlobalDiscountAmount)

	rate := d.inv.VATRate
	if in.VATRate != nil {
		rate = *in.VATRate
		errs = append(errs, validation.Field("vat_rate", validation.Percentage(rate)))
	}
	d.SetVAT(rate, in.VATNumber)
	d.SetNotes(in.Notes)

	// Copias de las líneas guardadas por producto, para editar aunque el producto
	// haya cambiado o ya no exista.
	var snapshots map[string]entity.InvoiceItem
	if base != nil {
		snapshots = make(map[string]entity.InvoiceItem, len(base.Items))
		for _, it := range base.Items {
			if _, ok := snapshots[it.ProductID]; !ok && it.ProductID != "" {
				snapshots[it.ProductID] = it
			}
		}
	}

	for i, it := range in.Items {
		item, err := uc.buildItem(ctx, it, snapshots)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				errs = append(errs, fmt.Errorf("items[%d]: %w", i, err))
				continue
			}
			return nil, err
		}
		d.AddItem(item)
	}

	if err := domain.Invalid(errs...); err != nil {
		return nil, err
	}
	return d, nil
}

// buildItem arma una línea. snapshots (solo al editar) son las líneas guardadas por
// product_id: sin precio o cargo explícito se conservan los guardados, y un producto
// eliminado se reconstruye desde su copia.
func (uc *InvoiceUseCase) buildItem(ctx context.Context, in dto.InvoiceItemRequest, snapshots map[string]entity.InvoiceItem) (entity.InvoiceItem, error) {
	errs := []error{
		validation.Field("quantity", validation.NonNegative(in.Quantity)),
		validation.Field("discount_percentage", validation.Percentage(in.DiscountPercentage)),
		validation.Field("discount_amount", validation.NonNegative(in.DiscountAmount)),
	}
	if in.CutsRequired < 0 {
		errs = append(errs, validation.Field("cuts_required", validation.ErrNegative))
	}
	if in.UnitPrice != nil {
		errs = append(errs, validation.Field("unit_price", validation.NonNegative(*in.UnitPrice)))
	}
	if in.CuttingChargePerCut != nil {
		errs = append(errs, validation.Field("cutting_charge_per_cut", validation.NonNegative(*in.CuttingChargePerCut)))
	}
	if err := domain.Invalid(errs...); err != nil {
		return entity.InvoiceItem{}, err
	}

	input := ItemInput{
		Description:         in.Description,
		Quantity:            in.Quantity,
		UnitPrice:           in.UnitPrice,
		CutsRequired:        in.CutsRequired,
		CuttingChargePerCut: in.CuttingChargePerCut,
		DiscountPercentage:  in.DiscountPercentage,
		DiscountAmount:      in.DiscountAmount,
	}

	if in.ProductID == "" {
		// Línea libre sin producto del catálogo.
		if err := validation.Required(in.ProductName, "product_name"); err != nil {
			return entity.InvoiceItem{}, domain.Invalid(err)
		}
		return NewItemFromProduct(&entity.Product{Name: in.ProductName, IsCuttable: true}, input), nil
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return entity.InvoiceItem{}, fmt.Errorf("billing: obtener producto: %w", err)
	}
	snap, hasSnap := snapshots[in.ProductID]
	if product == nil {
		if !hasSnap {
			return entity.InvoiceItem{}, &domain.ReferenceError{Kind: "product", ID: in.ProductID}
		}
		product = &entity.Product{
			ID:            snap.ProductID,
			Name:          snap.ProductName,
			Description:   snap.Description,
			BasePrice:     snap.UnitPrice,
			CuttingCharge: snap.CuttingChargePerCut,
			IsCuttable:    snap.CutsRequired > 0 || !snap.CuttingChargePerCut.IsZero(),
		}
		return NewItemFromProduct(product, input), nil
	}
	if hasSnap {
		if input.UnitPrice == nil {
			input.UnitPrice = &snap.UnitPrice
		}
		if input.CuttingChargePerCut == nil {
			input.CuttingChargePerCut = &snap.CuttingChargePerCut
		}
		if input.Description == nil {
			input.Description = &snap.Description
		}
	}
	return NewItemFromProduct(product, input), nil
}

// ── Alta ─────────────────────────────────────────────────────────────────────

// Create guarda una factura nueva. Si no trae número se asigna el siguiente del año en curso.
// La lectura de números y la inserción se serializan en el almacén; ante un conflicto de
// unicidad se reintenta la asignación.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := uc.requireCompany(ctx); err != nil {
		return nil, err
	}
	d, err := uc.BuildDraft(ctx, nil, in)
	if err != nil {
		return nil, err
	}
	inv, err := uc.Save(ctx, d)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// Save persiste un borrador nuevo y devuelve la factura guardada.
func (uc *InvoiceUseCase) Save(ctx context.Context, d *InvoiceDraft) (*entity.Invoice, error) {
	inv := d.Invoice()
	if len(inv.Items) == 0 {
		return nil, fmt.Errorf("%w: cannot save invoice without items", domain.ErrInvalidInput)
	}
	explicitNumber := inv.InvoiceNumber != ""

	var lastErr error
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		lastErr = uc.runner.RunInvoiceCreation(ctx, func(repo repository.InvoiceRepository) error {
			numbers, err := repo.ListNumbers(ctx)
			if err != nil {
				return fmt.Errorf("billing: listar números: %w", err)
			}
			if explicitNumber {
				for _, n := range numbers {
					if n == inv.InvoiceNumber {
						return fmt.Errorf("%w: invoice number %s already exists", domain.ErrDuplicate, inv.InvoiceNumber)
					}
				}
			} else {
				inv.InvoiceNumber = numbering.Allocate(numbers, uc.clock().Year())
			}
			return repo.Create(ctx, inv)
		})
		if lastErr == nil {
			uc.recorder.InvoiceCreated(inv.Status)
			uc.log.Info().
				Str("invoice_id", inv.ID).
				Str("invoice_number", inv.InvoiceNumber).
				Str("client_id", inv.ClientID).
				Int("items", len(inv.Items)).
				Msg("factura creada")
			return inv, nil
		}
		if !errors.Is(lastErr, domain.ErrDuplicate) || explicitNumber {
			return nil, lastErr
		}
		uc.recorder.InvoiceNumberConflict()
		uc.log.Warn().Str("invoice_number", inv.InvoiceNumber).Int("attempt", attempt).
			Msg("conflicto de número de factura, reintentando")
	}
	return nil, lastErr
}

// ── Lectura, edición y baja ──────────────────────────────────────────────────

// GetEntity devuelve la factura guardada o domain.ErrNotFound.
func (uc *InvoiceUseCase) GetEntity(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("billing: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// Get devuelve la factura con sus importes.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.GetEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// Update reemplaza la factura conservando ID y fecha de creación.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	stored, err := uc.GetEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.InvoiceNumber == "" {
		in.InvoiceNumber = stored.InvoiceNumber
	}
	d, err := uc.BuildDraft(ctx, stored, in)
	if err != nil {
		return nil, err
	}
	inv := d.Invoice()
	if len(inv.Items) == 0 {
		return nil, fmt.Errorf("%w: cannot save invoice without items", domain.ErrInvalidInput)
	}
	if inv.InvoiceNumber != stored.InvoiceNumber {
		numbers, err := uc.invoiceRepo.ListNumbers(ctx)
		if err != nil {
			return nil, fmt.Errorf("billing: listar números: %w", err)
		}
		for _, n := range numbers {
			if n == inv.InvoiceNumber {
				return nil, fmt.Errorf("%w: invoice number %s already exists", domain.ErrDuplicate, inv.InvoiceNumber)
			}
		}
	}
	inv.ID = stored.ID
	inv.CreatedDate = stored.CreatedDate
	inv.LastModified = uc.clock()
	if err := uc.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", inv.ID).Str("invoice_number", inv.InvoiceNumber).Msg("factura actualizada")
	return ToInvoiceResponse(inv), nil
}

// UpdateStatus cambia solo el estado. Cualquier transición entre estados conocidos es válida.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, id string, status string) (*dto.InvoiceResponse, error) {
	st := entity.InvoiceStatus(status)
	if !st.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	stored, err := uc.GetEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	d := EditInvoice(stored, uc.clock)
	d.SetStatus(st)
	inv := d.Invoice()
	if err := uc.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", inv.ID).Str("from", string(stored.Status)).Str("to", string(st)).
		Msg("estado de factura actualizado")
	return ToInvoiceResponse(inv), nil
}

// Delete elimina la factura.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("invoice_id", id).Msg("factura eliminada")
	return nil
}

// NextNumber sugiere el siguiente número para el año en curso (no lo reserva).
func (uc *InvoiceUseCase) NextNumber(ctx context.Context) (string, error) {
	numbers, err := uc.invoiceRepo.ListNumbers(ctx)
	if err != nil {
		return "", fmt.Errorf("billing: listar números: %w", err)
	}
	return numbering.Allocate(numbers, uc.clock().Year()), nil
}

// Preview calcula la factura sin guardarla.
func (uc *InvoiceUseCase) Preview(ctx context.Context, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	d, err := uc.BuildDraft(ctx, nil, in)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(d.Invoice()), nil
}

func (uc *InvoiceUseCase) requireCompany(ctx context.Context) error {
	company, err := uc.companyRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("billing: obtener empresa: %w", err)
	}
	if !company.Configured() {
		return domain.ErrCompanyNotConfigured
	}
	return nil
}

// ── Mapeo a DTO ──────────────────────────────────────────────────────────────

// TimestampLayout formato ISO-8601 de las marcas de tiempo en las respuestas.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// ToInvoiceResponse convierte la factura a DTO incluyendo los importes derivados.
func ToInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	totals := pricing.ComputeInvoiceTotals(inv)
	resp := &dto.InvoiceResponse{
		ID:                       inv.ID,
		InvoiceNumber:            inv.InvoiceNumber,
		ClientID:                 inv.ClientID,
		ClientName:               inv.ClientName,
		IssueDate:                inv.IssueDate.Format(entity.DateLayout),
		DueDate:                  inv.DueDate.Format(entity.DateLayout),
		Status:                   string(inv.Status),
		Items:                    make([]dto.InvoiceItemResponse, 0, len(inv.Items)),
		ShippingCost:             inv.ShippingCost,
		HandlingCost:             inv.HandlingCost,
		OtherCharges:             inv.OtherCharges,
		OtherChargesDescription:  inv.OtherChargesDescription,
		GlobalDiscountPercentage: inv.GlobalDiscountPercentage,
		GlobalDiscountAmount:     inv.GlobalDiscountAmount,
		VATRate:                  inv.VATRate,
		VATNumber:                inv.VATNumber,
		PaymentTerms:             inv.PaymentTerms,
		Notes:                    inv.Notes,
		CreatedDate:              inv.CreatedDate.Format(TimestampLayout),
		LastModified:             inv.LastModified.Format(TimestampLayout),
		Totals: dto.InvoiceTotalsResponse{
			Subtotal:                  totals.Subtotal,
			AdditionalChargesTotal:    totals.AdditionalChargesTotal,
			TotalBeforeGlobalDiscount: totals.TotalBeforeGlobalDiscount,
			GlobalDiscountTotal:       totals.GlobalDiscountTotal,
			TotalBeforeVAT:            totals.TotalBeforeVAT,
			VATAmount:                 totals.VATAmount,
			TotalAmount:               totals.TotalAmount,
		},
	}
	for _, it := range inv.Items {
		lt := pricing.ComputeLineItemTotals(it)
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ProductID:               it.ProductID,
			ProductName:             it.ProductName,
			Description:             it.Description,
			Quantity:                it.Quantity,
			UnitPrice:               it.UnitPrice,
			CutsRequired:            it.CutsRequired,
			CuttingChargePerCut:     it.CuttingChargePerCut,
			DiscountPercentage:      it.DiscountPercentage,
			DiscountAmount:          it.DiscountAmount,
			LineTotalBeforeDiscount: lt.LineTotalBeforeDiscount,
			TotalDiscount:           lt.TotalDiscount,
			LineTotal:               lt.LineTotal,
		})
	}
	return resp
}

// ToInvoiceSummary fila del historial.
func ToInvoiceSummary(inv *entity.Invoice) dto.InvoiceSummaryResponse {
	totals := pricing.ComputeInvoiceTotals(inv)
	return dto.InvoiceSummaryResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		ClientID:      inv.ClientID,
		ClientName:    inv.ClientName,
		IssueDate:     inv.IssueDate.Format(entity.DateLayout),
		DueDate:       inv.DueDate.Format(entity.DateLayout),
		Status:        string(inv.Status),
		ItemsCount:    len(inv.Items),
		Subtotal:      totals.Subtotal,
		VATAmount:     totals.VATAmount,
		TotalAmount:   totals.TotalAmount,
	}
}
