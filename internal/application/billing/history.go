package billing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/steel-billing/internal/application/dto"
	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/pricing"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DateRange rango de fechas (sobre la fecha de emisión) del historial.
type DateRange string

// Rangos soportados.
const (
	RangeAll      DateRange = "all"
	RangeLast30   DateRange = "last30"
	RangeLast90   DateRange = "last90"
	RangeThisYear DateRange = "this_year"
	RangeCustom   DateRange = "custom"
)

// SortOrder orden del historial.
type SortOrder string

// Órdenes soportados.
const (
	SortDateDesc   SortOrder = "date_desc"
	SortDateAsc    SortOrder = "date_asc"
	SortAmountDesc SortOrder = "amount_desc"
	SortAmountAsc  SortOrder = "amount_asc"
	SortStatus     SortOrder = "status"
	SortClient     SortOrder = "client"
)

// HistoryFilter criterios del historial de facturas.
type HistoryFilter struct {
	Search string    // texto en número o nombre de cliente (sin distinguir mayúsculas)
	Status string    // vacío o "All" = todos
	Range  DateRange // vacío = all
	From   time.Time // solo RangeCustom
	To     time.Time // solo RangeCustom, inclusive
	Sort   SortOrder // vacío = date_desc
}

// Validate comprueba los valores enumerados y el rango personalizado.
func (f HistoryFilter) Validate() error {
	if f.Status != "" && f.Status != "All" && !entity.InvoiceStatus(f.Status).Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, f.Status)
	}
	switch f.Range {
	case "", RangeAll, RangeLast30, RangeLast90, RangeThisYear:
	case RangeCustom:
		if f.From.IsZero() || f.To.IsZero() {
			return fmt.Errorf("%w: custom range requires from and to", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown date range %q", domain.ErrInvalidInput, f.Range)
	}
	switch f.Sort {
	case "", SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc, SortStatus, SortClient:
	default:
		return fmt.Errorf("%w: unknown sort %q", domain.ErrInvalidInput, f.Sort)
	}
	return nil
}

type historyRow struct {
	inv    *entity.Invoice
	totals pricing.InvoiceTotals
}

// List devuelve el historial filtrado y ordenado junto con su resumen.
func (uc *InvoiceUseCase) List(ctx context.Context, f HistoryFilter) (*dto.InvoiceListResponse, error) {
	rows, err := uc.history(ctx, f)
	if err != nil {
		return nil, err
	}
	resp := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceSummaryResponse, 0, len(rows)),
		Summary: dto.InvoiceHistorySummary{
			Count:       len(rows),
			TotalValue:  decimal.Zero,
			Paid:        decimal.Zero,
			Outstanding: decimal.Zero,
		},
	}
	for _, r := range rows {
		resp.Items = append(resp.Items, ToInvoiceSummary(r.inv))
		total := r.totals.TotalAmount
		resp.Summary.TotalValue = resp.Summary.TotalValue.Add(total)
		switch r.inv.Status {
		case entity.InvoiceStatusPaid:
			resp.Summary.Paid = resp.Summary.Paid.Add(total)
		case entity.InvoiceStatusSent, entity.InvoiceStatusOverdue:
			resp.Summary.Outstanding = resp.Summary.Outstanding.Add(total)
		}
	}
	return resp, nil
}

// csvHeader columnas de la exportación CSV.
var csvHeader = []string{"Invoice Number", "Client", "Issue Date", "Due Date", "Status", "Subtotal", "VAT", "Total", "Items Count"}

// CSV encodings soportados.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

// ExportCSV escribe el historial filtrado como CSV. encoding windows-1252 produce un
// archivo que Excel abre sin problemas de acentos ni del símbolo del euro.
func (uc *InvoiceUseCase) ExportCSV(ctx context.Context, f HistoryFilter, enc string, w io.Writer) error {
	rows, err := uc.history(ctx, f)
	if err != nil {
		return err
	}

	var tw *transform.Writer
	switch strings.ToLower(enc) {
	case "", EncodingUTF8:
	case EncodingWindows1252, "cp1252":
		// Los caracteres sin equivalente en cp1252 se reemplazan en lugar de abortar.
		tw = transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
		w = tw
	default:
		return fmt.Errorf("%w: unsupported encoding %q", domain.ErrInvalidInput, enc)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("billing: escribir CSV: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.inv.InvoiceNumber,
			r.inv.ClientName,
			r.inv.IssueDate.Format(entity.DateLayout),
			r.inv.DueDate.Format(entity.DateLayout),
			string(r.inv.Status),
			r.totals.Subtotal.StringFixed(2),
			r.totals.VATAmount.StringFixed(2),
			r.totals.TotalAmount.StringFixed(2),
			strconv.Itoa(len(r.inv.Items)),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("billing: escribir CSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("billing: escribir CSV: %w", err)
	}
	if tw != nil {
		if err := tw.Close(); err != nil {
			return fmt.Errorf("billing: codificar CSV: %w", err)
		}
	}
	uc.recorder.DocumentRendered("csv")
	return nil
}

func (uc *InvoiceUseCase) history(ctx context.Context, f HistoryFilter) ([]historyRow, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	all, err := uc.invoiceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("billing: listar facturas: %w", err)
	}

	from, to := f.bounds(entity.DateOnly(uc.clock()))
	search := strings.ToLower(strings.TrimSpace(f.Search))

	rows := make([]historyRow, 0, len(all))
	for _, inv := range all {
		if search != "" &&
			!strings.Contains(strings.ToLower(inv.InvoiceNumber), search) &&
			!strings.Contains(strings.ToLower(inv.ClientName), search) {
			continue
		}
		if f.Status != "" && f.Status != "All" && string(inv.Status) != f.Status {
			continue
		}
		issue := entity.DateOnly(inv.IssueDate)
		if !from.IsZero() && issue.Before(from) {
			continue
		}
		if !to.IsZero() && issue.After(to) {
			continue
		}
		rows = append(rows, historyRow{inv: inv, totals: pricing.ComputeInvoiceTotals(inv)})
	}

	sortHistory(rows, f.Sort)
	return rows, nil
}

// bounds devuelve el rango [from, to] de fechas de emisión; cero = sin límite.
func (f HistoryFilter) bounds(today time.Time) (time.Time, time.Time) {
	switch f.Range {
	case RangeLast30:
		return today.AddDate(0, 0, -30), time.Time{}
	case RangeLast90:
		return today.AddDate(0, 0, -90), time.Time{}
	case RangeThisYear:
		return time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC), time.Time{}
	case RangeCustom:
		return entity.DateOnly(f.From), entity.DateOnly(f.To)
	}
	return time.Time{}, time.Time{}
}

func sortHistory(rows []historyRow, order SortOrder) {
	var less func(a, b historyRow) bool
	switch order {
	case SortDateAsc:
		less = func(a, b historyRow) bool { return a.inv.IssueDate.Before(b.inv.IssueDate) }
	case SortAmountDesc:
		less = func(a, b historyRow) bool { return a.totals.TotalAmount.GreaterThan(b.totals.TotalAmount) }
	case SortAmountAsc:
		less = func(a, b historyRow) bool { return a.totals.TotalAmount.LessThan(b.totals.TotalAmount) }
	case SortStatus:
		less = func(a, b historyRow) bool { return a.inv.Status < b.inv.Status }
	case SortClient:
		less = func(a, b historyRow) bool { return a.inv.ClientName < b.inv.ClientName }
	default:
		less = func(a, b historyRow) bool { return a.inv.IssueDate.After(b.inv.IssueDate) }
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}
