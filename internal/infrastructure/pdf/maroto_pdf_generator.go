// Package pdf genera la factura en PDF para enviar al cliente.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa, dirección, contacto, VAT                  │
//	│  INVOICE                                                    │
//	│  Bill To (cliente)           │  Nº, fecha, vencimiento      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Qty | Precio | Cortes | Coste corte   │
//	│         | Descuento | Total                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Subtotal / cargos / descuento / IVA / TOTAL       │
//	│  Condiciones de pago y notas                                │
//	│  FOOTER: agradecimiento + datos bancarios + QR SEPA         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/steel-billing/internal/application/billing"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/pricing"
	"github.com/jhoicas/steel-billing/pkg/format"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 0, Blue: 139}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 230, Green: 230, Blue: 230}
	colorTotal   = &props.Color{Red: 173, Green: 216, Blue: 230}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(ctx context.Context, doc *billing.InvoiceDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+doc.Invoice.InvoiceNumber, true).
		WithAuthor(doc.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(companyHeaderRows(doc.Company)...)
	m.AddRows(row.New(14).Add(col.New(12).Add(
		text.New("INVOICE", props.Text{Style: fontstyle.Bold, Size: 22, Align: align.Center, Color: colorPrimary, Top: 3}),
	)))
	m.AddRows(detailsRows(doc.Invoice, doc.Client)...)
	m.AddRows(line.NewRow(4, props.Line{Color: colorPrimary, Thickness: 0.4}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableItemRows(doc.Invoice.Items, doc.LineTotals)...)
	m.AddRows(line.NewRow(4, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(summaryRows(summaryLines(doc.Invoice, doc.Totals))...)
	m.AddRows(termsRows(doc.Invoice)...)

	m.AddRows(row.New(6))
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))
	m.AddRows(footerRows(doc.Company, doc.Invoice, doc.Totals.TotalAmount)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// companyHeaderRows: nombre, dirección, contacto y número de IVA de la empresa.
func companyHeaderRows(c *entity.Company) []core.Row {
	small := props.Text{Size: 9, Color: colorGray}
	rows := []core.Row{
		row.New(9).Add(col.New(12).Add(text.New(c.Name, props.Text{Style: fontstyle.Bold, Size: 16, Color: colorPrimary}))),
	}
	lines := []string{
		c.Address,
		joinNonEmpty(", ", c.City, strings.TrimSpace(c.County+" "+c.PostalCode)),
		joinNonEmpty(" | ", prefixed("Phone: ", format.Phone(c.Phone)), prefixed("Email: ", c.Email)),
		prefixed("VAT Number: ", format.VATNumber(c.VATNumber)),
	}
	for _, l := range lines {
		if l == "" {
			continue
		}
		rows = append(rows, row.New(5).Add(col.New(12).Add(text.New(l, small))))
	}
	return rows
}

// detailsRows: cliente a la izquierda, datos de la factura a la derecha.
func detailsRows(inv *entity.Invoice, client *entity.Client) []core.Row {
	left := []string{
		client.Name,
		client.ContactPerson,
		client.Address,
		joinNonEmpty(", ", client.City, client.County),
		client.PostalCode,
		prefixed("VAT: ", client.VATNumber),
	}
	right := []string{
		"Invoice #: " + inv.InvoiceNumber,
		"Date: " + format.Date(inv.IssueDate),
		"Due Date: " + format.Date(inv.DueDate),
		"Terms: " + inv.PaymentTerms,
	}

	rows := []core.Row{row.New(6).Add(col.New(12).Add(
		text.New("Bill To:", props.Text{Style: fontstyle.Bold, Size: 10}),
	))}
	n := max(len(left), len(right))
	for i := 0; i < n; i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		if l == "" && r == "" {
			continue
		}
		rows = append(rows, row.New(5).Add(
			col.New(6).Add(text.New(l, props.Text{Size: 9})),
			col.New(6).Add(text.New(r, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right})),
		))
	}
	return rows
}

// itemColumns anchos de la tabla (suman 12).
var itemColumns = []struct {
	label string
	size  int
	align align.Type
}{
	{"Description", 4, align.Left},
	{"Qty", 1, align.Center},
	{"Unit Price", 2, align.Right},
	{"Cuts", 1, align.Center},
	{"Cutting Cost", 1, align.Right},
	{"Discount", 1, align.Center},
	{"Total", 2, align.Right},
}

func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(itemColumns))
	for _, c := range itemColumns {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: c.align, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableItemRows: una fila por línea, con filas alternas sombreadas.
func tableItemRows(items []entity.InvoiceItem, totals []pricing.LineItemTotals) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for i, it := range items {
		lt := pricing.ComputeLineItemTotals(it)
		if i < len(totals) {
			lt = totals[i]
		}
		cells := itemCells(it, lt)
		height := 7.0
		if cells[0] != it.ProductName {
			height = 11
		}
		cols := make([]core.Col, 0, len(cells))
		for j, c := range itemColumns {
			cols = append(cols, col.New(c.size).Add(text.New(cells[j], props.Text{
				Size: 8, Align: c.align, Top: 1.5, Left: 1, Right: 1,
			})))
		}
		r := row.New(height).Add(cols...)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		rows = append(rows, r)
	}
	return rows
}

// itemCells textos de las columnas de una línea.
func itemCells(it entity.InvoiceItem, lt pricing.LineItemTotals) []string {
	desc := it.ProductName
	if it.Description != "" {
		desc += "\n" + it.Description
	}
	cuts, cutting := "-", "-"
	if it.CutsRequired > 0 {
		cuts = fmt.Sprint(it.CutsRequired)
	}
	if cost := decimal.NewFromInt(int64(it.CutsRequired)).Mul(it.CuttingChargePerCut); cost.IsPositive() {
		cutting = format.EUR(cost)
	}
	return []string{
		desc,
		it.Quantity.StringFixed(2),
		format.EUR(it.UnitPrice),
		cuts,
		cutting,
		discountText(it),
		format.EUR(lt.LineTotal),
	}
}

// discountText "10%", "€5.00", "10% + €5.00" o "-".
func discountText(it entity.InvoiceItem) string {
	var parts []string
	if it.DiscountPercentage.IsPositive() {
		parts = append(parts, it.DiscountPercentage.String()+"%")
	}
	if it.DiscountAmount.IsPositive() {
		parts = append(parts, format.EUR(it.DiscountAmount))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " + ")
}

// summaryLine fila del resumen de importes.
type summaryLine struct {
	Label string
	Value string
}

// summaryLines filas del resumen; los cargos y el descuento solo aparecen si son positivos.
// La última fila siempre es el total.
func summaryLines(inv *entity.Invoice, t pricing.InvoiceTotals) []summaryLine {
	lines := []summaryLine{{"Subtotal:", format.EUR(t.Subtotal)}}
	if inv.ShippingCost.IsPositive() {
		lines = append(lines, summaryLine{"Shipping Cost:", format.EUR(inv.ShippingCost)})
	}
	if inv.HandlingCost.IsPositive() {
		lines = append(lines, summaryLine{"Handling Cost:", format.EUR(inv.HandlingCost)})
	}
	if inv.OtherCharges.IsPositive() {
		label := inv.OtherChargesDescription
		if label == "" {
			label = "Other Charges"
		}
		lines = append(lines, summaryLine{label + ":", format.EUR(inv.OtherCharges)})
	}
	if inv.GlobalDiscountPercentage.IsPositive() || inv.GlobalDiscountAmount.IsPositive() {
		lines = append(lines, summaryLine{"Discount:", "-" + format.EUR(t.GlobalDiscountTotal)})
	}
	return append(lines,
		summaryLine{"Total Before VAT:", format.EUR(t.TotalBeforeVAT)},
		summaryLine{"VAT (" + format.Percentage(inv.VATRate) + "):", format.EUR(t.VATAmount)},
		summaryLine{"Total Amount:", format.EUR(t.TotalAmount)},
	)
}

func summaryRows(lines []summaryLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for i, l := range lines {
		last := i == len(lines)-1
		p := props.Text{Size: 9, Align: align.Right, Top: 1, Right: 2}
		h := 6.0
		if last {
			p.Style, p.Size, p.Top = fontstyle.Bold, 12, 1.5
			h = 9
		}
		r := row.New(h).Add(
			col.New(4),
			col.New(5).Add(text.New(l.Label, p)),
			col.New(3).Add(text.New(l.Value, p)),
		)
		if last {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorTotal})
		}
		rows = append(rows, r)
	}
	return rows
}

// termsRows: condiciones de pago y notas, si existen.
func termsRows(inv *entity.Invoice) []core.Row {
	var rows []core.Row
	if inv.PaymentTerms != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Payment Terms: "+inv.PaymentTerms, props.Text{Size: 9, Top: 3}),
		)))
	}
	if inv.Notes != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Notes: "+inv.Notes, props.Text{Size: 9, Top: 3}),
		)))
	}
	return rows
}

// footerRows: agradecimiento, datos bancarios y, con IBAN, el QR de transferencia SEPA.
func footerRows(c *entity.Company, inv *entity.Invoice, total decimal.Decimal) []core.Row {
	lines := footerLines(c)
	textCol := col.New(8)
	for i, l := range lines {
		p := props.Text{Size: 9, Top: float64(i) * 5}
		if i == 0 || l == "Payment Details:" {
			p.Style = fontstyle.Bold
		}
		textCol.Add(text.New(l, p))
	}
	height := float64(len(lines))*5 + 4

	payload := epcPayload(c, inv, total)
	if payload == "" {
		return []core.Row{row.New(height).Add(textCol, col.New(4))}
	}
	return []core.Row{row.New(max(height, 32)).Add(
		textCol,
		col.New(4).Add(code.NewQr(payload, props.Rect{Percent: 90, Center: true})),
	)}
}

// footerLines textos del pie de página.
func footerLines(c *entity.Company) []string {
	lines := []string{"Thank you for your business!"}
	if c.BankName == "" && c.IBAN == "" {
		return lines
	}
	lines = append(lines, "", "Payment Details:")
	if c.BankName != "" {
		lines = append(lines, "Bank: "+c.BankName)
	}
	if c.IBAN != "" {
		lines = append(lines, "IBAN: "+format.IBAN(c.IBAN))
	}
	if c.BankSortCode != "" {
		lines = append(lines, "Sort Code: "+c.BankSortCode)
	}
	return lines
}

// epcPayload contenido del código QR de transferencia SEPA (EPC069-12, versión 002 sin BIC).
// Vacío si no hay IBAN o el importe no es positivo.
func epcPayload(c *entity.Company, inv *entity.Invoice, total decimal.Decimal) string {
	iban := strings.ToUpper(strings.ReplaceAll(c.IBAN, " ", ""))
	amount := total.Round(2)
	if iban == "" || !amount.IsPositive() {
		return ""
	}
	name := c.Name
	if len(name) > 70 {
		name = name[:70]
	}
	return strings.Join([]string{
		"BCD", "002", "1", "SCT",
		"", // BIC
		name,
		iban,
		"EUR" + amount.StringFixed(2),
		"", // propósito
		"", // referencia estructurada
		inv.InvoiceNumber,
	}, "\n")
}

// ── helpers ───────────────────────────────────────────────────────────────────

func prefixed(prefix, s string) string {
	if s == "" {
		return ""
	}
	return prefix + s
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
