package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/pricing"
	"github.com/jhoicas/steel-billing/internal/domain/repository"
	"github.com/jhoicas/steel-billing/pkg/logger"
)

// DocumentUseCase genera los documentos descargables de una factura (PDF y XML UBL).
type DocumentUseCase struct {
	invoiceRepo repository.InvoiceRepository
	companyRepo repository.CompanyRepository
	clientRepo  repository.ClientRepository
	pdf         InvoicePDFGenerator
	xml         InvoiceXMLExporter
	recorder    Recorder
	log         *logger.Logger
}

// NewDocumentUseCase construye el caso de uso inyectando todas sus dependencias.
func NewDocumentUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	clientRepo repository.ClientRepository,
	pdf InvoicePDFGenerator,
	xml InvoiceXMLExporter,
	recorder Recorder,
	log *logger.Logger,
) *DocumentUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &DocumentUseCase{
		invoiceRepo: invoiceRepo,
		companyRepo: companyRepo,
		clientRepo:  clientRepo,
		pdf:         pdf,
		xml:         xml,
		recorder:    recorder,
		log:         log.Component("documents"),
	}
}

// DownloadInvoicePDF genera el PDF de la factura.
//
// Retorna:
//   - (pdfBytes, filename, nil)        si todo sale bien.
//   - domain.ErrNotFound               si la factura no existe.
//   - domain.ErrCompanyNotConfigured   si la empresa no tiene datos.
//   - domain.ErrInvalidInput           si la factura no tiene ítems.
func (uc *DocumentUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) ([]byte, string, error) {
	doc, err := uc.load(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.pdf.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	uc.recorder.DocumentRendered("pdf")
	uc.log.Debug().Str("invoice_number", doc.Invoice.InvoiceNumber).Int("bytes", len(pdfBytes)).Msg("PDF generado")
	return pdfBytes, PDFFilename(doc.Invoice, doc.Client), nil
}

// ExportInvoiceXML genera el XML UBL de la factura y su huella SHA-256.
func (uc *DocumentUseCase) ExportInvoiceXML(ctx context.Context, invoiceID string) ([]byte, string, string, error) {
	doc, err := uc.load(ctx, invoiceID)
	if err != nil {
		return nil, "", "", err
	}
	xmlBytes, digest, err := uc.xml.Export(doc)
	if err != nil {
		return nil, "", "", fmt.Errorf("ubl: exportación fallida: %w", err)
	}
	uc.recorder.DocumentRendered("ubl")
	return xmlBytes, digest, "Invoice_" + doc.Invoice.InvoiceNumber + ".xml", nil
}

// PDFFilename nombre del archivo: Invoice_<número>_<cliente con espacios → _>.pdf.
func PDFFilename(inv *entity.Invoice, client *entity.Client) string {
	name := inv.ClientName
	if client != nil && client.Name != "" {
		name = client.Name
	}
	return fmt.Sprintf("Invoice_%s_%s.pdf", inv.InvoiceNumber, strings.ReplaceAll(name, " ", "_"))
}

func (uc *DocumentUseCase) load(ctx context.Context, invoiceID string) (*InvoiceDocument, error) {
	// ── 1. Factura ───────────────────────────────────────────────────────────
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("documento: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if len(inv.Items) == 0 {
		return nil, fmt.Errorf("%w: cannot generate a document for an invoice without items", domain.ErrInvalidInput)
	}

	// ── 2. Empresa ───────────────────────────────────────────────────────────
	company, err := uc.companyRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("documento: obtener empresa: %w", err)
	}
	if !company.Configured() {
		return nil, domain.ErrCompanyNotConfigured
	}

	// ── 3. Cliente (si fue eliminado se usa la copia guardada en la factura) ──
	client, err := uc.clientRepo.GetByID(ctx, inv.ClientID)
	if err != nil {
		return nil, fmt.Errorf("documento: obtener cliente: %w", err)
	}
	if client == nil {
		client = &entity.Client{ID: inv.ClientID, Name: inv.ClientName}
	}

	// ── 4. Importes ──────────────────────────────────────────────────────────
	lines := make([]pricing.LineItemTotals, len(inv.Items))
	for i, it := range inv.Items {
		lines[i] = pricing.ComputeLineItemTotals(it)
	}
	return &InvoiceDocument{
		Invoice:    inv,
		Company:    company,
		Client:     client,
		LineTotals: lines,
		Totals:     pricing.ComputeInvoiceTotals(inv),
	}, nil
}
