package billing

import (
	"context"

	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/pricing"
)

// InvoicePDFGenerator genera la representación PDF de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc *InvoiceDocument) ([]byte, error)
}

// InvoiceXMLExporter genera el documento XML (UBL) de una factura y su huella digital.
type InvoiceXMLExporter interface {
	Export(doc *InvoiceDocument) (xml []byte, digest string, err error)
}

// InvoiceDocument datos completos para renderizar una factura.
type InvoiceDocument struct {
	Invoice    *entity.Invoice
	Company    *entity.Company
	Client     *entity.Client
	LineTotals []pricing.LineItemTotals // mismo orden que Invoice.Items
	Totals     pricing.InvoiceTotals
}

// Recorder recibe eventos de negocio para métricas. Puede ser nil.
type Recorder interface {
	InvoiceCreated(status entity.InvoiceStatus)
	InvoiceNumberConflict()
	DocumentRendered(kind string)
}

type nopRecorder struct{}

func (nopRecorder) InvoiceCreated(entity.InvoiceStatus) {}
func (nopRecorder) InvoiceNumberConflict()              {}
func (nopRecorder) DocumentRendered(string)             {}
