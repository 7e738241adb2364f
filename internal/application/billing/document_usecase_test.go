package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/steel-billing/internal/application/billing"
	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	last *billing.InvoiceDocument
	err  error
}

func (s *stubRenderer) GenerateInvoicePDF(_ context.Context, doc *billing.InvoiceDocument) ([]byte, error) {
	s.last = doc
	return []byte("%PDF-stub"), s.err
}

func (s *stubRenderer) Export(doc *billing.InvoiceDocument) ([]byte, string, error) {
	s.last = doc
	return []byte("<Invoice/>"), "abc123", s.err
}

func newDocumentUseCase(e *env, r *stubRenderer) *billing.DocumentUseCase {
	return billing.NewDocumentUseCase(e.store.Invoices(), e.store.Company(), e.store.Clients(), r, r, e.rec, logger.Nop())
}

func TestDownloadInvoicePDF_NombreYDocumento(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	created, err := e.uc.Create(ctx, barRequest())
	require.NoError(t, err)
	r := &stubRenderer{}

	pdf, name, err := newDocumentUseCase(e, r).DownloadInvoicePDF(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stub"), pdf)
	assert.Equal(t, "Invoice_INV-2026-001_Murphy_Fabrication.pdf", name)

	require.NotNil(t, r.last)
	assert.Equal(t, "Dublin Steel Ltd", r.last.Company.Name)
	require.Len(t, r.last.LineTotals, 1)
	assert.True(t, dec("50").Equal(r.last.LineTotals[0].LineTotal))
	assert.True(t, dec("61.5").Equal(r.last.Totals.TotalAmount))
	assert.Equal(t, []string{"pdf"}, e.rec.rendered)
}

func TestDownloadInvoicePDF_ClienteEliminadoUsaCopia(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	created, err := e.uc.Create(ctx, barRequest())
	require.NoError(t, err)
	require.NoError(t, e.store.Clients().Delete(ctx, "c1"))
	r := &stubRenderer{}

	_, name, err := newDocumentUseCase(e, r).DownloadInvoicePDF(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Murphy Fabrication", r.last.Client.Name)
	assert.Equal(t, "Invoice_INV-2026-001_Murphy_Fabrication.pdf", name)
}

func TestDownloadInvoicePDF_Errores(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	created, err := e.uc.Create(ctx, barRequest())
	require.NoError(t, err)

	_, _, err = newDocumentUseCase(e, &stubRenderer{}).DownloadInvoicePDF(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	boom := errors.New("boom")
	_, _, err = newDocumentUseCase(e, &stubRenderer{err: boom}).DownloadInvoicePDF(ctx, created.ID)
	assert.ErrorIs(t, err, boom)

	require.NoError(t, e.store.Company().Save(ctx, &entity.Company{}))
	_, _, err = newDocumentUseCase(e, &stubRenderer{}).DownloadInvoicePDF(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrCompanyNotConfigured)
}

func TestDownloadInvoicePDF_FacturaSinItems(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.store.Invoices().Create(ctx, &entity.Invoice{ID: "empty", InvoiceNumber: "INV-2026-009", Status: entity.InvoiceStatusDraft}))

	_, _, err := newDocumentUseCase(e, &stubRenderer{}).DownloadInvoicePDF(ctx, "empty")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportInvoiceXML(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	created, err := e.uc.Create(ctx, barRequest())
	require.NoError(t, err)

	xml, digest, name, err := newDocumentUseCase(e, &stubRenderer{}).ExportInvoiceXML(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "<Invoice/>", string(xml))
	assert.Equal(t, "abc123", digest)
	assert.Equal(t, "Invoice_INV-2026-001.xml", name)
}
