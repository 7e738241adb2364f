package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/infrastructure/metrics"
)

func TestRecorder_CuentaEventos(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRecorder(reg)

	r.InvoiceCreated(entity.InvoiceStatusDraft)
	r.InvoiceCreated(entity.InvoiceStatusDraft)
	r.InvoiceCreated(entity.InvoiceStatusSent)
	r.InvoiceNumberConflict()
	r.DocumentRendered("pdf")

	count, err := testutil.GatherAndCount(reg, "steel_billing_invoices_created_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count) // dos series: Draft y Sent

	count, err = testutil.GatherAndCount(reg, "steel_billing_invoice_number_conflicts_total", "steel_billing_documents_rendered_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecorder_RegistroDobleFalla(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewRecorder(reg)
	assert.Panics(t, func() { metrics.NewRecorder(reg) })
}
