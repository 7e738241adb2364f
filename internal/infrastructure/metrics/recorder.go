// Package metrics publica los eventos de facturación como métricas Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/steel-billing/internal/application/billing"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
)

const namespace = "steel_billing"

// Recorder implementa billing.Recorder sobre contadores Prometheus.
type Recorder struct {
	invoicesCreated   *prometheus.CounterVec
	numberConflicts   prometheus.Counter
	documentsRendered *prometheus.CounterVec
}

var _ billing.Recorder = (*Recorder)(nil)

// NewRecorder registra los contadores en reg (prometheus.DefaultRegisterer si es nil).
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		invoicesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_created_total",
			Help:      "Facturas creadas, por estado inicial.",
		}, []string{"status"}),
		numberConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_number_conflicts_total",
			Help:      "Colisiones de número de factura resueltas con reintento.",
		}),
		documentsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_rendered_total",
			Help:      "Documentos generados, por tipo (pdf, ubl, csv).",
		}, []string{"kind"}),
	}
	reg.MustRegister(r.invoicesCreated, r.numberConflicts, r.documentsRendered)
	return r
}

func (r *Recorder) InvoiceCreated(status entity.InvoiceStatus) {
	r.invoicesCreated.WithLabelValues(string(status)).Inc()
}

func (r *Recorder) InvoiceNumberConflict() {
	r.numberConflicts.Inc()
}

func (r *Recorder) DocumentRendered(kind string) {
	r.documentsRendered.WithLabelValues(kind).Inc()
}
