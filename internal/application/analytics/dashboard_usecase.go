// Package analytics contiene el resumen de negocio de la pantalla principal.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/steel-billing/internal/application/billing"
	"github.com/jhoicas/steel-billing/internal/application/dto"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/pricing"
	"github.com/jhoicas/steel-billing/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const dashboardRecentInvoices = 5 // facturas en el widget de recientes

// DashboardUseCase genera el resumen de la pantalla principal.
//
// Fuente de datos: los repositorios de empresa, clientes, productos y facturas
// (solo lectura). Los importes se calculan con el motor de precios.
type DashboardUseCase struct {
	companyRepo repository.CompanyRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	invoiceRepo repository.InvoiceRepository
	clock       func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	companyRepo repository.CompanyRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		companyRepo: companyRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		invoiceRepo: invoiceRepo,
		clock:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(clock func() time.Time) *DashboardUseCase {
	uc.clock = clock
	return uc
}

// GetSummary construye el DashboardResponse.
//
// Cuatro lecturas en paralelo (empresa, clientes, productos, facturas); luego:
//   - InvoicesThisMonth: facturas con fecha de emisión en el mes en curso.
//   - TotalRevenue: suma del total de las facturas Paid.
//   - OutstandingAmount: suma del total de las facturas Sent y Overdue.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardResponse, error) {
	type companyResult struct {
		company *entity.Company
		err     error
	}
	type clientsResult struct {
		clients []*entity.Client
		err     error
	}
	type productsResult struct {
		products []*entity.Product
		err      error
	}
	type invoicesResult struct {
		invoices []*entity.Invoice
		err      error
	}

	companyCh := make(chan companyResult, 1)
	clientsCh := make(chan clientsResult, 1)
	productsCh := make(chan productsResult, 1)
	invoicesCh := make(chan invoicesResult, 1)

	go func() {
		c, err := uc.companyRepo.Get(ctx)
		companyCh <- companyResult{c, err}
	}()
	go func() {
		l, err := uc.clientRepo.List(ctx)
		clientsCh <- clientsResult{l, err}
	}()
	go func() {
		l, err := uc.productRepo.List(ctx)
		productsCh <- productsResult{l, err}
	}()
	go func() {
		l, err := uc.invoiceRepo.List(ctx)
		invoicesCh <- invoicesResult{l, err}
	}()

	company := <-companyCh
	clients := <-clientsCh
	products := <-productsCh
	invoices := <-invoicesCh

	// ── Propagación de errores ────────────────────────────────────────────────
	if company.err != nil {
		return nil, fmt.Errorf("dashboard: empresa: %w", company.err)
	}
	if clients.err != nil {
		return nil, fmt.Errorf("dashboard: clientes: %w", clients.err)
	}
	if products.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", products.err)
	}
	if invoices.err != nil {
		return nil, fmt.Errorf("dashboard: facturas: %w", invoices.err)
	}

	// ── Ensamblado ────────────────────────────────────────────────────────────
	resp := &dto.DashboardResponse{
		CompanyConfigured: company.company.Configured(),
		TotalClients:      len(clients.clients),
		TotalProducts:     len(products.products),
		TotalRevenue:      decimal.Zero,
		OutstandingAmount: decimal.Zero,
		RecentInvoices:    []dto.InvoiceSummaryResponse{},
	}
	for _, p := range products.products {
		if p.IsActive {
			resp.ActiveProducts++
		}
	}

	now := uc.clock()
	for i, inv := range invoices.invoices {
		if inv.IssueDate.Year() == now.Year() && inv.IssueDate.Month() == now.Month() {
			resp.InvoicesThisMonth++
		}
		switch inv.Status {
		case entity.InvoiceStatusPaid:
			resp.TotalRevenue = resp.TotalRevenue.Add(pricing.ComputeInvoiceTotals(inv).TotalAmount)
		case entity.InvoiceStatusSent, entity.InvoiceStatusOverdue:
			resp.OutstandingAmount = resp.OutstandingAmount.Add(pricing.ComputeInvoiceTotals(inv).TotalAmount)
		}
		// El repositorio devuelve las más recientes primero.
		if i < dashboardRecentInvoices {
			resp.RecentInvoices = append(resp.RecentInvoices, billing.ToInvoiceSummary(inv))
		}
	}
	return resp, nil
}
