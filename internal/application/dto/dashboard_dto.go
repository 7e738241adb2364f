package dto

import "github.com/shopspring/decimal"

// DashboardResponse métricas de la pantalla principal.
type DashboardResponse struct {
	CompanyConfigured bool                     `json:"company_configured"`
	TotalClients      int                      `json:"total_clients"`
	TotalProducts     int                      `json:"total_products"`
	ActiveProducts    int                      `json:"active_products"`
	InvoicesThisMonth int                      `json:"invoices_this_month"`
	TotalRevenue      decimal.Decimal          `json:"total_revenue"` // facturas Paid
	OutstandingAmount decimal.Decimal          `json:"outstanding_amount"`
	RecentInvoices    []InvoiceSummaryResponse `json:"recent_invoices"`
}
