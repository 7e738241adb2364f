package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/steel-billing/internal/application/analytics"
	"github.com/jhoicas/steel-billing/internal/application/auth"
	"github.com/jhoicas/steel-billing/internal/application/backup"
	"github.com/jhoicas/steel-billing/internal/application/billing"
	"github.com/jhoicas/steel-billing/internal/application/catalog"
	"github.com/jhoicas/steel-billing/internal/application/setup"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CompanyUC   *setup.CompanyUseCase
	ClientUC    *catalog.ClientUseCase
	ProductUC   *catalog.ProductUseCase
	InvoiceUC   *billing.InvoiceUseCase
	DocumentUC  *billing.DocumentUseCase
	DashboardUC *appanalytics.DashboardUseCase
	BackupUC    *backup.UseCase
	// Gatherer origen de /metrics; nil = prometheus.DefaultGatherer.
	Gatherer    prometheus.Gatherer
	JWTSecret   string // vacío = API sin autenticación
	ServiceName string
}

// Router registra las rutas operativas y de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token si hay secreto configurado)
	protected := api
	if deps.JWTSecret != "" {
		protected = api.Group("", AuthMiddleware(deps.JWTSecret))
	}

	companyHandler := NewCompanyHandler(deps.CompanyUC)
	protected.Get("/company", companyHandler.Get)
	protected.Put("/company", companyHandler.Save)

	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.Get)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Las rutas fijas van antes de /:id.
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.DocumentUC)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/export.csv", invoiceHandler.ExportCSV)
	invoices.Get("/next-number", invoiceHandler.NextNumber)
	invoices.Post("/preview", invoiceHandler.Preview)
	invoices.Get("/:id", invoiceHandler.Get)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Get("/:id/ubl", invoiceHandler.DownloadUBL)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.GetSummary)

	backupHandler := NewBackupHandler(deps.BackupUC)
	protected.Post("/backups", backupHandler.Create)
	protected.Post("/backups/restore", backupHandler.Restore)
	protected.Get("/export", backupHandler.Export)
	protected.Get("/stats", backupHandler.Stats)
	protected.Delete("/data", backupHandler.ClearAll)
}
