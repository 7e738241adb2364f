package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	appanalytics "github.com/jhoicas/steel-billing/internal/application/analytics"
	"github.com/jhoicas/steel-billing/internal/application/auth"
	"github.com/jhoicas/steel-billing/internal/application/backup"
	"github.com/jhoicas/steel-billing/internal/application/billing"
	"github.com/jhoicas/steel-billing/internal/application/catalog"
	"github.com/jhoicas/steel-billing/internal/application/setup"
	"github.com/jhoicas/steel-billing/internal/domain/repository"
	"github.com/jhoicas/steel-billing/internal/infrastructure/filestore"
	"github.com/jhoicas/steel-billing/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/steel-billing/internal/infrastructure/pdf"
	"github.com/jhoicas/steel-billing/internal/infrastructure/postgres"
	"github.com/jhoicas/steel-billing/internal/infrastructure/ubl"
	httpRouter "github.com/jhoicas/steel-billing/internal/interfaces/http"
	"github.com/jhoicas/steel-billing/pkg/config"
	"github.com/jhoicas/steel-billing/pkg/logger"
)

// storage repos del driver elegido. archiver es nil con PostgreSQL.
type storage struct {
	company  repository.CompanyRepository
	clients  repository.ClientRepository
	products repository.ProductRepository
	invoices repository.InvoiceRepository
	runner   repository.InvoiceCreationRunner
	resetter repository.DataResetter
	archiver backup.Archiver
	close    func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StoragePostgres {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		runner := postgres.NewTxRunner(pool)
		log.Info().Msg("almacenamiento: PostgreSQL")
		return &storage{
			company:  postgres.NewCompanyRepository(pool),
			clients:  postgres.NewClientRepository(pool),
			products: postgres.NewProductRepository(pool),
			invoices: postgres.NewInvoiceRepository(pool),
			runner:   runner,
			resetter: runner,
			close:    pool.Close,
		}, nil
	}

	store, err := filestore.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	log.Info().Str("dir", store.Dir()).Msg("almacenamiento: archivos JSON")
	return &storage{
		company:  store.Company(),
		clients:  store.Clients(),
		products: store.Products(),
		invoices: store.Invoices(),
		runner:   store,
		resetter: store,
		archiver: store,
		close:    func() {},
	}, nil
}

func main() {
	// .env es opcional; las variables del entorno tienen prioridad.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	// Importes como números JSON, igual que en los archivos de datos.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer st.close()

	recorder := metrics.NewRecorder(prometheus.DefaultRegisterer)

	invoiceUC := billing.NewInvoiceUseCase(
		st.runner, st.invoices, st.clients, st.products, st.company,
		cfg.Billing.DefaultVATRate, recorder, log,
	)
	documentUC := billing.NewDocumentUseCase(
		st.invoices, st.company, st.clients,
		infrapdf.NewMarotoPDFGenerator(), ubl.NewExporter(), recorder, log,
	)
	backupUC := backup.NewUseCase(
		backup.Repos{Company: st.company, Clients: st.clients, Products: st.products, Invoices: st.invoices},
		st.archiver, st.resetter, cfg.Storage.BackupDir, log,
	)
	authUC := auth.NewAuthUseCase(
		auth.Credentials{Username: cfg.Auth.Username, PasswordHash: cfg.Auth.PasswordHash},
		auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
	)
	if !authUC.Enabled() {
		log.Warn().Msg("JWT_SECRET vacío: API sin autenticación")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Steel Billing API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CompanyUC:   setup.NewCompanyUseCase(st.company, log),
		ClientUC:    catalog.NewClientUseCase(st.clients, log),
		ProductUC:   catalog.NewProductUseCase(st.products, log),
		InvoiceUC:   invoiceUC,
		DocumentUC:  documentUC,
		DashboardUC: appanalytics.NewDashboardUseCase(st.company, st.clients, st.products, st.invoices),
		BackupUC:    backupUC,
		JWTSecret:   cfg.JWT.Secret,
		ServiceName: cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
