package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/steel-billing/internal/application/analytics"
	"github.com/jhoicas/steel-billing/internal/application/auth"
	"github.com/jhoicas/steel-billing/internal/application/backup"
	"github.com/jhoicas/steel-billing/internal/application/billing"
	"github.com/jhoicas/steel-billing/internal/application/catalog"
	"github.com/jhoicas/steel-billing/internal/application/dto"
	"github.com/jhoicas/steel-billing/internal/application/setup"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/infrastructure/filestore"
	"github.com/jhoicas/steel-billing/internal/infrastructure/metrics"
	"github.com/jhoicas/steel-billing/internal/infrastructure/pdf"
	"github.com/jhoicas/steel-billing/internal/infrastructure/ubl"
	apphttp "github.com/jhoicas/steel-billing/internal/interfaces/http"
	"github.com/jhoicas/steel-billing/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUser     = "admin"
	testPassword = "s3cret-pass"
)

var testNow = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

type apiEnv struct {
	app   *fiber.App
	store *filestore.Store
}

// newAPI construye la app completa sobre un file store temporal con empresa, cliente c1 y producto p1.
func newAPI(t *testing.T, jwtSecret string) *apiEnv {
	t.Helper()
	return newAPIWithLogger(t, jwtSecret, logger.Nop())
}

func newAPIWithLogger(t *testing.T, jwtSecret string, log *logger.Logger) *apiEnv {
	t.Helper()
	store, err := filestore.Open(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.Company().Save(ctx, &entity.Company{Name: "Dublin Steel Ltd", Country: "Ireland", IBAN: "IE29AIBK93115212345678"}))
	require.NoError(t, store.Clients().Create(ctx, &entity.Client{ID: "c1", Name: "Murphy Fabrication", Country: "Ireland", PaymentTerms: "30 days"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: "p1", Name: "Steel Bar 20mm", BasePrice: decimal.RequireFromString("4.5"),
		CuttingCharge: decimal.RequireFromString("2.5"), IsCuttable: true, IsActive: true, Category: "Steel Bar",
	}))

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)
	clock := func() time.Time { return testNow }
	repos := backup.Repos{Company: store.Company(), Clients: store.Clients(), Products: store.Products(), Invoices: store.Invoices()}

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(auth.Credentials{Username: testUser, PasswordHash: string(hash)}, auth.JWTConfig{Secret: jwtSecret, ExpMinutes: 5, Issuer: "test"}),
		CompanyUC: setup.NewCompanyUseCase(store.Company(), log),
		ClientUC:  catalog.NewClientUseCase(store.Clients(), log),
		ProductUC: catalog.NewProductUseCase(store.Products(), log),
		InvoiceUC: billing.NewInvoiceUseCase(
			store, store.Invoices(), store.Clients(), store.Products(), store.Company(),
			entity.DefaultVATRate, rec, log,
		).WithClock(clock),
		DocumentUC: billing.NewDocumentUseCase(
			store.Invoices(), store.Company(), store.Clients(),
			pdf.NewMarotoPDFGenerator(), ubl.NewExporter(), rec, log,
		),
		DashboardUC: appanalytics.NewDashboardUseCase(store.Company(), store.Clients(), store.Products(), store.Invoices()).WithClock(clock),
		BackupUC:    backup.NewUseCase(repos, store, store, t.TempDir(), log).WithClock(clock),
		Gatherer:    reg,
		JWTSecret:   jwtSecret,
		ServiceName: "steel-billing-test",
	})
	return &apiEnv{app: app, store: store}
}

func (e *apiEnv) do(t *testing.T, method, path string, body any, header ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func invoiceBody() dto.InvoiceRequest {
	return dto.InvoiceRequest{
		ClientID: "c1",
		Items:    []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: decimal.NewFromInt(10), CutsRequired: 2}},
	}
}

func createInvoice(t *testing.T, e *apiEnv) dto.InvoiceResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/invoices", invoiceBody())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[dto.InvoiceResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Operación
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	e := newAPI(t, "")
	resp := e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestMetrics_ExponeContadores(t *testing.T) {
	e := newAPI(t, "")
	createInvoice(t, e)

	resp := e.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `steel_billing_invoices_created_total{status="Draft"} 1`)
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoices_CrearYConsultar(t *testing.T) {
	e := newAPI(t, "")
	created := createInvoice(t, e)
	assert.Equal(t, "INV-2026-001", created.InvoiceNumber)
	assert.True(t, created.Totals.TotalAmount.Equal(decimal.RequireFromString("61.5")), created.Totals.TotalAmount.String())

	resp := e.do(t, http.MethodGet, "/api/invoices/"+created.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, created.ID, got.ID)

	resp = e.do(t, http.MethodGet, "/api/invoices/next-number", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "INV-2026-002", decode[dto.NextInvoiceNumberResponse](t, resp).InvoiceNumber)
}

func TestInvoices_ErroresHTTP(t *testing.T) {
	e := newAPI(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/api/invoices", dto.InvoiceRequest{ClientID: "c1"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	body := invoiceBody()
	body.ClientID = "nope"
	resp = e.do(t, http.MethodPost, "/api/invoices", body)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "client nope not found", decode[dto.ErrorResponse](t, resp).Message)

	body = invoiceBody()
	body.Items[0].ProductID = "p404"
	resp = e.do(t, http.MethodPost, "/api/invoices", body)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "product p404 not found", decode[dto.ErrorResponse](t, resp).Message)

	resp = e.do(t, http.MethodGet, "/api/invoices/missing", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/invoices?range=forever", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/invoices?range=custom&from=10-03-2026&to=2026-03-31", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestInvoices_ErrorInternoNoExponeDetalles(t *testing.T) {
	var logs bytes.Buffer
	e := newAPIWithLogger(t, "", logger.NewWithWriter(&logs, "info"))
	require.NoError(t, os.WriteFile(filepath.Join(e.store.Dir(), filestore.InvoicesFile), []byte("[{"), 0o644))

	resp := e.do(t, http.MethodGet, "/api/invoices", nil)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	out := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INTERNAL", out.Code)
	assert.Equal(t, "internal server error", out.Message)
	assert.Contains(t, logs.String(), "invoices.json", "el detalle queda en el log")
}

func TestInvoices_EditarConProductoEliminado(t *testing.T) {
	e := newAPI(t, "")
	created := createInvoice(t, e)
	resp := e.do(t, http.MethodDelete, "/api/products/p1", nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	body := invoiceBody()
	body.Notes = "deliver to yard 2"
	resp = e.do(t, http.MethodPut, "/api/invoices/"+created.ID, body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := decode[dto.InvoiceResponse](t, resp)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Steel Bar 20mm", updated.Items[0].ProductName)
	assert.True(t, updated.Totals.Subtotal.Equal(created.Totals.Subtotal))
}

func TestInvoices_NumeroDuplicadoEsConflicto(t *testing.T) {
	e := newAPI(t, "")
	createInvoice(t, e)

	body := invoiceBody()
	body.InvoiceNumber = "INV-2026-001"
	resp := e.do(t, http.MethodPost, "/api/invoices", body)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestInvoices_HistorialYEstado(t *testing.T) {
	e := newAPI(t, "")
	created := createInvoice(t, e)
	createInvoice(t, e)

	resp := e.do(t, http.MethodPatch, "/api/invoices/"+created.ID+"/status", dto.UpdateInvoiceStatusRequest{Status: "Paid"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Paid", decode[dto.InvoiceResponse](t, resp).Status)

	resp = e.do(t, http.MethodPatch, "/api/invoices/"+created.ID+"/status", dto.UpdateInvoiceStatusRequest{Status: "Lost"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/invoices?status=Paid", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[dto.InvoiceListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "INV-2026-001", list.Items[0].InvoiceNumber)
	assert.True(t, list.Summary.Paid.Equal(decimal.RequireFromString("61.5")))
}

func TestInvoices_PreviewNoGuarda(t *testing.T) {
	e := newAPI(t, "")
	resp := e.do(t, http.MethodPost, "/api/invoices/preview", invoiceBody())
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	numbers, err := e.store.Invoices().ListNumbers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, numbers)
}

func TestInvoices_ActualizarYBorrar(t *testing.T) {
	e := newAPI(t, "")
	created := createInvoice(t, e)

	body := invoiceBody()
	body.ShippingCost = decimal.NewFromInt(20)
	resp := e.do(t, http.MethodPut, "/api/invoices/"+created.ID, body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, created.InvoiceNumber, updated.InvoiceNumber)
	assert.True(t, updated.Totals.TotalBeforeVAT.Equal(decimal.NewFromInt(70)))

	resp = e.do(t, http.MethodDelete, "/api/invoices/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp = e.do(t, http.MethodDelete, "/api/invoices/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestInvoices_ExportCSV(t *testing.T) {
	e := newAPI(t, "")
	createInvoice(t, e)

	resp := e.do(t, http.MethodGet, "/api/invoices/export.csv?encoding=windows-1252", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=windows-1252", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoices.csv")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "INV-2026-001,Murphy Fabrication,2026-03-10")

	resp = e.do(t, http.MethodGet, "/api/invoices/export.csv?encoding=ebcdic", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestInvoices_DescargaPDFyUBL(t *testing.T) {
	e := newAPI(t, "")
	created := createInvoice(t, e)

	resp := e.do(t, http.MethodGet, "/api/invoices/"+created.ID+"/pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Invoice_INV-2026-001_Murphy_Fabrication.pdf")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	resp = e.do(t, http.MethodGet, "/api/invoices/"+created.ID+"/ubl", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("X-Document-Digest"), "sha-256="))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Invoice_INV-2026-001.xml")

	resp = e.do(t, http.MethodGet, "/api/invoices/missing/pdf", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo, empresa, panel y datos
// ──────────────────────────────────────────────────────────────────────────────

func TestClients_CRUD(t *testing.T) {
	e := newAPI(t, "")

	resp := e.do(t, http.MethodPost, "/api/clients", dto.ClientRequest{Name: "Kelly Welding", City: "Galway"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decode[dto.ClientResponse](t, resp)
	assert.Equal(t, "30 days", created.PaymentTerms)

	resp = e.do(t, http.MethodPost, "/api/clients", dto.ClientRequest{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/clients?search=galway", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.ClientResponse](t, resp), 1)

	resp = e.do(t, http.MethodDelete, "/api/clients/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp = e.do(t, http.MethodGet, "/api/clients/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProducts_FiltroActivos(t *testing.T) {
	e := newAPI(t, "")
	inactive := false
	resp := e.do(t, http.MethodPost, "/api/products", dto.ProductRequest{Name: "Old Beam", Category: "Steel Beam", BasePrice: decimal.NewFromInt(80), IsActive: &inactive})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/products?active=true", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[[]dto.ProductResponse](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0].ID)
}

func TestCompany_GuardarInvalidoYValido(t *testing.T) {
	e := newAPI(t, "")
	resp := e.do(t, http.MethodPut, "/api/company", dto.CompanyRequest{Name: "Dublin Steel Ltd", Email: "not-an-email"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = e.do(t, http.MethodPut, "/api/company", dto.CompanyRequest{Name: "Dublin Steel Ltd", Email: "accounts@dublinsteel.ie"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = e.do(t, http.MethodGet, "/api/company", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "accounts@dublinsteel.ie", decode[dto.CompanyResponse](t, resp).Email)
}

func TestDashboard(t *testing.T) {
	e := newAPI(t, "")
	createInvoice(t, e)
	resp := e.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	d := decode[dto.DashboardResponse](t, resp)
	assert.Equal(t, 1, d.TotalClients)
	assert.Equal(t, 1, d.InvoicesThisMonth)
}

func TestDatos_StatsBackupYBorrado(t *testing.T) {
	e := newAPI(t, "")
	createInvoice(t, e)

	resp := e.do(t, http.MethodGet, "/api/stats", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	stats := decode[dto.StatsResponse](t, resp)
	assert.Equal(t, 1, stats.InvoicesCount)

	resp = e.do(t, http.MethodPost, "/api/backups", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decode[dto.BackupResponse](t, resp)
	assert.Equal(t, "backup_20260310_143000.zip", created.Name)

	resp = e.do(t, http.MethodDelete, "/api/data", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = e.do(t, http.MethodGet, "/api/stats", nil)
	assert.Equal(t, 0, decode[dto.StatsResponse](t, resp).InvoicesCount)

	resp = e.do(t, http.MethodPost, "/api/backups/restore", dto.RestoreBackupRequest{Name: created.Name})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = e.do(t, http.MethodGet, "/api/stats", nil)
	assert.Equal(t, 1, decode[dto.StatsResponse](t, resp).InvoicesCount)

	resp = e.do(t, http.MethodPost, "/api/backups/restore", dto.RestoreBackupRequest{Name: "backup_19990101_000000.zip"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/api/backups/restore", dto.RestoreBackupRequest{Name: "/tmp/backup.zip"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_SinSecretoLaAPIEsAbierta(t *testing.T) {
	e := newAPI(t, "")
	resp := e.do(t, http.MethodGet, "/api/clients", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: testUser, Password: testPassword})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_LoginYAccesoProtegido(t *testing.T) {
	e := newAPI(t, "route-test-secret")

	resp := e.do(t, http.MethodGet, "/api/clients", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: testUser, Password: "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: testUser, Password: testPassword})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token := decode[dto.LoginResponse](t, resp).Token
	require.NotEmpty(t, token)

	resp = e.do(t, http.MethodGet, "/api/clients", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// /health y /metrics no requieren token
	resp = e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
