package filestore_test

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/domain/numbering"
	"github.com/jhoicas/steel-billing/internal/domain/repository"
	"github.com/jhoicas/steel-billing/internal/infrastructure/filestore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *filestore.Store {
	t.Helper()
	s, err := filestore.Open(t.TempDir())
	require.NoError(t, err)
	return s
}

func readFile(t *testing.T, s *filestore.Store, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(s.Dir(), name))
	require.NoError(t, err)
	return string(b)
}

func writeFile(t *testing.T, s *filestore.Store, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), name), []byte(content), 0o644))
}

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func sampleInvoice(id, number string, created time.Time) *entity.Invoice {
	return &entity.Invoice{
		ID:            id,
		InvoiceNumber: number,
		ClientID:      "c1",
		ClientName:    "Murphy Fabrication",
		IssueDate:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC),
		Status:        entity.InvoiceStatusSent,
		Items: []entity.InvoiceItem{{
			ProductID:           "p1",
			ProductName:         "Steel Bar 20mm",
			Quantity:            decimal.NewFromInt(10),
			UnitPrice:           decimal.RequireFromString("4.5"),
			CutsRequired:        2,
			CuttingChargePerCut: decimal.RequireFromString("2.5"),
			DiscountPercentage:  decimal.NewFromInt(10),
		}},
		ShippingCost: decimal.NewFromInt(25),
		VATRate:      decimal.NewFromInt(23),
		PaymentTerms: "30 days",
		CreatedDate:  created,
		LastModified: created,
	}
}

// ── Inicialización ───────────────────────────────────────────────────────────

func TestOpen_CreaArchivosVacios(t *testing.T) {
	s := openStore(t)

	assert.Equal(t, "{}", readFile(t, s, filestore.CompanyFile))
	for _, name := range []string{filestore.ClientsFile, filestore.ProductsFile, filestore.InvoicesFile} {
		assert.Equal(t, "[]", readFile(t, s, name), name)
	}
}

func TestOpen_NoSobrescribeDatosExistentes(t *testing.T) {
	dir := t.TempDir()
	content := `[{"id":"c1","name":"Acme"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, filestore.ClientsFile), []byte(content), 0o644))

	s, err := filestore.Open(dir)
	require.NoError(t, err)
	assert.Equal(t, content, readFile(t, s, filestore.ClientsFile))
}

// ── Empresa ──────────────────────────────────────────────────────────────────

func TestCompanyRepo_SinConfigurarDevuelveNil(t *testing.T) {
	s := openStore(t)
	c, err := s.Company().Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCompanyRepo_GuardarYLeer(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	in := &entity.Company{Name: "Dublin Steel Ltd", Country: "Ireland", IBAN: "IE29AIBK93115212345678"}
	require.NoError(t, s.Company().Save(ctx, in))

	got, err := s.Company().Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *in, *got)
	assert.Contains(t, readFile(t, s, filestore.CompanyFile), `"bank_sort_code": ""`)
}

// ── Clientes y productos ─────────────────────────────────────────────────────

func TestClientRepo_CRUD(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	repo := s.Clients()
	c := &entity.Client{
		ID: "c1", Name: "Murphy Fabrication", Country: "Ireland", PaymentTerms: "30 days",
		CreditLimit: decimal.NewFromInt(5000),
		CreatedDate: time.Date(2026, 3, 1, 9, 15, 30, 123456000, time.Local),
	}

	require.NoError(t, repo.Create(ctx, c))
	assert.ErrorIs(t, repo.Create(ctx, c), domain.ErrDuplicate, "mismo id")

	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Murphy Fabrication", got.Name)
	assert.True(t, got.CreditLimit.Equal(decimal.NewFromInt(5000)))
	assert.True(t, got.CreatedDate.Equal(c.CreatedDate), "se conservan los microsegundos")

	c.Name = "Murphy Fab Ltd"
	require.NoError(t, repo.Update(ctx, c))
	got, _ = repo.GetByID(ctx, "c1")
	assert.Equal(t, "Murphy Fab Ltd", got.Name)

	require.NoError(t, repo.Delete(ctx, "c1"))
	got, err = repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, repo.Update(ctx, c), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "c1"), domain.ErrNotFound)
}

func TestProductRepo_ValoresPorDefectoEnClavesAusentes(t *testing.T) {
	s := openStore(t)
	writeFile(t, s, filestore.ProductsFile, `[{"id":"p1","name":"Flat Bar","base_price":12.5}]`)

	p, err := s.Products().GetByID(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, entity.DefaultProductCategory, p.Category)
	assert.Equal(t, entity.DefaultUnitOfMeasure, p.UnitOfMeasure)
	assert.Equal(t, entity.DefaultFinish, p.Finish)
	assert.Equal(t, 1, p.MinOrderQuantity)
	assert.True(t, p.IsCuttable)
	assert.True(t, p.IsActive)
	assert.True(t, p.BasePrice.Equal(decimal.RequireFromString("12.5")))
}

func TestProductRepo_ConservaFalsosExplicitos(t *testing.T) {
	s := openStore(t)
	writeFile(t, s, filestore.ProductsFile, `[{"id":"p1","name":"Plate","is_cuttable":false,"is_active":false}]`)

	p, err := s.Products().GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, p.IsCuttable)
	assert.False(t, p.IsActive)
}

func TestClientRepo_ArchivoCorruptoEsError(t *testing.T) {
	s := openStore(t)
	writeFile(t, s, filestore.ClientsFile, `[{"id":`)

	_, err := s.Clients().List(context.Background())
	assert.Error(t, err)
}

func TestClientRepo_ArchivoVacioEsListaVacia(t *testing.T) {
	s := openStore(t)
	writeFile(t, s, filestore.ClientsFile, ``)

	list, err := s.Clients().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ── Facturas ─────────────────────────────────────────────────────────────────

func TestInvoiceRepo_LeeFormatoDeEscritorio(t *testing.T) {
	s := openStore(t)
	writeFile(t, s, filestore.InvoicesFile, `[
  {
    "id": "8d0c",
    "invoice_number": "INV-2025-007",
    "client_id": "c1",
    "client_name": "Acme",
    "issue_date": "2025-11-02",
    "due_date": "2025-12-02",
    "status": "Paid",
    "items": [
      {"product_id": "p1", "product_name": "Bar", "description": "", "quantity": 3, "unit_price": 9.99,
       "cuts_required": 1, "cutting_charge_per_cut": 2.5, "discount_percentage": 0, "discount_amount": 0}
    ],
    "shipping_cost": 15.0,
    "created_date": "2025-11-02T10:20:30.123456",
    "last_modified": "2025-11-03T08:00:00"
  }
]`)

	inv, err := s.Invoices().GetByID(context.Background(), "8d0c")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, "INV-2025-007", inv.InvoiceNumber)
	assert.Equal(t, entity.InvoiceStatusPaid, inv.Status)
	assert.Equal(t, "2025-11-02", inv.IssueDate.Format(entity.DateLayout))
	assert.True(t, inv.VATRate.Equal(decimal.NewFromInt(23)), "IVA por defecto si falta la clave")
	assert.Equal(t, "30 days", inv.PaymentTerms)
	require.Len(t, inv.Items, 1)
	assert.True(t, inv.Items[0].UnitPrice.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 123456000, inv.CreatedDate.Nanosecond())
	assert.Equal(t, 8, inv.LastModified.Hour())
}

func TestInvoiceRepo_ImportesSinPerdidaDePrecision(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	in := sampleInvoice("big", "INV-2026-001", time.Now())
	in.ShippingCost = decimal.RequireFromString("12345678901234567.89")
	in.Items[0].UnitPrice = decimal.RequireFromString("0.1234567890123456789")

	require.NoError(t, s.Invoices().Create(ctx, in))

	raw := readFile(t, s, filestore.InvoicesFile)
	assert.Contains(t, raw, `"shipping_cost": 12345678901234567.89`, "número JSON sin comillas")
	assert.Contains(t, raw, `"unit_price": 0.1234567890123456789`)

	got, err := s.Invoices().GetByID(ctx, "big")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, in.ShippingCost.Equal(got.ShippingCost), "got %s", got.ShippingCost)
	assert.True(t, in.Items[0].UnitPrice.Equal(got.Items[0].UnitPrice), "got %s", got.Items[0].UnitPrice)
}

func TestInvoiceRepo_CrearYReleerConservaCampos(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 10, 14, 30, 0, 250000000, time.Local)
	in := sampleInvoice("i1", "INV-2026-001", created)

	require.NoError(t, s.Invoices().Create(ctx, in))
	got, err := s.Invoices().GetByID(ctx, "i1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, in.InvoiceNumber, got.InvoiceNumber)
	assert.True(t, in.IssueDate.Equal(got.IssueDate))
	assert.True(t, in.DueDate.Equal(got.DueDate))
	assert.True(t, in.CreatedDate.Equal(got.CreatedDate))
	assert.True(t, in.ShippingCost.Equal(got.ShippingCost))
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].CutsRequired)
	assert.True(t, got.Items[0].DiscountPercentage.Equal(decimal.NewFromInt(10)))

	raw := readFile(t, s, filestore.InvoicesFile)
	assert.Contains(t, raw, `"issue_date": "2026-03-10"`)
	assert.Contains(t, raw, `"created_date": "2026-03-10T14:30:00.250000"`)
}

func TestInvoiceRepo_DuplicadosPorIDYPorNumero(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, s.Invoices().Create(ctx, sampleInvoice("i1", "INV-2026-001", now)))

	assert.ErrorIs(t, s.Invoices().Create(ctx, sampleInvoice("i1", "INV-2026-002", now)), domain.ErrDuplicate)
	assert.ErrorIs(t, s.Invoices().Create(ctx, sampleInvoice("i2", "INV-2026-001", now)), domain.ErrDuplicate)
}

func TestInvoiceRepo_ListOrdenadaPorCreacionDesc(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.Local)
	require.NoError(t, s.Invoices().Create(ctx, sampleInvoice("a", "INV-2026-001", base)))
	require.NoError(t, s.Invoices().Create(ctx, sampleInvoice("c", "INV-2026-003", base.Add(2*time.Hour))))
	require.NoError(t, s.Invoices().Create(ctx, sampleInvoice("b", "INV-2026-002", base.Add(time.Hour))))

	list, err := s.Invoices().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{list[0].ID, list[1].ID, list[2].ID})

	nums, err := s.Invoices().ListNumbers(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"INV-2026-001", "INV-2026-002", "INV-2026-003"}, nums)
}

func TestInvoiceRepo_UpdateYDelete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, s.Invoices().Create(ctx, sampleInvoice("a", "INV-2026-001", now)))
	require.NoError(t, s.Invoices().Create(ctx, sampleInvoice("b", "INV-2026-002", now)))

	b, _ := s.Invoices().GetByID(ctx, "b")
	b.Status = entity.InvoiceStatusPaid
	require.NoError(t, s.Invoices().Update(ctx, b))
	got, _ := s.Invoices().GetByID(ctx, "b")
	assert.Equal(t, entity.InvoiceStatusPaid, got.Status)

	b.InvoiceNumber = "INV-2026-001"
	assert.ErrorIs(t, s.Invoices().Update(ctx, b), domain.ErrDuplicate, "el número pertenece a otra factura")

	require.NoError(t, s.Invoices().Delete(ctx, "a"))
	assert.ErrorIs(t, s.Invoices().Delete(ctx, "a"), domain.ErrNotFound)
	assert.ErrorIs(t, s.Invoices().Update(ctx, sampleInvoice("zz", "INV-2026-009", now)), domain.ErrNotFound)
}

func TestRunInvoiceCreation_ConcurrenteSinNumerosRepetidos(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	const n = 20

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.RunInvoiceCreation(ctx, func(repo repository.InvoiceRepository) error {
				nums, err := repo.ListNumbers(ctx)
				if err != nil {
					return err
				}
				num := numbering.Allocate(nums, 2026)
				return repo.Create(ctx, sampleInvoice(fmt.Sprintf("id-%d", i), num, time.Now()))
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	nums, err := s.Invoices().ListNumbers(ctx)
	require.NoError(t, err)
	require.Len(t, nums, n)
	seen := map[string]bool{}
	for _, num := range nums {
		assert.False(t, seen[num], "número repetido %s", num)
		seen[num] = true
	}
	assert.True(t, seen[numbering.Format(2026, n)])
}

// ── Limpieza, backup y restauración ──────────────────────────────────────────

func TestClearAll_DejaArchivosVacios(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.Company().Save(ctx, &entity.Company{Name: "X"}))
	require.NoError(t, s.Invoices().Create(ctx, sampleInvoice("a", "INV-2026-001", time.Now())))

	require.NoError(t, s.ClearAll(ctx))

	assert.Equal(t, "{}", readFile(t, s, filestore.CompanyFile))
	assert.Equal(t, "[]", readFile(t, s, filestore.InvoicesFile))
}

func TestBackupYRestore(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.Company().Save(ctx, &entity.Company{Name: "Dublin Steel"}))
	require.NoError(t, s.Invoices().Create(ctx, sampleInvoice("a", "INV-2026-001", time.Now())))

	backupDir := filepath.Join(t.TempDir(), "backups")
	path, err := s.Backup(backupDir, time.Date(2026, 3, 10, 14, 5, 9, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, "backup_20260310_140509.zip", filepath.Base(path))

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	zr.Close()
	assert.ElementsMatch(t, filestore.DataFiles, names)

	require.NoError(t, s.ClearAll(ctx))
	require.NoError(t, s.Restore(path))

	c, err := s.Company().Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Dublin Steel", c.Name)
	inv, err := s.Invoices().GetByID(ctx, "a")
	require.NoError(t, err)
	assert.NotNil(t, inv)
}

func TestRestore_IgnoraRutasFueraDelDirectorio(t *testing.T) {
	s := openStore(t)
	path := filepath.Join(t.TempDir(), "evil.zip")
	writeZip(t, path, map[string]string{
		"../outside.json":     `[]`,
		"nested/deep.json":    `[]`,
		"notes.txt":           `hola`,
		filestore.ClientsFile: `[{"id":"r1","name":"Restored"}]`,
	})

	require.NoError(t, s.Restore(path))

	_, err := os.Stat(filepath.Join(filepath.Dir(s.Dir()), "outside.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(s.Dir(), "notes.txt"))
	assert.True(t, os.IsNotExist(err))
	c, err := s.Clients().GetByID(context.Background(), "r1")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Ireland", c.Country, "valor por defecto")
}

func TestRestore_EntradaCorruptaNoModificaNada(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.Company().Save(ctx, &entity.Company{Name: "Dublin Steel"}))
	require.NoError(t, s.Invoices().Create(ctx, sampleInvoice("a", "INV-2026-001", time.Now())))
	companyBefore := readFile(t, s, filestore.CompanyFile)
	invoicesBefore := readFile(t, s, filestore.InvoicesFile)

	path := filepath.Join(t.TempDir(), "backup_20260310_090000.zip")
	writeZip(t, path, map[string]string{
		filestore.CompanyFile:  `{"name":"Otra"}`,
		filestore.InvoicesFile: `[{"id": "x", "shipping_cost": "mucho"`,
	})

	err := s.Restore(path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), filestore.InvoicesFile)

	assert.Equal(t, companyBefore, readFile(t, s, filestore.CompanyFile), "ningún archivo se reemplaza")
	assert.Equal(t, invoicesBefore, readFile(t, s, filestore.InvoicesFile))
	inv, err := s.Invoices().GetByID(ctx, "a")
	require.NoError(t, err)
	assert.NotNil(t, inv)
}

func TestRestore_ArchivoInexistente(t *testing.T) {
	s := openStore(t)
	err := s.Restore(filepath.Join(t.TempDir(), "nope.zip"))
	assert.ErrorIs(t, err, domain.ErrBackupUnavailable)
}
