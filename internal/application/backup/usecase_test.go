package backup_test

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jhoicas/steel-billing/internal/application/backup"
	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/internal/domain/entity"
	"github.com/jhoicas/steel-billing/internal/infrastructure/filestore"
	"github.com/jhoicas/steel-billing/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) *filestore.Store {
	t.Helper()
	s, err := filestore.Open(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.Company().Save(ctx, &entity.Company{Name: "Dublin Steel"}))
	require.NoError(t, s.Clients().Create(ctx, &entity.Client{ID: "c1", Name: "Acme"}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Bar", IsActive: true}))
	require.NoError(t, s.Invoices().Create(ctx, &entity.Invoice{
		ID: "i1", InvoiceNumber: "INV-2026-001", ClientID: "c1", ClientName: "Acme",
		Status:  entity.InvoiceStatusPaid,
		Items:   []entity.InvoiceItem{{ProductName: "Bar", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10)}},
		VATRate: decimal.NewFromInt(23),
	}))
	return s
}

func repos(s *filestore.Store) backup.Repos {
	return backup.Repos{Company: s.Company(), Clients: s.Clients(), Products: s.Products(), Invoices: s.Invoices()}
}

func TestStatsYClearAll(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	uc := backup.NewUseCase(repos(s), s, s, t.TempDir(), logger.Nop())

	st, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, st.CompanyConfigured)
	assert.Equal(t, 1, st.ClientsCount)
	assert.Equal(t, 1, st.ProductsCount)
	assert.Equal(t, 1, st.InvoicesCount)

	require.NoError(t, uc.ClearAll(ctx))
	st, err = uc.Stats(ctx)
	require.NoError(t, err)
	assert.False(t, st.CompanyConfigured)
	assert.Zero(t, st.ClientsCount+st.ProductsCount+st.InvoicesCount)
}

func TestExport_IncluyeTodoConImportes(t *testing.T) {
	s := seeded(t)
	uc := backup.NewUseCase(repos(s), s, s, t.TempDir(), logger.Nop()).
		WithClock(func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local) })

	out, err := uc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10T09:00:00.000000", out.ExportedAt)
	require.NotNil(t, out.Company)
	assert.Equal(t, "Dublin Steel", out.Company.Name)
	assert.Len(t, out.Clients, 1)
	assert.Len(t, out.Products, 1)
	require.Len(t, out.Invoices, 1)
	assert.True(t, decimal.RequireFromString("24.6").Equal(out.Invoices[0].Totals.TotalAmount))
}

func TestBackupYRestore(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	dir := t.TempDir()
	uc := backup.NewUseCase(repos(s), s, s, dir, logger.Nop()).
		WithClock(func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local) })

	b, err := uc.CreateBackup(ctx)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "backup_20260310_090000.zip"), b.Path)
	assert.Equal(t, "backup_20260310_090000.zip", b.Name)

	require.NoError(t, uc.ClearAll(ctx))
	require.NoError(t, uc.Restore(ctx, b.Name))

	st, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.InvoicesCount)

	assert.ErrorIs(t, uc.Restore(ctx, "missing.zip"), domain.ErrNotFound)
	assert.ErrorIs(t, uc.Restore(ctx, ""), domain.ErrInvalidInput)
}

func TestRestore_SoloNombresDelDirectorioDeBackups(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	dir := t.TempDir()
	uc := backup.NewUseCase(repos(s), s, s, dir, logger.Nop()).
		WithClock(func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local) })
	b, err := uc.CreateBackup(ctx)
	require.NoError(t, err)

	// Un zip válido fuera del directorio de backups.
	outside := filepath.Join(t.TempDir(), "backup_20260101_000000.zip")
	data, err := os.ReadFile(b.Path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(outside, data, 0o644))

	for _, name := range []string{
		b.Path,
		outside,
		"../" + filepath.Base(outside),
		"sub/" + b.Name,
		"..",
		"company.json",
	} {
		err := uc.Restore(ctx, name)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
}

func TestRestore_BackupCorruptoNoCambiaLosDatos(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	dir := t.TempDir()
	uc := backup.NewUseCase(repos(s), s, s, dir, logger.Nop())

	name := "backup_20260310_090000.zip"
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create(filestore.InvoicesFile)
	require.NoError(t, err)
	_, err = w.Write([]byte(`{"no es": "una lista"}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	err = uc.Restore(ctx, name)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	st, err := uc.Stats(ctx)
	require.NoError(t, err, "el almacén sigue legible")
	assert.Equal(t, 1, st.InvoicesCount)
}

func TestBackup_SinArchivador(t *testing.T) {
	s := seeded(t)
	uc := backup.NewUseCase(repos(s), nil, s, t.TempDir(), logger.Nop())

	_, err := uc.CreateBackup(context.Background())
	assert.ErrorIs(t, err, domain.ErrBackupUnavailable)
	assert.ErrorIs(t, uc.Restore(context.Background(), "x.zip"), domain.ErrBackupUnavailable)
}
