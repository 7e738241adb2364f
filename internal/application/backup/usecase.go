// Package backup contiene las operaciones de mantenimiento de datos: copias de seguridad,
// restauración, exportación completa, conteos y borrado.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhoicas/steel-billing/internal/application/billing"
	"github.com/jhoicas/steel-billing/internal/application/catalog"
	"github.com/jhoicas/steel-billing/internal/application/dto"
	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/internal/domain/repository"
	"github.com/jhoicas/steel-billing/pkg/logger"
)

// Archiver empaqueta y restaura los archivos de datos. Solo lo implementa el almacén de archivos.
type Archiver interface {
	Backup(backupDir string, now time.Time) (string, error)
	Restore(zipPath string) error
}

// Repos repositorios leídos por Export y Stats.
type Repos struct {
	Company  repository.CompanyRepository
	Clients  repository.ClientRepository
	Products repository.ProductRepository
	Invoices repository.InvoiceRepository
}

// UseCase casos de uso de mantenimiento.
type UseCase struct {
	repos     Repos
	archiver  Archiver // nil con PostgreSQL
	resetter  repository.DataResetter
	backupDir string
	clock     func() time.Time
	log       *logger.Logger
}

// NewUseCase construye el caso de uso. archiver puede ser nil: CreateBackup y Restore
// devuelven entonces domain.ErrBackupUnavailable.
func NewUseCase(repos Repos, archiver Archiver, resetter repository.DataResetter, backupDir string, log *logger.Logger) *UseCase {
	return &UseCase{
		repos:     repos,
		archiver:  archiver,
		resetter:  resetter,
		backupDir: backupDir,
		clock:     time.Now,
		log:       log.Component("backup"),
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(clock func() time.Time) *UseCase {
	uc.clock = clock
	return uc
}

// CreateBackup genera backup_<aaaammdd_hhmmss>.zip en el directorio de backups.
func (uc *UseCase) CreateBackup(ctx context.Context) (*dto.BackupResponse, error) {
	if uc.archiver == nil {
		return nil, domain.ErrBackupUnavailable
	}
	path, err := uc.archiver.Backup(uc.backupDir, uc.clock())
	if err != nil {
		return nil, fmt.Errorf("backup: %w", err)
	}
	uc.log.Info().Str("path", path).Msg("backup creado")
	return &dto.BackupResponse{Name: filepath.Base(path), Path: path}, nil
}

// Restore reemplaza los datos con el contenido de un backup del directorio de backups.
// name es solo el nombre del archivo (backup_<...>.zip); no se aceptan rutas.
func (uc *UseCase) Restore(ctx context.Context, name string) error {
	if uc.archiver == nil {
		return domain.ErrBackupUnavailable
	}
	if name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if name != filepath.Base(name) || name == "." || name == ".." || !strings.HasSuffix(name, ".zip") {
		return fmt.Errorf("%w: name must be a backup file name, not a path", domain.ErrInvalidInput)
	}
	path := filepath.Join(uc.backupDir, name)
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return &domain.ReferenceError{Kind: "backup", ID: name}
	}
	if err := uc.archiver.Restore(path); err != nil {
		return err
	}
	uc.log.Warn().Str("backup", name).Msg("datos restaurados desde backup")
	return nil
}

// Export devuelve todos los datos en un único documento.
func (uc *UseCase) Export(ctx context.Context) (*dto.ExportResponse, error) {
	company, err := uc.repos.Company.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: empresa: %w", err)
	}
	clients, err := uc.repos.Clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: clientes: %w", err)
	}
	products, err := uc.repos.Products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: productos: %w", err)
	}
	invoices, err := uc.repos.Invoices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: facturas: %w", err)
	}

	resp := &dto.ExportResponse{
		ExportedAt: uc.clock().Format(billing.TimestampLayout),
		Clients:    make([]dto.ClientResponse, 0, len(clients)),
		Products:   make([]dto.ProductResponse, 0, len(products)),
		Invoices:   make([]dto.InvoiceResponse, 0, len(invoices)),
	}
	if company != nil {
		c := dto.CompanyRequest(*company)
		resp.Company = &c
	}
	for _, c := range clients {
		resp.Clients = append(resp.Clients, *catalog.ToClientResponse(c))
	}
	for _, p := range products {
		resp.Products = append(resp.Products, *catalog.ToProductResponse(p))
	}
	for _, inv := range invoices {
		resp.Invoices = append(resp.Invoices, *billing.ToInvoiceResponse(inv))
	}
	return resp, nil
}

// Stats devuelve los conteos por tipo de dato.
func (uc *UseCase) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	company, err := uc.repos.Company.Get(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := uc.repos.Clients.List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := uc.repos.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	numbers, err := uc.repos.Invoices.ListNumbers(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.StatsResponse{
		CompanyConfigured: company.Configured(),
		ClientsCount:      len(clients),
		ProductsCount:     len(products),
		InvoicesCount:     len(numbers),
	}, nil
}

// ClearAll borra todos los datos. No se puede deshacer.
func (uc *UseCase) ClearAll(ctx context.Context) error {
	if err := uc.resetter.ClearAll(ctx); err != nil {
		return fmt.Errorf("backup: borrar datos: %w", err)
	}
	uc.log.Warn().Msg("todos los datos fueron borrados")
	return nil
}
