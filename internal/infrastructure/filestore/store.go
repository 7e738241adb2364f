// Package filestore implementa los repositorios sobre archivos JSON en un directorio de
// datos (company.json, clients.json, products.json, invoices.json), con el mismo formato
// de registro que la versión de escritorio de la aplicación.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/steel-billing/internal/domain/repository"
)

// Archivos de datos.
const (
	CompanyFile  = "company.json"
	ClientsFile  = "clients.json"
	ProductsFile = "products.json"
	InvoicesFile = "invoices.json"
)

// DataFiles archivos administrados por el almacén, en orden estable.
var DataFiles = []string{CompanyFile, ClientsFile, ProductsFile, InvoicesFile}

// Store almacén de archivos JSON.
//
// mu protege cada lectura-modificación-escritura de un archivo. createMu serializa la
// creación de facturas completa (leer números → asignar → insertar) dentro del proceso.
type Store struct {
	dir      string
	mu       sync.Mutex
	createMu sync.Mutex
}

var (
	_ repository.InvoiceCreationRunner = (*Store)(nil)
	_ repository.DataResetter          = (*Store)(nil)
)

// Open abre (o inicializa) el directorio de datos: crea los archivos que falten con
// "{}" para la empresa y "[]" para las listas.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: crear directorio %s: %w", dir, err)
	}
	s := &Store{dir: dir}
	for _, name := range DataFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("filestore: %s: %w", name, err)
		}
		if err := writeAtomic(path, emptyContent(name)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Dir directorio de datos.
func (s *Store) Dir() string { return s.dir }

// Company repositorio de empresa.
func (s *Store) Company() *CompanyRepo { return &CompanyRepo{s: s} }

// Clients repositorio de clientes.
func (s *Store) Clients() *ClientRepo { return &ClientRepo{s: s} }

// Products repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Invoices repositorio de facturas.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s: s} }

// RunInvoiceCreation ejecuta fn con exclusión mutua respecto a otras creaciones de factura.
func (s *Store) RunInvoiceCreation(ctx context.Context, fn func(repo repository.InvoiceRepository) error) error {
	s.createMu.Lock()
	defer s.createMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s.Invoices())
}

// ClearAll deja la empresa en "{}" y las listas en "[]".
func (s *Store) ClearAll(ctx context.Context) error {
	return s.WithLock(func(dir string) error {
		for _, name := range DataFiles {
			if err := writeAtomic(filepath.Join(dir, name), emptyContent(name)); err != nil {
				return err
			}
		}
		return nil
	})
}

// WithLock ejecuta fn con el almacén bloqueado (ni lecturas ni escrituras concurrentes).
func (s *Store) WithLock(fn func(dir string) error) error {
	s.createMu.Lock()
	defer s.createMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.dir)
}

func emptyContent(name string) []byte {
	if name == CompanyFile {
		return []byte("{}")
	}
	return []byte("[]")
}

// ── Lectura / escritura ──────────────────────────────────────────────────────

// load lee name en v. Un archivo inexistente o vacío deja v sin cambios.
// Debe llamarse con s.mu tomado.
func (s *Store) load(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(data) == 0) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("filestore: leer %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("filestore: %s corrupto: %w", name, err)
	}
	return nil
}

// save escribe v en name con sangría de 2 espacios. Debe llamarse con s.mu tomado.
func (s *Store) save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: serializar %s: %w", name, err)
	}
	return writeAtomic(filepath.Join(s.dir, name), data)
}

// writeAtomic escribe en un temporal del mismo directorio y lo renombra.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("filestore: crear temporal: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("filestore: permisos %s: %w", filepath.Base(path), err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("filestore: escribir %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("filestore: cerrar %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("filestore: reemplazar %s: %w", filepath.Base(path), err)
	}
	return nil
}
