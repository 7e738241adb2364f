package filestore

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/steel-billing/internal/domain"
)

// Backup empaqueta los archivos *.json del directorio de datos en
// backupDir/backup_<aaaammdd_hhmmss>.zip y devuelve la ruta creada.
func (s *Store) Backup(backupDir string, now time.Time) (string, error) {
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("backup: crear directorio %s: %w", backupDir, err)
	}
	path := filepath.Join(backupDir, "backup_"+now.Format("20060102_150405")+".zip")

	err := s.WithLock(func(dir string) error {
		matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("backup: crear %s: %w", path, err)
		}
		defer f.Close()

		zw := zip.NewWriter(f)
		for _, m := range matches {
			if err := addFile(zw, m); err != nil {
				return err
			}
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("backup: cerrar zip: %w", err)
		}
		return f.Close()
	})
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func addFile(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("backup: abrir %s: %w", path, err)
	}
	defer src.Close()
	fw, err := zw.Create(filepath.Base(path))
	if err != nil {
		return fmt.Errorf("backup: crear entrada %s: %w", filepath.Base(path), err)
	}
	if _, err := io.Copy(fw, src); err != nil {
		return fmt.Errorf("backup: escribir %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Restore reemplaza los archivos de datos con los del zip. Solo se extraen los archivos
// de datos conocidos en la raíz del zip; cualquier otra entrada se ignora. Cada entrada se
// decodifica con su tipo de registro antes de escribir nada: si alguna no es válida, el
// zip se rechaza entero con domain.ErrInvalidInput y los datos actuales no cambian.
func (s *Store) Restore(zipPath string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrBackupUnavailable, filepath.Base(zipPath), err)
	}
	defer zr.Close()

	entries := make(map[string][]byte, len(DataFiles))
	for _, zf := range zr.File {
		if !isDataFile(zf.Name) {
			continue
		}
		data, err := readEntry(zf)
		if err != nil {
			return err
		}
		if err := checkRecords(zf.Name, data); err != nil {
			return fmt.Errorf("%w: backup entry %s: %v", domain.ErrInvalidInput, zf.Name, err)
		}
		entries[zf.Name] = data
	}

	return s.WithLock(func(dir string) error {
		for _, name := range DataFiles {
			data, ok := entries[name]
			if !ok {
				continue
			}
			if err := writeAtomic(filepath.Join(dir, name), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func isDataFile(name string) bool {
	for _, f := range DataFiles {
		if name == f {
			return true
		}
	}
	return false
}

// checkRecords decodifica data con el tipo de registro de name. Vacío equivale a sin datos.
func checkRecords(name string, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var v any
	switch name {
	case CompanyFile:
		v = &companyRecord{}
	case ClientsFile:
		v = &[]clientRecord{}
	case ProductsFile:
		v = &[]productRecord{}
	case InvoicesFile:
		v = &[]invoiceRecord{}
	default:
		return fmt.Errorf("archivo desconocido")
	}
	return json.Unmarshal(data, v)
}

func readEntry(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, fmt.Errorf("restore: abrir %s: %w", zf.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("restore: leer %s: %w", zf.Name, err)
	}
	return data, nil
}
