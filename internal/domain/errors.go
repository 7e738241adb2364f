package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrCompanyNotConfigured = errors.New("datos de la empresa no configurados")
	ErrBackupUnavailable    = errors.New("respaldo no disponible")
)

// Invalid agrupa errores de validación bajo ErrInvalidInput. Devuelve nil si errs está vacío.
func Invalid(errs ...error) error {
	joined := errors.Join(errs...)
	if joined == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, joined)
}

// ReferenceError registro referenciado desde una petición (cliente, producto) que no existe.
// Se compara como ErrNotFound.
type ReferenceError struct {
	Kind string
	ID   string
}

func (e *ReferenceError) Error() string { return fmt.Sprintf("%s %s not found", e.Kind, e.ID) }

func (e *ReferenceError) Unwrap() error { return ErrNotFound }
