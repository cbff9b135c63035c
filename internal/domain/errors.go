package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrUnknownCategory   = errors.New("categoría desconocida")
	ErrUnknownField      = errors.New("campo desconocido")
	ErrReference         = errors.New("referencia no resoluble")
	ErrConcurrency       = errors.New("conflicto de concurrencia en el almacenamiento")
	ErrDanglingReference = errors.New("referencia colgante en el grafo")
)

// SchemaError indica una categoría o un campo que no existe en el esquema.
type SchemaError struct {
	Category string
	Field    string // vacío si el problema es la categoría
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("campo %q desconocido en la categoría %q", e.Field, e.Category)
	}
	return fmt.Sprintf("categoría %q desconocida", e.Category)
}

func (e *SchemaError) Unwrap() error {
	if e.Field != "" {
		return ErrUnknownField
	}
	return ErrUnknownCategory
}

// ReferenceError indica un publicId de padre/hijo que no se pudo resolver.
// Aborta la transacción que lo contiene.
type ReferenceError struct {
	Field    string
	PublicID string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: no existe la entidad %q", e.Field, e.PublicID)
}

func (e *ReferenceError) Unwrap() error { return ErrReference }

// ConcurrencyError envuelve contención de locks, deadlocks o timeouts del almacenamiento.
type ConcurrencyError struct {
	Op  string
	Err error
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap permite errors.Is(err, ErrConcurrency) y también llegar al error original.
func (e *ConcurrencyError) Unwrap() []error { return []error{ErrConcurrency, e.Err} }
