// Package store define los errores comunes del remote store.
// Los adapters (memory, postgres, sqlite, rest) devuelven ErrNotFound cuando
// corresponde; los engines envuelven cualquier falla en *Error.
package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Error es una falla de cualquier llamada al store (red, permisos,
// constraint). Error() devuelve el mensaje original sin adornos: es lo que
// se le muestra al usuario.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("store: %s failed", e.Op)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap envuelve err en *Error (nil si err es nil; no re-envuelve).
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Err: err}
}

// IsStoreError indica si err viene del store.
func IsStoreError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}
