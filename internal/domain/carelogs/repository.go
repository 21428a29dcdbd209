package carelogs

import "context"

// Repository es el contrato del remote store para la tabla logs.
// ListByPet devuelve timestamp desc, seq asc. Delete de un id inexistente
// devuelve store.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, l Log) (Log, error)
	GetByID(ctx context.Context, id string) (Log, error)
	ListByPet(ctx context.Context, petID string) ([]Log, error)
	Delete(ctx context.Context, id string) error
}
