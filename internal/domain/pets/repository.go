package pets

import "context"

// Repository es el contrato del remote store para la tabla pets.
// ListByOwner devuelve created_at desc (la más nueva primero).
type Repository interface {
	Create(ctx context.Context, p Pet) (Pet, error)
	GetByID(ctx context.Context, id string) (Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
}
