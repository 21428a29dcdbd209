package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-care-log/internal/domain/pets"
	"pet-care-log/internal/ports/store"

	"github.com/google/uuid"
)

type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
	seq  int64
	ins  map[string]int64 // orden de inserción, desempata created_at iguales
	now  func() time.Time
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID: make(map[string]pets.Pet),
		ins:  make(map[string]int64),
		now:  time.Now,
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.OwnerID) == "" {
		return pets.Pet{}, errors.New("pet owner required")
	}
	// como un store real: si no viene id/created_at, los asigna el store
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.now().UTC()
	}
	if _, exists := r.byID[p.ID]; exists {
		return pets.Pet{}, store.ErrConflict
	}

	r.seq++
	r.byID[p.ID] = p
	r.ins[p.ID] = r.seq
	return p, nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, store.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}

	// created_at desc; a igual created_at, la insertada después primero
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.ins[out[i].ID] > r.ins[out[j].ID]
	})

	return out, nil
}
