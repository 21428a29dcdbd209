package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-care-log/internal/domain/carelogs"
	"pet-care-log/internal/ports/store"

	"github.com/google/uuid"
)

type logRepo struct {
	mu   sync.RWMutex
	byID map[string]carelogs.Log
	seq  int64
}

func NewLogRepo() carelogs.Repository {
	return &logRepo{
		byID: make(map[string]carelogs.Log),
	}
}

func (r *logRepo) Create(ctx context.Context, l carelogs.Log) (carelogs.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(l.PetID) == "" {
		return carelogs.Log{}, errors.New("log pet_id required")
	}
	if strings.TrimSpace(l.ID) == "" {
		l.ID = uuid.NewString()
	}
	if _, exists := r.byID[l.ID]; exists {
		return carelogs.Log{}, store.ErrConflict
	}

	r.seq++
	l.Seq = r.seq
	r.byID[l.ID] = l
	return l, nil
}

func (r *logRepo) GetByID(ctx context.Context, id string) (carelogs.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byID[id]
	if !ok {
		return carelogs.Log{}, store.ErrNotFound
	}
	return l, nil
}

func (r *logRepo) ListByPet(ctx context.Context, petID string) ([]carelogs.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]carelogs.Log, 0)
	for _, l := range r.byID {
		if l.PetID == petID {
			out = append(out, l)
		}
	}

	// timestamp desc, empate por orden de inserción
	carelogs.SortForView(out)
	return out, nil
}

func (r *logRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
