package pets

import (
	"context"
	"strings"
	"sync"

	"pet-care-log/internal/platform/logger"
	"pet-care-log/internal/platform/notify"
	"pet-care-log/internal/ports/store"
)

// Selection guarda cuál es la mascota activa. La implementa session.Context;
// el único que escribe es el Roster.
type Selection interface {
	ActivePetID() string
	SetActivePetID(id string)
}

// Roster mantiene las mascotas del owner logueado y el invariante
// "si hay mascotas, hay una activa".
type Roster struct {
	repo Repository
	sel  Selection
	bus  *notify.Bus
	log  logger.Logger

	mu    sync.RWMutex
	pets  []Pet
	owner string
	// gen se incrementa en Reset; un Load que arrancó antes se descarta.
	gen uint64
}

func NewRoster(repo Repository, sel Selection, bus *notify.Bus, log logger.Logger) *Roster {
	if log == nil {
		log = logger.Nop()
	}
	return &Roster{
		repo: repo,
		sel:  sel,
		bus:  bus,
		log:  log.With(map[string]any{"component": "roster"}),
	}
}

// Load trae las mascotas del owner (created_at desc) y reemplaza el roster.
// Si falla, el roster queda como estaba.
func (r *Roster) Load(ctx context.Context, ownerID string) ([]Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrInvalidInput
	}

	r.mu.RLock()
	gen := r.gen
	r.mu.RUnlock()

	items, err := r.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		err = store.Wrap("pets.list", err)
		r.log.Error("load roster failed", map[string]any{"owner_id": ownerID, "error": err})
		r.bus.Notice(ctx, notify.LevelError, "Failed to load pets: "+err.Error())
		return nil, err
	}

	r.mu.Lock()
	if gen != r.gen {
		// hubo un Reset (sign-out) mientras cargaba
		r.mu.Unlock()
		r.log.Debug("discarding stale roster response", map[string]any{"owner_id": ownerID})
		return r.Pets(), nil
	}

	r.pets = append([]Pet(nil), items...)
	r.owner = ownerID

	selected, changed := r.reconcileSelectionLocked()
	out := append([]Pet(nil), r.pets...)
	r.mu.Unlock()

	r.log.Debug("roster loaded", map[string]any{"owner_id": ownerID, "count": len(out), "active_pet_id": selected})

	r.bus.Publish(ctx, notify.Event{Kind: notify.KindRosterChanged, OwnerID: ownerID})
	if changed {
		r.bus.Publish(ctx, notify.Event{Kind: notify.KindPetSelected, OwnerID: ownerID, PetID: selected})
	}
	return out, nil
}

// reconcileSelectionLocked aplica, como mucho, un cambio de selección:
// - la activa ya no existe => se limpia (sin re-elegir en esta misma carga)
// - no hay activa y hay mascotas => la primera
func (r *Roster) reconcileSelectionLocked() (string, bool) {
	active := r.sel.ActivePetID()

	if active != "" {
		if r.containsLocked(active) {
			return active, false
		}
		r.sel.SetActivePetID("")
		return "", true
	}

	if len(r.pets) == 0 {
		return "", false
	}
	first := r.pets[0].ID
	r.sel.SetActivePetID(first)
	return first, true
}

// Select cambia la mascota activa por pedido del usuario.
func (r *Roster) Select(ctx context.Context, petID string) error {
	petID = strings.TrimSpace(petID)

	r.mu.Lock()
	if !r.containsLocked(petID) {
		r.mu.Unlock()
		return ErrUnknownPet
	}
	if r.sel.ActivePetID() == petID {
		r.mu.Unlock()
		return nil
	}
	r.sel.SetActivePetID(petID)
	owner := r.owner
	r.mu.Unlock()

	r.bus.Publish(ctx, notify.Event{Kind: notify.KindPetSelected, OwnerID: owner, PetID: petID})
	return nil
}

// Reset vacía el roster y la selección (sign-out).
func (r *Roster) Reset(ctx context.Context) {
	r.mu.Lock()
	r.gen++
	hadActive := r.sel.ActivePetID() != ""
	r.pets = nil
	r.owner = ""
	r.sel.SetActivePetID("")
	r.mu.Unlock()

	r.bus.Publish(ctx, notify.Event{Kind: notify.KindRosterChanged})
	if hadActive {
		r.bus.Publish(ctx, notify.Event{Kind: notify.KindPetSelected})
	}
}

func (r *Roster) Pets() []Pet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Pet(nil), r.pets...)
}

func (r *Roster) Active() (Pet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id := r.sel.ActivePetID()
	if id == "" {
		return Pet{}, false
	}
	for _, p := range r.pets {
		if p.ID == id {
			return p, true
		}
	}
	return Pet{}, false
}

// Empty indica que hay que mostrar el "agregá tu primera mascota".
func (r *Roster) Empty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pets) == 0
}

func (r *Roster) containsLocked(id string) bool {
	if id == "" {
		return false
	}
	for _, p := range r.pets {
		if p.ID == id {
			return true
		}
	}
	return false
}
