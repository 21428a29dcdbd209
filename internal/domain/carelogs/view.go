package carelogs

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-care-log/internal/platform/logger"
	"pet-care-log/internal/platform/notify"
	"pet-care-log/internal/ports/store"
)

// ErrStaleResponse: la carga terminó pero la mascota activa ya es otra (o
// ya se aplicó una respuesta más nueva). No es un error para el usuario.
var ErrStaleResponse = errors.New("stale response discarded")

// ActivePet lo implementa session.Context.
type ActivePet interface {
	ActivePetID() string
}

// View tiene los logs de una sola mascota y la vista filtrada que se renderiza.
type View struct {
	repo   Repository
	active ActivePet
	bus    *notify.Bus
	log    logger.Logger

	mu      sync.RWMutex
	petID   string
	logs    []Log
	visible []Log
	filter  FilterType
	search  string

	// issued numera cada carga; applied es la última resuelta, con datos o
	// con error.
	issued  uint64
	applied uint64
}

func NewView(repo Repository, active ActivePet, bus *notify.Bus, log logger.Logger) *View {
	if log == nil {
		log = logger.Nop()
	}
	return &View{
		repo:   repo,
		active: active,
		bus:    bus,
		log:    log.With(map[string]any{"component": "log_view"}),
		filter: FilterAll,
	}
}

// Switch cambia de mascota: descarta los logs anteriores (sin cache entre
// mascotas) y carga los nuevos. petID vacío deja la vista vacía.
func (v *View) Switch(ctx context.Context, petID string) error {
	petID = strings.TrimSpace(petID)

	v.mu.Lock()
	v.resetLocked(petID)
	v.mu.Unlock()

	v.bus.Publish(ctx, notify.Event{Kind: notify.KindLogsChanged, PetID: petID})

	if petID == "" {
		return nil
	}
	_, err := v.Load(ctx, petID)
	return err
}

// Reload vuelve a cargar la mascota actual (después de una mutación).
func (v *View) Reload(ctx context.Context) error {
	v.mu.RLock()
	petID := v.petID
	v.mu.RUnlock()

	if petID == "" {
		return nil
	}
	_, err := v.Load(ctx, petID)
	return err
}

// Load trae los logs de petID. Cada carga queda marcada con el pet para el que
// se pidió; si cuando vuelve la activa es otra, se descarta en silencio.
// Si el store falla se mantiene la vista anterior y se avisa.
func (v *View) Load(ctx context.Context, petID string) ([]Log, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, errors.New("pet id required")
	}

	v.mu.Lock()
	switched := false
	if petID != v.petID {
		v.resetLocked(petID)
		switched = true
	}
	v.issued++
	token := v.issued
	v.mu.Unlock()

	if switched {
		v.bus.Publish(ctx, notify.Event{Kind: notify.KindLogsChanged, PetID: petID})
	}

	items, err := v.repo.ListByPet(ctx, petID)

	v.mu.Lock()
	if v.isStaleLocked(petID, token) {
		v.mu.Unlock()
		v.log.Debug("discarding stale logs response", map[string]any{"pet_id": petID, "load": token})
		return nil, ErrStaleResponse
	}

	if err != nil {
		// una carga más vieja que siga en vuelo ya no puede pisar la vista
		v.applied = token
		v.mu.Unlock()
		err = store.Wrap("logs.list", err)
		v.log.Error("load logs failed", map[string]any{"pet_id": petID, "error": err})
		v.bus.Notice(ctx, notify.LevelError, "Failed to load logs: "+err.Error())
		return nil, err
	}

	loaded := append([]Log(nil), items...)
	SortForView(loaded)

	v.logs = loaded
	v.applied = token
	v.visible = DeriveView(v.logs, v.filter, v.search)
	out := append([]Log(nil), v.logs...)
	v.mu.Unlock()

	v.bus.Publish(ctx, notify.Event{Kind: notify.KindLogsChanged, PetID: petID})
	return out, nil
}

func (v *View) isStaleLocked(petID string, token uint64) bool {
	if petID != v.petID {
		return true
	}
	if v.active != nil && v.active.ActivePetID() != petID {
		return true
	}
	return token < v.applied
}

func (v *View) resetLocked(petID string) {
	v.petID = petID
	v.logs = nil
	v.visible = nil
}

func (v *View) SetFilter(ctx context.Context, f FilterType) {
	if f == "" {
		f = FilterAll
	}
	v.mu.Lock()
	v.filter = f
	v.visible = DeriveView(v.logs, v.filter, v.search)
	petID := v.petID
	v.mu.Unlock()

	v.bus.Publish(ctx, notify.Event{Kind: notify.KindLogsChanged, PetID: petID})
}

func (v *View) SetSearch(ctx context.Context, term string) {
	v.mu.Lock()
	v.search = term
	v.visible = DeriveView(v.logs, v.filter, v.search)
	petID := v.petID
	v.mu.Unlock()

	v.bus.Publish(ctx, notify.Event{Kind: notify.KindLogsChanged, PetID: petID})
}

// Clear vuelve al estado inicial (sign-out).
func (v *View) Clear(ctx context.Context) {
	v.mu.Lock()
	v.resetLocked("")
	v.filter = FilterAll
	v.search = ""
	v.mu.Unlock()

	v.bus.Publish(ctx, notify.Event{Kind: notify.KindLogsChanged})
}

func (v *View) PetID() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.petID
}

// Logs es la colección cargada (ya ordenada).
func (v *View) Logs() []Log {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]Log(nil), v.logs...)
}

// Visible es lo que se renderiza.
func (v *View) Visible() []Log {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]Log(nil), v.visible...)
}

func (v *View) Filter() (FilterType, string) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filter, v.search
}
