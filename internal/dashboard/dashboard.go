// Package dashboard arma el flujo completo del lado cliente:
// sesión admitida -> roster -> logs de la mascota activa -> mutaciones ->
// recarga del engine dueño.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"pet-care-log/internal/domain/carelogs"
	"pet-care-log/internal/domain/mutations"
	"pet-care-log/internal/domain/pets"
	"pet-care-log/internal/domain/session"
	"pet-care-log/internal/platform/logger"
	"pet-care-log/internal/platform/notify"
	"pet-care-log/internal/ports/auth"
	"pet-care-log/internal/ports/blob"
)

type Deps struct {
	Sessions auth.SessionSource
	Pets     pets.Repository
	Logs     carelogs.Repository
	Blobs    blob.Store
	Bus      *notify.Bus // opcional; si es nil se crea uno
	Logger   logger.Logger
}

type Dashboard struct {
	Context   *session.Context
	Gate      *session.Gate
	Roster    *pets.Roster
	View      *carelogs.View
	Mutations *mutations.Service
	Bus       *notify.Bus

	log logger.Logger

	mu    sync.Mutex
	owner string

	unsubscribe []func()
}

func New(d Deps) *Dashboard {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	bus := d.Bus
	if bus == nil {
		bus = notify.NewBus()
	}

	sctx := session.NewContext()
	db := &Dashboard{
		Context: sctx,
		Gate:    session.NewGate(d.Sessions, sctx, bus, log),
		Roster:  pets.NewRoster(d.Pets, sctx, bus, log),
		View:    carelogs.NewView(d.Logs, sctx, bus, log),
		Mutations: mutations.NewService(mutations.Deps{
			Pets:   d.Pets,
			Logs:   d.Logs,
			Blobs:  d.Blobs,
			Scope:  sctx,
			Bus:    bus,
			Logger: log,
		}),
		Bus: bus,
		log: log.With(map[string]any{"component": "dashboard"}),
	}

	db.unsubscribe = append(db.unsubscribe,
		bus.Subscribe(db.onSession, notify.KindSessionChanged),
		bus.Subscribe(db.onPetSelected, notify.KindPetSelected),
		bus.Subscribe(db.onPetCreated, notify.KindPetCreated),
		bus.Subscribe(db.onLogMutated, notify.KindLogCreated, notify.KindLogDeleted),
	)
	return db
}

// Run corre el Gate hasta que se cierre el stream de sesión o ctx termine.
func (d *Dashboard) Run(ctx context.Context) error {
	return d.Gate.Run(ctx)
}

// Close suelta las suscripciones al bus.
func (d *Dashboard) Close() {
	for _, fn := range d.unsubscribe {
		fn()
	}
	d.unsubscribe = nil
}

func (d *Dashboard) onSession(ctx context.Context, e notify.Event) {
	d.mu.Lock()
	prev := d.owner
	if e.Authenticated {
		d.owner = e.OwnerID
	} else {
		d.owner = ""
	}
	d.mu.Unlock()

	if !e.Authenticated {
		d.Roster.Reset(ctx)
		d.View.Clear(ctx)
		return
	}

	// cambio de usuario sin sign-out en el medio
	if prev != "" && prev != e.OwnerID {
		d.Roster.Reset(ctx)
		d.View.Clear(ctx)
	}
	_, _ = d.Roster.Load(ctx, e.OwnerID)
}

func (d *Dashboard) onPetSelected(ctx context.Context, e notify.Event) {
	err := d.View.Switch(ctx, e.PetID)
	if err != nil && !errors.Is(err, carelogs.ErrStaleResponse) {
		d.log.Debug("switch pet failed", map[string]any{"pet_id": e.PetID, "error": err})
	}
}

func (d *Dashboard) onPetCreated(ctx context.Context, e notify.Event) {
	owner := d.currentOwner()
	if owner == "" {
		return
	}
	_, _ = d.Roster.Load(ctx, owner)
}

func (d *Dashboard) onLogMutated(ctx context.Context, e notify.Event) {
	if e.PetID == "" || e.PetID != d.View.PetID() {
		return
	}
	if err := d.View.Reload(ctx); err != nil && !errors.Is(err, carelogs.ErrStaleResponse) {
		d.log.Debug("reload after mutation failed", map[string]any{"pet_id": e.PetID, "error": err})
	}
}

func (d *Dashboard) currentOwner() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.owner
}

// Refresh recarga roster y logs a pedido del usuario.
func (d *Dashboard) Refresh(ctx context.Context) error {
	owner := d.currentOwner()
	if owner == "" {
		return session.ErrNotAuthenticated
	}
	if _, err := d.Roster.Load(ctx, owner); err != nil {
		return err
	}
	return d.View.Reload(ctx)
}
