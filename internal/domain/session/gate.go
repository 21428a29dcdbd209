package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"pet-care-log/internal/platform/logger"
	"pet-care-log/internal/platform/notify"
	"pet-care-log/internal/ports/auth"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// AuthPath es a donde se manda al usuario sin sesión.
const AuthPath = "/auth"

// Gate observa el stream de sesión y decide si se puede entrar al dashboard.
// Cada notificación se re-evalúa: un sign-out a mitad de sesión revoca el
// acceso en el momento.
type Gate struct {
	src  auth.SessionSource
	sctx *Context
	bus  *notify.Bus
	log  logger.Logger

	mu       sync.RWMutex
	current  auth.Session
	seen     bool
	ready    chan struct{}
	readyOne sync.Once
}

func NewGate(src auth.SessionSource, sctx *Context, bus *notify.Bus, log logger.Logger) *Gate {
	if log == nil {
		log = logger.Nop()
	}
	return &Gate{
		src:   src,
		sctx:  sctx,
		bus:   bus,
		log:   log.With(map[string]any{"component": "session_gate"}),
		ready: make(chan struct{}),
	}
}

// Run consume el stream hasta que se cierra o ctx termina.
func (g *Gate) Run(ctx context.Context) error {
	ch, err := g.src.Sessions(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to sessions: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-ch:
			if !ok {
				return nil
			}
			g.apply(ctx, s)
		}
	}
}

func (g *Gate) apply(ctx context.Context, s auth.Session) {
	s.UserID = strings.TrimSpace(s.UserID)
	if s.UserID == "" {
		s.Authenticated = false
	}
	if !s.Authenticated {
		s.UserID = ""
	}

	g.mu.Lock()
	changed := !g.seen || g.current != s
	g.current = s
	g.seen = true
	g.mu.Unlock()

	if s.Authenticated {
		g.sctx.setOwnerID(s.UserID)
	} else {
		g.sctx.setOwnerID("")
	}

	if changed {
		if s.Authenticated {
			g.log.Info("session admitted", map[string]any{"owner_id": s.UserID})
			g.bus.Publish(ctx, notify.Event{
				Kind:          notify.KindSessionChanged,
				OwnerID:       s.UserID,
				Authenticated: true,
			})
		} else {
			g.log.Info("session revoked", nil)
			g.bus.Publish(ctx, notify.Event{
				Kind:       notify.KindSessionChanged,
				RedirectTo: AuthPath,
			})
		}
	}

	g.readyOne.Do(func() { close(g.ready) })
}

// Ready se cierra cuando se procesó el primer estado del stream.
func (g *Gate) Ready() <-chan struct{} {
	return g.ready
}

// Admitted devuelve el owner admitido, si hay.
func (g *Gate) Admitted() (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.current.Authenticated {
		return "", false
	}
	return g.current.UserID, true
}

// SignOut termina la sesión en la fuente. No redirige: la redirección llega
// por el mismo stream, como cualquier otro cambio de sesión.
func (g *Gate) SignOut(ctx context.Context) error {
	if err := g.src.SignOut(ctx); err != nil {
		g.log.Error("sign out failed", map[string]any{"error": err})
		g.bus.Notice(ctx, notify.LevelError, err.Error())
		return err
	}
	g.bus.Notice(ctx, notify.LevelSuccess, "Signed out successfully")
	return nil
}
