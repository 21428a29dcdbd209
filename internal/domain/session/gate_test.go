package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-care-log/internal/adapters/auth/memory"
	"pet-care-log/internal/domain/session"
	"pet-care-log/internal/platform/notify"
	"pet-care-log/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) handle(ctx context.Context, e notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) sessionEvents() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notify.Event
	for _, e := range r.events {
		if e.Kind == notify.KindSessionChanged {
			out = append(out, e)
		}
	}
	return out
}

func startGate(t *testing.T, src auth.SessionSource) (*session.Gate, *session.Context, *recorder) {
	t.Helper()
	bus := notify.NewBus()
	rec := &recorder{}
	bus.Subscribe(rec.handle)

	sctx := session.NewContext()
	g := session.NewGate(src, sctx, bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case <-g.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("gate never became ready")
	}
	return g, sctx, rec
}

func TestGate_AdmitsInitialSession(t *testing.T) {
	src := memory.NewSignedIn("u1")
	g, sctx, rec := startGate(t, src)

	owner, ok := g.Admitted()
	require.True(t, ok)
	assert.Equal(t, "u1", owner)
	assert.Equal(t, "u1", sctx.OwnerID())

	evs := rec.sessionEvents()
	require.Len(t, evs, 1)
	assert.True(t, evs[0].Authenticated)
	assert.Equal(t, "u1", evs[0].OwnerID)
}

func TestGate_UnauthenticatedRedirects(t *testing.T) {
	src := memory.NewSource(auth.Unauthenticated())
	g, sctx, rec := startGate(t, src)

	_, ok := g.Admitted()
	assert.False(t, ok)
	assert.Equal(t, "", sctx.OwnerID())

	evs := rec.sessionEvents()
	require.Len(t, evs, 1)
	assert.False(t, evs[0].Authenticated)
	assert.Equal(t, session.AuthPath, evs[0].RedirectTo)
}

func TestGate_SignOutMidSessionRevokes(t *testing.T) {
	src := memory.NewSignedIn("u1")
	g, sctx, rec := startGate(t, src)

	require.NoError(t, g.SignOut(context.Background()))

	require.Eventually(t, func() bool {
		_, ok := g.Admitted()
		return !ok
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "", sctx.OwnerID())

	require.Eventually(t, func() bool { return len(rec.sessionEvents()) == 2 }, 2*time.Second, 5*time.Millisecond)
	last := rec.sessionEvents()[1]
	assert.False(t, last.Authenticated)
	assert.Equal(t, session.AuthPath, last.RedirectTo)
}

func TestGate_RepeatedStateIsNotRepublished(t *testing.T) {
	src := memory.NewSignedIn("u1")
	g, _, rec := startGate(t, src)

	src.SignIn("u1")
	src.SignIn("u2")

	require.Eventually(t, func() bool { return len(rec.sessionEvents()) >= 2 }, 2*time.Second, 5*time.Millisecond)
	owner, _ := g.Admitted()
	assert.Equal(t, "u2", owner)

	evs := rec.sessionEvents()
	require.Len(t, evs, 2)
	assert.Equal(t, "u1", evs[0].OwnerID)
	assert.Equal(t, "u2", evs[1].OwnerID)
}

func TestGate_BlankUserIsNotAdmitted(t *testing.T) {
	src := memory.NewSource(auth.Session{Authenticated: true, UserID: "  "})
	g, _, _ := startGate(t, src)

	_, ok := g.Admitted()
	assert.False(t, ok)
}

type failingSource struct{}

func (failingSource) Sessions(ctx context.Context) (<-chan auth.Session, error) {
	return nil, errors.New("auth offline")
}

func (failingSource) SignOut(ctx context.Context) error { return errors.New("auth offline") }

func TestGate_SourceErrors(t *testing.T) {
	bus := notify.NewBus()
	var notices []notify.Event
	bus.Subscribe(func(ctx context.Context, e notify.Event) { notices = append(notices, e) }, notify.KindNotice)

	g := session.NewGate(failingSource{}, session.NewContext(), bus, nil)

	err := g.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth offline")

	require.Error(t, g.SignOut(context.Background()))
	require.Len(t, notices, 1)
	assert.Equal(t, notify.LevelError, notices[0].Level)
}
