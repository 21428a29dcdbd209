// Package notify es el canal de cambios entre los engines y quien renderiza.
// Los engines publican después de mutar su estado; los suscriptores deciden
// qué hacer (re-render, recargar otro engine, mostrar un aviso).
package notify

import (
	"context"
	"sync"
)

type Kind string

const (
	KindSessionChanged Kind = "session.changed"
	KindRosterChanged  Kind = "roster.changed"
	KindPetSelected    Kind = "pet.selected"
	KindLogsChanged    Kind = "logs.changed"
	KindPetCreated     Kind = "pet.created"
	KindLogCreated     Kind = "log.created"
	KindLogDeleted     Kind = "log.deleted"

	// KindNotice es un aviso para el usuario (toast); no cambia estado.
	KindNotice Kind = "notice"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Event struct {
	Kind Kind

	OwnerID string
	PetID   string
	LogID   string

	Authenticated bool
	RedirectTo    string

	Level   Level
	Message string
}

type Handler func(ctx context.Context, e Event)

// Bus entrega los eventos en forma síncrona, en la goroutine de quien publica
// y con su ctx. Así una recarga disparada por una mutación queda ordenada
// después del ack del store.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]subscription
	order  []int
}

type subscription struct {
	kinds map[Kind]struct{}
	fn    Handler
}

func NewBus() *Bus {
	return &Bus{subs: map[int]subscription{}}
}

// Subscribe registra fn para los kinds indicados (ninguno = todos).
// Devuelve la función para desuscribir.
func (b *Bus) Subscribe(fn Handler, kinds ...Kind) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	var set map[Kind]struct{}
	if len(kinds) > 0 {
		set = make(map[Kind]struct{}, len(kinds))
		for _, k := range kinds {
			set[k] = struct{}{}
		}
	}
	b.subs[id] = subscription{kinds: set, fn: fn}
	b.order = append(b.order, id)

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
		for i, v := range b.order {
			if v == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// Publish es nil-safe: un engine sin bus simplemente no notifica.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if b == nil {
		return
	}

	// snapshot fuera del lock: los handlers pueden publicar a su vez
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		s := b.subs[id]
		if s.kinds != nil {
			if _, ok := s.kinds[e.Kind]; !ok {
				continue
			}
		}
		handlers = append(handlers, s.fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx, e)
	}
}

// Notice publica un aviso para el usuario.
func (b *Bus) Notice(ctx context.Context, level Level, msg string) {
	b.Publish(ctx, Event{Kind: KindNotice, Level: level, Message: msg})
}
