// Package memory es una fuente de sesión local: el estado lo empuja quien la
// tiene (tests, CLI en modo dev) con SignIn/SignOut.
package memory

import (
	"context"
	"strings"
	"sync"

	"pet-care-log/internal/ports/auth"
)

// subBuffer: si un suscriptor se atrasa, se descarta el estado más viejo;
// el último siempre llega.
const subBuffer = 4

type Source struct {
	mu      sync.Mutex
	current auth.Session
	subs    map[int]chan auth.Session
	next    int
	closed  bool
}

func NewSource(initial auth.Session) *Source {
	return &Source{
		current: initial,
		subs:    make(map[int]chan auth.Session),
	}
}

// NewSignedIn es atajo para una sesión ya iniciada (modo dev).
func NewSignedIn(userID string) *Source {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return NewSource(auth.Unauthenticated())
	}
	return NewSource(auth.Authenticated(userID))
}

// Sessions entrega el estado actual y después cada cambio, hasta que ctx
// termine o se llame Close.
func (s *Source) Sessions(ctx context.Context) (<-chan auth.Session, error) {
	ch := make(chan auth.Session, subBuffer)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, nil
	}
	id := s.next
	s.next++
	s.subs[id] = ch
	ch <- s.current
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}()

	return ch, nil
}

func (s *Source) SignIn(userID string) {
	s.set(auth.Authenticated(strings.TrimSpace(userID)))
}

func (s *Source) SignOut(ctx context.Context) error {
	s.set(auth.Unauthenticated())
	return nil
}

// Current devuelve el último estado publicado.
func (s *Source) Current() auth.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Close cierra todos los streams abiertos.
func (s *Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Source) set(sess auth.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = sess
	for _, ch := range s.subs {
		select {
		case ch <- sess:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- sess
		}
	}
}
