package odin

import (
	"context"
	"errors"
	"sync"

	"pet-care-log/internal/adapters/auth/memory"
	"pet-care-log/internal/ports/auth"
)

// SessionSource arma el stream de sesión a partir de un token guardado: si
// Odin lo acepta arranca autenticado, si lo rechaza arranca sin sesión.
// SignOut revoca el token en Odin y publica el cierre.
type SessionSource struct {
	client   *Client
	verifier *Verifier
	token    string
	hub      *memory.Source

	once    sync.Once
	initErr error
}

func NewSessionSource(client *Client, token string) *SessionSource {
	return &SessionSource{
		client:   client,
		verifier: NewVerifier(client),
		token:    token,
		hub:      memory.NewSource(auth.Unauthenticated()),
	}
}

func (s *SessionSource) Sessions(ctx context.Context) (<-chan auth.Session, error) {
	s.once.Do(func() {
		claims, err := s.verifier.Verify(ctx, s.token)
		switch {
		case err == nil:
			s.hub.SignIn(claims.UserID)
		case errors.Is(err, ErrOdinUnauthorized), errors.Is(err, ErrTokenEmpty):
			// token vencido o ausente: sin sesión
		default:
			s.initErr = err
		}
	})
	if s.initErr != nil {
		return nil, s.initErr
	}
	return s.hub.Sessions(ctx)
}

func (s *SessionSource) SignOut(ctx context.Context) error {
	if err := s.client.RevokeToken(ctx, s.token); err != nil && !errors.Is(err, ErrOdinUnauthorized) {
		return err
	}
	return s.hub.SignOut(ctx)
}

// Close cierra los streams abiertos.
func (s *SessionSource) Close() {
	s.hub.Close()
}
