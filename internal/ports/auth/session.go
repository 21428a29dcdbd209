package auth

import "context"

// Session es un estado del stream de autenticación.
// Authenticated=false cubre tanto "nunca hubo sesión" como "se cerró".
type Session struct {
	Authenticated bool
	UserID        string
}

func Authenticated(userID string) Session {
	return Session{Authenticated: true, UserID: userID}
}

func Unauthenticated() Session {
	return Session{}
}

// SessionSource es del subsistema de auth: push-based, indefinido, y el core
// no lo reinicia. El canal lo cierra la fuente cuando termina (o cuando ctx
// se cancela). El primer valor es el estado inicial.
type SessionSource interface {
	Sessions(ctx context.Context) (<-chan Session, error)
	SignOut(ctx context.Context) error
}
