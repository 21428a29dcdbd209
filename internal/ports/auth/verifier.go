package auth

import "context"

// AuthVerifier verifica un bearer token y devuelve claims o error.
// Lo usan el middleware de la API y la fuente de sesión del CLI.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
