package middleware

import (
	"context"
	"net/http"
	"strings"

	"pet-care-log/internal/ports/auth"
)

// DebugUserHeader identifica al dueño de los datos cuando la API corre sin
// verificador (modo dev).
const DebugUserHeader = "X-Debug-User-ID"

type ownerKey struct{}

// AuthContext resuelve el dueño del request y lo deja en el contexto. Nunca
// responde por su cuenta: un request sin claims sigue su camino y cada
// handler de pets/logs/fotos contesta 401 si las necesita.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := resolveOwner(r, verifier); ok {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func resolveOwner(r *http.Request, verifier auth.AuthVerifier) (auth.Claims, bool) {
	if verifier == nil {
		uid := strings.TrimSpace(r.Header.Get(DebugUserHeader))
		return auth.Claims{UserID: uid}, uid != ""
	}

	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return auth.Claims{}, false
	}
	claims, err := verifier.Verify(r.Context(), token)
	if err != nil || strings.TrimSpace(claims.UserID) == "" {
		return auth.Claims{}, false
	}
	return claims, true
}

// WithClaims es lo que hace AuthContext; expuesto para tests de handlers.
func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, ownerKey{}, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(ownerKey{}).(auth.Claims)
	return c, ok
}

// bearerToken acepta "Bearer <tok>" con cualquier capitalización del esquema.
func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
