package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/sisexp/api/internal/service"
)

type contextKey string

const contextKeySession contextKey = "sesion"

// SessionResolver resuelve el token de la cookie a una sesión activa.
type SessionResolver interface {
	Session(ctx context.Context, token string) (*service.Session, error)
}

// LoadSession lee la cookie y, si la sesión existe, la guarda en el contexto.
// Nunca corta la solicitud: la decisión queda en RequireSession/RequireAdmin.
func LoadSession(cookieName string, resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := resolver.Session(r.Context(), c.Value)
			if err != nil {
				if !errors.Is(err, service.ErrNoSession) {
					log.Warn().Err(err).Msg("no se pudo resolver la sesión")
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// WithSession guarda la sesión en el contexto.
func WithSession(ctx context.Context, sess *service.Session) context.Context {
	return context.WithValue(ctx, contextKeySession, sess)
}

// GetSession devuelve la sesión del contexto o nil.
func GetSession(ctx context.Context) *service.Session {
	sess, _ := ctx.Value(contextKeySession).(*service.Session)
	return sess
}

// RequireSession responde 401 sin sesión activa.
func RequireSession(next http.Handler) http.Handler {
	return guard(false, next)
}

// RequireAdmin responde 401 sin sesión y 403 si el rol no es admin.
func RequireAdmin(next http.Handler) http.Handler {
	return guard(true, next)
}

func guard(requireAdmin bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch err := service.Authorize(GetSession(r.Context()), requireAdmin); {
		case err == nil:
			next.ServeHTTP(w, r)
		case errors.Is(err, service.ErrForbidden):
			writeError(w, http.StatusForbidden, "No autorizado")
		default:
			writeError(w, http.StatusUnauthorized, "No autenticado")
		}
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
