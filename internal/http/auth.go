package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	httpmiddleware "github.com/sisexp/api/internal/http/middleware"
	"github.com/sisexp/api/internal/service"
)

// Login abre sesión y deja la cookie firmada.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Pass     string `json:"pass"`
	}
	if err := decodeJSON(w, r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	if strings.TrimSpace(payload.Username) == "" || payload.Pass == "" {
		WriteError(w, http.StatusBadRequest, "username y pass son obligatorios")
		return
	}

	// una sesión previa en el mismo navegador se descarta
	if c, err := r.Cookie(h.cfg.SessionCookie); err == nil && c.Value != "" {
		_ = h.auth.Logout(r.Context(), c.Value)
	}

	result, err := h.auth.Login(r.Context(), payload.Username, payload.Pass)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			WriteError(w, http.StatusUnauthorized, "Credenciales inválidas")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("error al autenticar")
		WriteError(w, http.StatusInternalServerError, "error al autenticar")
		return
	}

	h.setSessionCookie(w, result.Token, result.Expires)
	WriteJSON(w, http.StatusOK, map[string]any{
		"mensaje": "Login correcto",
		"usuario": result.Perfil,
	})
}

// Logout borra la sesión del servidor y la cookie. Siempre responde 200.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(h.cfg.SessionCookie); err == nil && c.Value != "" {
		if err := h.auth.Logout(r.Context(), c.Value); err != nil {
			log.Warn().Err(err).Msg("no se pudo borrar la sesión")
		}
	}

	h.clearSessionCookie(w)
	WriteJSON(w, http.StatusOK, mensaje{Mensaje: "Logout correcto"})
}

// Me informa si hay sesión activa.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())
	if sess == nil {
		WriteJSON(w, http.StatusOK, map[string]bool{"autenticado": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"autenticado": true,
		"usuario":     sess.Perfil(),
	})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
