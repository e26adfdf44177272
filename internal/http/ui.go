package http

import (
	"embed"
	"net/http"

	httpmiddleware "github.com/sisexp/api/internal/http/middleware"
)

//go:embed static/*.html
var static embed.FS

// Index redirige según haya o no sesión.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if httpmiddleware.GetSession(r.Context()) != nil {
		http.Redirect(w, r, "/ui", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login-ui", http.StatusFound)
}

func (h *Handler) LoginUI(w http.ResponseWriter, r *http.Request) {
	servePage(w, "static/login.html")
}

// UI se sirve siempre; la página consulta /me y redirige al login si hace falta.
func (h *Handler) UI(w http.ResponseWriter, r *http.Request) {
	servePage(w, "static/ui.html")
}

func servePage(w http.ResponseWriter, name string) {
	page, err := static.ReadFile(name)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "página no disponible")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}
