package http

import (
	"context"
	"net/http"
	"time"
)

// Status verifica la base con SELECT 1. El error se devuelve tal cual: es
// una sonda para operadores.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"status":   "error",
			"db_error": err.Error(),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "db": "conectada"})
}
