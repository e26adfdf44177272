package http

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

// listHandler adapta un listado de catálogo a un handler JSON.
// Un resultado vacío se serializa como [].
func listHandler[T any](nombre string, list func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := list(r.Context())
		if err != nil {
			log.Error().Err(err).Str("catalogo", nombre).Msg("error al listar catálogo")
			WriteError(w, http.StatusInternalServerError, "error de base de datos")
			return
		}
		if items == nil {
			items = []T{}
		}
		WriteJSON(w, http.StatusOK, items)
	}
}
