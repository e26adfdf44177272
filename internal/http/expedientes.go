package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/sisexp/api/internal/expediente"
)

const msgNoEncontrado = "Expediente no encontrado"

// ListExpedientes aplica filtros y paginación.
func (h *Handler) ListExpedientes(w http.ResponseWriter, r *http.Request) {
	filter, err := expediente.ParseFilter(r.URL.Query())
	if err != nil {
		h.writeExpedienteError(w, r, err)
		return
	}

	page, err := h.expedientes.List(r.Context(), filter)
	if err != nil {
		h.writeExpedienteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, page)
}

// GetExpediente devuelve la fila desnormalizada.
func (h *Handler) GetExpediente(w http.ResponseWriter, r *http.Request) {
	id, ok := expedienteID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, msgNoEncontrado)
		return
	}

	row, err := h.expedientes.Get(r.Context(), id)
	if err != nil {
		h.writeExpedienteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, row)
}

// CreateExpediente da de alta un expediente (sólo admin).
func (h *Handler) CreateExpediente(w http.ResponseWriter, r *http.Request) {
	var in expediente.Input
	if err := decodeJSON(w, r, &in); err != nil {
		WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	id, err := h.expedientes.Create(r.Context(), in)
	if err != nil {
		h.writeExpedienteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, mensaje{Mensaje: "Expediente creado", ID: id})
}

// UpdateExpediente aplica una modificación parcial (sólo admin).
func (h *Handler) UpdateExpediente(w http.ResponseWriter, r *http.Request) {
	id, ok := expedienteID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, msgNoEncontrado)
		return
	}

	// cuerpo vacío: ningún campo, termina en "Sin cambios"
	var in expediente.Input
	if err := decodeJSON(w, r, &in); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	if err := h.expedientes.Update(r.Context(), id, in); err != nil {
		h.writeExpedienteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, mensaje{Mensaje: "Expediente actualizado"})
}

// DeleteExpediente elimina por id (sólo admin).
func (h *Handler) DeleteExpediente(w http.ResponseWriter, r *http.Request) {
	id, ok := expedienteID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, msgNoEncontrado)
		return
	}

	if err := h.expedientes.Delete(r.Context(), id); err != nil {
		h.writeExpedienteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, mensaje{Mensaje: "Expediente eliminado"})
}

func expedienteID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// writeExpedienteError traduce los errores del dominio a HTTP. Los errores de
// almacenamiento sólo se ven completos en el log.
func (h *Handler) writeExpedienteError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *expediente.ValidationError
		rerr *expediente.ReferenceError
	)
	switch {
	case errors.As(err, &verr):
		WriteError(w, http.StatusBadRequest, verr.Msg)
	case errors.As(err, &rerr):
		WriteError(w, http.StatusBadRequest, rerr.Error())
	case errors.Is(err, expediente.ErrNotFound):
		WriteError(w, http.StatusNotFound, msgNoEncontrado)
	default:
		log.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("error de base de datos")
		WriteError(w, http.StatusInternalServerError, "error de base de datos")
	}
}
