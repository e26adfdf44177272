package http

import (
	"encoding/json"
	"net/http"
)

// ErrorBody es el único formato de error de la API.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON serializa data tal cual, sin envoltorio.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError escribe {"error": message}.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{Error: message})
}

// mensaje es el cuerpo de las respuestas de confirmación.
type mensaje struct {
	Mensaje string `json:"mensaje"`
	ID      int64  `json:"id,omitempty"`
}

const maxBodyBytes = 1 << 20

// decodeJSON lee el cuerpo acotado a maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
