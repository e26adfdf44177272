package service

import (
	"errors"

	"github.com/sisexp/api/internal/repo"
)

// AdminUsername es la cuenta sembrada al arrancar.
const AdminUsername = "admin"

var (
	// ErrUnauthenticated indica ausencia de sesión.
	ErrUnauthenticated = errors.New("no autenticado")
	// ErrForbidden indica sesión sin el rol requerido.
	ErrForbidden = errors.New("no autorizado")
)

// IsAdmin indica si la sesión tiene rol administrador.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Rol == repo.RolAdmin
}

// Authorize aplica los dos niveles: sesión activa y, si se pide, rol admin.
func Authorize(sess *Session, requireAdmin bool) error {
	if sess == nil {
		return ErrUnauthenticated
	}
	if requireAdmin && !sess.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
