package repo

import "errors"

var (
	// ErrNotFound se devuelve cuando no se encuentra ningún registro.
	ErrNotFound = errors.New("registro no encontrado")
	// ErrDuplicateUsername indica que el username ya está en uso.
	ErrDuplicateUsername = errors.New("username ya registrado")
	// ErrUnknownTable indica una tabla de referencia fuera del catálogo.
	ErrUnknownTable = errors.New("tabla de referencia desconocida")
)
