package repo

// Rol distingue los dos niveles de permiso del sistema.
type Rol string

const (
	RolAdmin   Rol = "admin"
	RolUsuario Rol = "usuario"
)

// Valid indica si el rol pertenece al catálogo.
func (r Rol) Valid() bool {
	return r == RolAdmin || r == RolUsuario
}

// Usuario representa a quien opera el sistema y puede tener expedientes asignados.
type Usuario struct {
	ID       int64
	Nombre   string
	Apellido string
	Username string
	PassHash string
	Rol      Rol
}

// UsuarioResumen es la vista pública del usuario (sin hash).
type UsuarioResumen struct {
	ID       int64  `json:"id"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Username string `json:"username"`
	Rol      Rol    `json:"rol"`
}

// InsertUsuarioParams agrupa los campos para alta de usuario.
type InsertUsuarioParams struct {
	Nombre   string
	Apellido string
	Username string
	PassHash string
	Rol      Rol
}

type Aseguradora struct {
	ID                int64  `json:"id"`
	NombreAseguradora string `json:"nombre_aseguradora"`
}

type Juzgado struct {
	ID            int64  `json:"id"`
	NombreJuzgado string `json:"nombre_juzgado"`
}

type Caso struct {
	ID         int64  `json:"id"`
	NombreCaso string `json:"nombre_caso"`
}
