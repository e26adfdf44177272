package expediente

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound se devuelve cuando el expediente no existe.
var ErrNotFound = errors.New("expediente no encontrado")

// Estado del expediente.
type Estado string

const (
	EstadoPendiente Estado = "Pendiente"
	EstadoEnCurso   Estado = "En Curso"
	EstadoCerrado   Estado = "Cerrado"
)

var validEstados = map[Estado]struct{}{
	EstadoPendiente: {},
	EstadoEnCurso:   {},
	EstadoCerrado:   {},
}

// IsValidEstado indica si el valor pertenece al catálogo (comparación exacta).
func IsValidEstado(estado string) bool {
	_, ok := validEstados[Estado(estado)]
	return ok
}

// FechaLayout es el único formato aceptado para fechas.
const FechaLayout = "2006-01-02"

// ParseFecha acepta sólo fechas de calendario reales en formato YYYY-MM-DD.
func ParseFecha(value string) (time.Time, bool) {
	t, err := time.Parse(FechaLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

const (
	msgEstadoInvalido = "Estado inválido. Use: Pendiente | En Curso | Cerrado"
	msgFechaInvalida  = "Formato de fecha inválido. Use YYYY-MM-DD"
	msgObligatorios   = "Campos obligatorios: aseguradora_id, usuario_id, juzgado_id, caso_id, estado, fecha"
	msgSinCambios     = "Sin cambios"
)

// ValidationError describe una entrada rechazada antes de tocar la base.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ReferenceError indica una clave foránea que apunta a una fila inexistente.
type ReferenceError struct {
	Campo string
}

func (e *ReferenceError) Error() string { return e.Campo + " no existe" }

// Row es la vista desnormalizada de un expediente con sus referencias.
type Row struct {
	ID              int64  `json:"id"`
	Estado          Estado `json:"estado"`
	Fecha           string `json:"fecha"`
	AseguradoraID   int64  `json:"aseguradora_id"`
	Aseguradora     string `json:"aseguradora"`
	UsuarioID       int64  `json:"usuario_id"`
	UsuarioNombre   string `json:"usuario_nombre"`
	UsuarioApellido string `json:"usuario_apellido"`
	UsuarioUsername string `json:"usuario_username"`
	JuzgadoID       int64  `json:"juzgado_id"`
	Juzgado         string `json:"juzgado"`
	CasoID          int64  `json:"caso_id"`
	Caso            string `json:"caso"`
}

// Filter agrupa los filtros opcionales de la consulta; todos se combinan con AND.
type Filter struct {
	Estado        *Estado
	AseguradoraID *int64
	UsuarioID     *int64
	JuzgadoID     *int64
	CasoID        *int64
	FechaDesde    *time.Time
	FechaHasta    *time.Time
	Page          int
	PageSize      int
}

const (
	DefaultPage     = 1
	DefaultPageSize = 50
)

// Page es el resultado paginado; Total ignora la paginación.
type Page struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
	Data     []Row `json:"data"`
}

// Input refleja el cuerpo JSON de alta y modificación. Un puntero nil
// significa campo ausente.
type Input struct {
	AseguradoraID *int64  `json:"aseguradora_id"`
	UsuarioID     *int64  `json:"usuario_id"`
	JuzgadoID     *int64  `json:"juzgado_id"`
	CasoID        *int64  `json:"caso_id"`
	Estado        *string `json:"estado"`
	Fecha         *string `json:"fecha"`
}

func (in Input) empty() bool {
	return in.AseguradoraID == nil && in.UsuarioID == nil && in.JuzgadoID == nil &&
		in.CasoID == nil && in.Estado == nil && in.Fecha == nil
}

func (in Input) complete() bool {
	return in.AseguradoraID != nil && in.UsuarioID != nil && in.JuzgadoID != nil &&
		in.CasoID != nil && in.Estado != nil && in.Fecha != nil
}

// NewExpediente son los valores ya validados de un alta.
type NewExpediente struct {
	AseguradoraID int64
	UsuarioID     int64
	JuzgadoID     int64
	CasoID        int64
	Estado        Estado
	Fecha         time.Time
}

// Changes son los valores ya validados de una modificación parcial.
type Changes struct {
	AseguradoraID *int64
	UsuarioID     *int64
	JuzgadoID     *int64
	CasoID        *int64
	Estado        *Estado
	Fecha         *time.Time
}
