package expediente

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// ParseFilter interpreta los parámetros de consulta del listado. Los valores
// vacíos se tratan como ausentes.
func ParseFilter(q url.Values) (Filter, error) {
	f := Filter{Page: DefaultPage, PageSize: DefaultPageSize}

	if v := strings.TrimSpace(q.Get("page")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Filter{}, invalid("page inválido")
		}
		f.Page = n
	}
	if v := strings.TrimSpace(q.Get("page_size")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Filter{}, invalid("page_size inválido")
		}
		f.PageSize = n
	}
	if _, ok := f.offset(); !ok {
		return Filter{}, invalid("page inválido")
	}

	if v := q.Get("estado"); v != "" {
		if !IsValidEstado(v) {
			return Filter{}, invalid(msgEstadoInvalido)
		}
		estado := Estado(v)
		f.Estado = &estado
	}

	ids := []struct {
		param string
		dest  **int64
	}{
		{"aseguradora_id", &f.AseguradoraID},
		{"usuario_id", &f.UsuarioID},
		{"juzgado_id", &f.JuzgadoID},
		{"caso_id", &f.CasoID},
	}
	for _, id := range ids {
		v := strings.TrimSpace(q.Get(id.param))
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Filter{}, invalid("%s inválido", id.param)
		}
		*id.dest = &n
	}

	if v := strings.TrimSpace(q.Get("fecha_desde")); v != "" {
		t, ok := ParseFecha(v)
		if !ok {
			return Filter{}, invalid("fecha_desde inválida. Use YYYY-MM-DD")
		}
		f.FechaDesde = &t
	}
	if v := strings.TrimSpace(q.Get("fecha_hasta")); v != "" {
		t, ok := ParseFecha(v)
		if !ok {
			return Filter{}, invalid("fecha_hasta inválida. Use YYYY-MM-DD")
		}
		f.FechaHasta = &t
	}

	return f, nil
}

// offset devuelve las filas a saltar para la página pedida. ok es false si
// (page-1)*page_size no cabe en un int.
func (f Filter) offset() (int, bool) {
	if f.Page <= 1 {
		return 0, true
	}
	if f.PageSize > math.MaxInt/(f.Page-1) {
		return 0, false
	}
	return (f.Page - 1) * f.PageSize, true
}
