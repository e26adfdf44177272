package expediente

import (
	"fmt"
	"strings"
)

const selectRows = `
        SELECT
            e.id, e.estado, e.fecha,
            e.aseguradora_id, a.nombre_aseguradora,
            e.usuario_id, u.nombre, u.apellido, u.username,
            e.juzgado_id, j.nombre_juzgado,
            e.caso_id, c.nombre_caso`

// Inner joins: los expedientes con referencias borradas no aparecen.
const fromJoins = `
        FROM expediente e
        JOIN aseguradora a ON e.aseguradora_id = a.id
        JOIN usuario u ON e.usuario_id = u.id
        JOIN juzgado j ON e.juzgado_id = j.id
        JOIN caso c ON e.caso_id = c.id`

// sqlBuilder acumula fragmentos con placeholders numerados y sus argumentos.
// Los valores siempre viajan como parámetros.
type sqlBuilder struct {
	parts []string
	args  []any
}

func (b *sqlBuilder) add(format string, arg any) {
	b.args = append(b.args, arg)
	b.parts = append(b.parts, fmt.Sprintf(format, len(b.args)))
}

func (b *sqlBuilder) next() int {
	return len(b.args) + 1
}

func (b *sqlBuilder) where() string {
	if len(b.parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.parts, " AND ")
}

func filterPredicate(f Filter) *sqlBuilder {
	b := &sqlBuilder{}
	if f.Estado != nil {
		b.add("e.estado = $%d", string(*f.Estado))
	}
	if f.AseguradoraID != nil {
		b.add("e.aseguradora_id = $%d", *f.AseguradoraID)
	}
	if f.UsuarioID != nil {
		b.add("e.usuario_id = $%d", *f.UsuarioID)
	}
	if f.JuzgadoID != nil {
		b.add("e.juzgado_id = $%d", *f.JuzgadoID)
	}
	if f.CasoID != nil {
		b.add("e.caso_id = $%d", *f.CasoID)
	}
	if f.FechaDesde != nil {
		b.add("e.fecha >= $%d", *f.FechaDesde)
	}
	if f.FechaHasta != nil {
		b.add("e.fecha <= $%d", *f.FechaHasta)
	}
	return b
}

// listQueries arma la consulta de conteo y la de página para el filtro.
func listQueries(f Filter) (countSQL string, countArgs []any, pageSQL string, pageArgs []any) {
	b := filterPredicate(f)
	where := b.where()

	countSQL = `SELECT COUNT(*)` + fromJoins + where
	countArgs = append([]any(nil), b.args...)

	limitIdx := b.next()
	pageSQL = selectRows + fromJoins + where +
		fmt.Sprintf(" ORDER BY e.id DESC LIMIT $%d OFFSET $%d", limitIdx, limitIdx+1)
	offset, _ := f.offset()
	pageArgs = append(append([]any(nil), b.args...), f.PageSize, offset)
	return countSQL, countArgs, pageSQL, pageArgs
}

// updateQuery arma el UPDATE con sólo las columnas presentes en c.
// ok es false si no hay nada que actualizar.
func updateQuery(id int64, c Changes) (sql string, args []any, ok bool) {
	b := &sqlBuilder{}
	if c.AseguradoraID != nil {
		b.add("aseguradora_id = $%d", *c.AseguradoraID)
	}
	if c.UsuarioID != nil {
		b.add("usuario_id = $%d", *c.UsuarioID)
	}
	if c.JuzgadoID != nil {
		b.add("juzgado_id = $%d", *c.JuzgadoID)
	}
	if c.CasoID != nil {
		b.add("caso_id = $%d", *c.CasoID)
	}
	if c.Estado != nil {
		b.add("estado = $%d", string(*c.Estado))
	}
	if c.Fecha != nil {
		b.add("fecha = $%d", *c.Fecha)
	}
	if len(b.parts) == 0 {
		return "", nil, false
	}

	sql = fmt.Sprintf("UPDATE expediente SET %s WHERE id = $%d", strings.Join(b.parts, ", "), b.next())
	args = append(b.args, id)
	return sql, args, true
}
