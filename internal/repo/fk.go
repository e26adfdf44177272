package repo

import (
	"context"
	"fmt"
)

// Tabla identifica una tabla referenciada por expediente.
type Tabla string

const (
	TablaAseguradora Tabla = "aseguradora"
	TablaUsuario     Tabla = "usuario"
	TablaJuzgado     Tabla = "juzgado"
	TablaCaso        Tabla = "caso"
)

// El texto SQL sale de este mapa; el nombre de tabla nunca viene de la entrada.
var existsQueries = map[Tabla]string{
	TablaAseguradora: `SELECT EXISTS(SELECT 1 FROM aseguradora WHERE id = $1)`,
	TablaUsuario:     `SELECT EXISTS(SELECT 1 FROM usuario WHERE id = $1)`,
	TablaJuzgado:     `SELECT EXISTS(SELECT 1 FROM juzgado WHERE id = $1)`,
	TablaCaso:        `SELECT EXISTS(SELECT 1 FROM caso WHERE id = $1)`,
}

// Exists verifica que exista la fila id en la tabla indicada. Sin caché.
func (q *Queries) Exists(ctx context.Context, tabla Tabla, id int64) (bool, error) {
	query, ok := existsQueries[tabla]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownTable, tabla)
	}
	var exists bool
	if err := q.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
