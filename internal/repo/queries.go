package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX es el subconjunto de pgxpool.Pool / pgx.Tx que usan las consultas.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries agrupa el acceso a usuarios y catálogos.
type Queries struct {
	db DBTX
}

// New crea Queries sobre un pool o transacción.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Ping ejecuta SELECT 1 para verificar la base.
func (q *Queries) Ping(ctx context.Context) error {
	var one int
	return q.db.QueryRow(ctx, `SELECT 1`).Scan(&one)
}

const usuarioColumns = `id, nombre, apellido, username, pass_hash, rol`

// GetUsuarioByUsername busca un usuario por username exacto.
func (q *Queries) GetUsuarioByUsername(ctx context.Context, username string) (Usuario, error) {
	row := q.db.QueryRow(ctx, `SELECT `+usuarioColumns+` FROM usuario WHERE username = $1`, username)
	return scanUsuario(row)
}

// InsertUsuario da de alta un usuario; ErrDuplicateUsername si el username existe.
func (q *Queries) InsertUsuario(ctx context.Context, arg InsertUsuarioParams) (Usuario, error) {
	row := q.db.QueryRow(ctx, `
        INSERT INTO usuario (nombre, apellido, username, pass_hash, rol)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING `+usuarioColumns,
		strings.TrimSpace(arg.Nombre),
		strings.TrimSpace(arg.Apellido),
		strings.TrimSpace(arg.Username),
		arg.PassHash,
		string(arg.Rol),
	)
	user, err := scanUsuario(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Usuario{}, ErrDuplicateUsername
		}
		return Usuario{}, err
	}
	return user, nil
}

// InsertUsuarioIfMissing inserta el usuario sólo si el username no existe.
// Devuelve true cuando hubo alta.
func (q *Queries) InsertUsuarioIfMissing(ctx context.Context, arg InsertUsuarioParams) (bool, error) {
	tag, err := q.db.Exec(ctx, `
        INSERT INTO usuario (nombre, apellido, username, pass_hash, rol)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (username) DO NOTHING`,
		arg.Nombre, arg.Apellido, arg.Username, arg.PassHash, string(arg.Rol),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ListUsuarios devuelve usuarios ordenados por id, sin credenciales.
func (q *Queries) ListUsuarios(ctx context.Context) ([]UsuarioResumen, error) {
	rows, err := q.db.Query(ctx, `SELECT id, nombre, apellido, username, rol FROM usuario ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (UsuarioResumen, error) {
		var u UsuarioResumen
		var rol string
		err := row.Scan(&u.ID, &u.Nombre, &u.Apellido, &u.Username, &rol)
		u.Rol = Rol(rol)
		return u, err
	})
}

// ListAseguradoras lista el catálogo de aseguradoras.
func (q *Queries) ListAseguradoras(ctx context.Context) ([]Aseguradora, error) {
	rows, err := q.db.Query(ctx, `SELECT id, nombre_aseguradora FROM aseguradora ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Aseguradora, error) {
		var a Aseguradora
		err := row.Scan(&a.ID, &a.NombreAseguradora)
		return a, err
	})
}

// ListJuzgados lista el catálogo de juzgados.
func (q *Queries) ListJuzgados(ctx context.Context) ([]Juzgado, error) {
	rows, err := q.db.Query(ctx, `SELECT id, nombre_juzgado FROM juzgado ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Juzgado, error) {
		var j Juzgado
		err := row.Scan(&j.ID, &j.NombreJuzgado)
		return j, err
	})
}

// ListCasos lista el catálogo de casos.
func (q *Queries) ListCasos(ctx context.Context) ([]Caso, error) {
	rows, err := q.db.Query(ctx, `SELECT id, nombre_caso FROM caso ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Caso, error) {
		var c Caso
		err := row.Scan(&c.ID, &c.NombreCaso)
		return c, err
	})
}

func scanUsuario(row pgx.Row) (Usuario, error) {
	var u Usuario
	var rol string
	if err := row.Scan(&u.ID, &u.Nombre, &u.Apellido, &u.Username, &u.PassHash, &rol); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Usuario{}, ErrNotFound
		}
		return Usuario{}, err
	}
	u.Rol = Rol(rol)
	return u, nil
}
