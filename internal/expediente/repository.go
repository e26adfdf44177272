package expediente

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sisexp/api/internal/db"
)

// Repository acceso a expedientes sobre Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List ejecuta el conteo y la página sin transacción; el total puede no
// coincidir con escrituras concurrentes.
func (r *Repository) List(ctx context.Context, f Filter) ([]Row, int64, error) {
	countSQL, countArgs, pageSQL, pageArgs := listQueries(f)

	var total int64
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	data, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Row, error) {
		return scanRow(row)
	})
	if err != nil {
		return nil, 0, err
	}
	return data, total, nil
}

// Get devuelve un expediente desnormalizado por id.
func (r *Repository) Get(ctx context.Context, id int64) (Row, error) {
	row := r.pool.QueryRow(ctx, selectRows+fromJoins+` WHERE e.id = $1`, id)
	out, err := scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Row{}, ErrNotFound
		}
		return Row{}, err
	}
	return out, nil
}

// Insert crea el expediente en una transacción y devuelve el id asignado.
func (r *Repository) Insert(ctx context.Context, e NewExpediente) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
            INSERT INTO expediente (aseguradora_id, usuario_id, juzgado_id, caso_id, estado, fecha)
            VALUES ($1, $2, $3, $4, $5, $6)
            RETURNING id`,
			e.AseguradoraID, e.UsuarioID, e.JuzgadoID, e.CasoID, string(e.Estado), e.Fecha,
		).Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update aplica los cambios; si no afecta filas revierte y devuelve ErrNotFound.
func (r *Repository) Update(ctx context.Context, id int64, c Changes) error {
	query, args, ok := updateQuery(id, c)
	if !ok {
		return invalid(msgSinCambios)
	}
	return db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Delete elimina por id; si no afecta filas revierte y devuelve ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM expediente WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func scanRow(row pgx.Row) (Row, error) {
	var (
		out    Row
		estado string
		fecha  time.Time
	)
	err := row.Scan(
		&out.ID, &estado, &fecha,
		&out.AseguradoraID, &out.Aseguradora,
		&out.UsuarioID, &out.UsuarioNombre, &out.UsuarioApellido, &out.UsuarioUsername,
		&out.JuzgadoID, &out.Juzgado,
		&out.CasoID, &out.Caso,
	)
	if err != nil {
		return Row{}, err
	}
	out.Estado = Estado(estado)
	out.Fecha = fecha.Format(FechaLayout)
	return out, nil
}
