package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Beginner abre transacciones; *pgxpool.Pool lo implementa.
type Beginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// WithTx ejecuta fn dentro de una transacción explícita. Si fn devuelve error
// la transacción se revierte y nada queda escrito.
func WithTx(ctx context.Context, db Beginner, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
