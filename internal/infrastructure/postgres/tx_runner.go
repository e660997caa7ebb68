package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Flota-api/internal/application/propagation"
)

// Ensure TxRunner implements propagation.TxRunner.
var _ propagation.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool     *pgxpool.Pool
	isoLevel pgx.TxIsoLevel
}

// NewTxRunner construye el runner con el pool y el nivel de aislamiento de las transacciones.
func NewTxRunner(pool *pgxpool.Pool, isoLevel pgx.TxIsoLevel) *TxRunner {
	return &TxRunner{pool: pool, isoLevel: isoLevel}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos propagation.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: r.isoLevel})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := propagation.Repos{
		Groups:     NewGroupRepository(tx),
		Categories: NewCategoryRepository(tx),
		Models:     NewModelRepository(tx),
		Assets:     NewAssetRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
