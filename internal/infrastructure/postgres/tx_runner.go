package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/steel-billing/internal/domain/repository"
)

var (
	_ repository.InvoiceCreationRunner = (*TxRunner)(nil)
	_ repository.DataResetter          = (*TxRunner)(nil)
)

// invoiceNumberLock clave del advisory lock que serializa la asignación de números.
const invoiceNumberLock int64 = 0x5354454c // "STEL"

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunInvoiceCreation inicia una transacción, toma el advisory lock de numeración y ejecuta fn
// con un repo atado a la tx. El lock se libera con Commit o Rollback.
func (r *TxRunner) RunInvoiceCreation(ctx context.Context, fn func(repo repository.InvoiceRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, invoiceNumberLock); err != nil {
		return fmt.Errorf("lock invoice numbering: %w", err)
	}
	if err := fn(NewInvoiceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ClearAll vacía todas las tablas de negocio.
func (r *TxRunner) ClearAll(ctx context.Context) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE invoice_items, invoices, products, clients, company`); err != nil {
			return fmt.Errorf("clear data: %w", err)
		}
		return nil
	})
}
