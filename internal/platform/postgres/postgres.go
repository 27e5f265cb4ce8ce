// Package postgres opens the database, applies the schema and runs units of
// work for the postgres-backed stores.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"lifeclock/internal/platform/config"
	dErrors "lifeclock/pkg/domain-errors"
	"lifeclock/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

const defaultTxTimeout = 5 * time.Second

// Open connects with the pgx stdlib driver. It returns nil, nil when no URL
// is configured.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return db, nil
}

// Migrate applies the idempotent schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// TxRunner runs fn in a database transaction carried through ctx.
type TxRunner struct {
	db      *sql.DB
	timeout time.Duration
}

var _ tx.Runner = (*TxRunner)(nil)

func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db, timeout: defaultTxTimeout}
}

func (t *TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	sqlTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	return sqlTx.Commit()
}
