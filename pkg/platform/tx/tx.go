// Package tx carries a SQL transaction through context so stores can join a
// unit of work started by a service without changing their signatures.
package tx

import (
	"context"
	"database/sql"
)

type ctxKey struct{}

var txKey = ctxKey{}

// DBTX is the subset of *sql.DB and *sql.Tx that stores use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Querier returns the transaction in ctx, or db when there is none.
func Querier(ctx context.Context, db *sql.DB) DBTX {
	if tx, ok := From(ctx); ok {
		return tx
	}
	return db
}

// Runner executes fn inside a unit of work. fn must use the ctx it is given.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoopRunner runs fn directly. Used with in-memory stores.
type NoopRunner struct{}

func (NoopRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
