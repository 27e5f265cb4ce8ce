//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"lifeclock/internal/platform/postgres"
)

// PostgresContainer wraps a testcontainers Postgres instance with the schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("lifeclock"),
		tcpostgres.WithUsername("lifeclock"),
		tcpostgres.WithPassword("lifeclock"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to migrate postgres: %v", err)
	}

	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
}

// TruncateTables empties the named tables. Use between tests to ensure isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx, fmt.Sprintf("TRUNCATE %s CASCADE", strings.Join(tables, ", ")))
	return err
}
