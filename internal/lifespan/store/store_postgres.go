package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lifeclock/internal/lifespan/models"
	"lifeclock/pkg/platform/tx"
)

// PostgresStore reads statistics from the lifespan_statistics table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindLatest(ctx context.Context, sex models.Sex, notAfterYear int) (*models.Statistic, error) {
	row := tx.Querier(ctx, s.db).QueryRowContext(ctx, `
		SELECT sex, year, age FROM lifespan_statistics
		WHERE sex = $1 AND year <= $2
		ORDER BY year DESC
		LIMIT 1`, string(sex), notAfterYear)
	return scanStatistic(row, "find latest statistic")
}

func (s *PostgresStore) FindByYear(ctx context.Context, sex models.Sex, year int) (*models.Statistic, error) {
	row := tx.Querier(ctx, s.db).QueryRowContext(ctx, `
		SELECT sex, year, age FROM lifespan_statistics
		WHERE sex = $1 AND year = $2`, string(sex), year)
	return scanStatistic(row, "find statistic by year")
}

func (s *PostgresStore) Upsert(ctx context.Context, stat models.Statistic) error {
	_, err := tx.Querier(ctx, s.db).ExecContext(ctx, `
		INSERT INTO lifespan_statistics (sex, year, age)
		VALUES ($1, $2, $3)
		ON CONFLICT (sex, year) DO UPDATE SET age = EXCLUDED.age`,
		string(stat.Sex), stat.Year, stat.Age)
	if err != nil {
		return fmt.Errorf("upsert statistic: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Statistic, error) {
	rows, err := tx.Querier(ctx, s.db).QueryContext(ctx,
		`SELECT sex, year, age FROM lifespan_statistics ORDER BY sex, year`)
	if err != nil {
		return nil, fmt.Errorf("list statistics: %w", err)
	}
	defer rows.Close()

	var out []models.Statistic
	for rows.Next() {
		var st models.Statistic
		var sex string
		if err := rows.Scan(&sex, &st.Year, &st.Age); err != nil {
			return nil, fmt.Errorf("scan statistic: %w", err)
		}
		st.Sex = models.Sex(sex)
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list statistics: %w", err)
	}
	return out, nil
}

func scanStatistic(row *sql.Row, op string) (*models.Statistic, error) {
	var st models.Statistic
	var sex string
	if err := row.Scan(&sex, &st.Year, &st.Age); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	st.Sex = models.Sex(sex)
	return &st, nil
}
