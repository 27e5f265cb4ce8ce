package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	lifespan "lifeclock/internal/lifespan/models"
	"lifeclock/internal/person/models"
	id "lifeclock/pkg/domain"
	"lifeclock/pkg/platform/tx"
)

const personColumns = `id, user_id, name, sex, birth_date, is_account_user, created_at, updated_at`

// PostgresStore persists persons in the persons table. Every query is scoped
// by user_id so one user can never observe another's persons.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Person) error {
	_, err := tx.Querier(ctx, s.db).ExecContext(ctx, `
		INSERT INTO persons (`+personColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID.String(), p.UserID.String(), p.Name, string(p.Sex), p.BirthDate, p.IsAccountUser, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID, personID id.PersonID) (*models.Person, error) {
	row := tx.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM persons WHERE user_id = $1 AND id = $2`,
		userID.String(), personID.String())
	return scanPerson(row)
}

func (s *PostgresStore) FindAccountPerson(ctx context.Context, userID id.UserID) (*models.Person, error) {
	row := tx.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM persons WHERE user_id = $1 AND is_account_user`,
		userID.String())
	return scanPerson(row)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Person, error) {
	rows, err := tx.Querier(ctx, s.db).QueryContext(ctx,
		`SELECT `+personColumns+` FROM persons WHERE user_id = $1
		 ORDER BY is_account_user DESC, created_at, id`,
		userID.String())
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	var out []*models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountByUser(ctx context.Context, userID id.UserID) (int, error) {
	var n int
	err := tx.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM persons WHERE user_id = $1`, userID.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count persons: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Person) error {
	res, err := tx.Querier(ctx, s.db).ExecContext(ctx, `
		UPDATE persons SET name = $3, sex = $4, birth_date = $5, updated_at = $6
		WHERE user_id = $1 AND id = $2`,
		p.UserID.String(), p.ID.String(), p.Name, string(p.Sex), p.BirthDate, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, userID id.UserID, personID id.PersonID) error {
	res, err := tx.Querier(ctx, s.db).ExecContext(ctx,
		`DELETE FROM persons WHERE user_id = $1 AND id = $2`, userID.String(), personID.String())
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) DeleteByUser(ctx context.Context, userID id.UserID) error {
	_, err := tx.Querier(ctx, s.db).ExecContext(ctx, `DELETE FROM persons WHERE user_id = $1`, userID.String())
	if err != nil {
		return fmt.Errorf("delete persons by user: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(row scanner) (*models.Person, error) {
	var p models.Person
	var rawID, rawUserID, sex string
	err := row.Scan(&rawID, &rawUserID, &p.Name, &sex, &p.BirthDate, &p.IsAccountUser, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan person: %w", err)
	}
	if p.ID, err = id.ParsePersonID(rawID); err != nil {
		return nil, fmt.Errorf("scan person id: %w", err)
	}
	if p.UserID, err = id.ParseUserID(rawUserID); err != nil {
		return nil, fmt.Errorf("scan person user id: %w", err)
	}
	p.Sex = lifespan.Sex(sex)
	p.BirthDate = p.BirthDate.UTC()
	return &p, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
