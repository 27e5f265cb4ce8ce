package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"lifeclock/internal/auth/models"
	id "lifeclock/pkg/domain"
	"lifeclock/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists users in the users table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, user *models.User) error {
	_, err := tx.Querier(ctx, s.db).ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID.String(), user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	row := tx.Querier(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users WHERE id = $1`, userID.String())
	return scanUser(row)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := tx.Querier(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *PostgresStore) Update(ctx context.Context, user *models.User) error {
	res, err := tx.Querier(ctx, s.db).ExecContext(ctx, `
		UPDATE users SET username = $2, email = $3, password_hash = $4, updated_at = $5
		WHERE id = $1`,
		user.ID.String(), user.Username, user.Email, user.PasswordHash, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, userID id.UserID) error {
	res, err := tx.Querier(ctx, s.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID.String())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(res)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var rawID string
	if err := row.Scan(&rawID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	userID, err := id.ParseUserID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan user id: %w", err)
	}
	u.ID = userID
	return &u, nil
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
