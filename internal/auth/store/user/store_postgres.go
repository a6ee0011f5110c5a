package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"legado/internal/auth/models"
	id "legado/pkg/domain"
	"legado/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code for unique constraint hits.
const uniqueViolation = "23505"

// PostgresUserStore persists users in PostgreSQL.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

// EnsureSchema creates the users table when absent.
func (s *PostgresUserStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure users schema: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) Save(ctx context.Context, user *models.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET username = $2, password_hash = $3
	`, user.ID.String(), user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findOne(ctx, `
		SELECT id, username, password_hash, created_at FROM users WHERE id = $1
	`, userID.String())
}

func (s *PostgresUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, `
		SELECT id, username, password_hash, created_at FROM users WHERE username = $1
	`, username)
}

func (s *PostgresUserStore) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var (
		user  models.User
		rawID string
	)
	err := s.pool.QueryRow(ctx, query, arg).Scan(&rawID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	userID, err := id.ParseUserID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan user id: %w", err)
	}
	user.ID = userID
	return &user, nil
}
