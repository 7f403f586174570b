package credential

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL (raggate.refresh_tokens).
//
// Schema expectations: token is the primary key; owner_id is indexed for the
// eviction scan at login.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed refresh-credential store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const pgUniqueViolation = "23505"

// Create inserts a new refresh-credential record.
func (s *PostgresStore) Create(ctx context.Context, rec Record) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO raggate.refresh_tokens (token, owner_id, expires_at)
		VALUES ($1, $2, $3)
	`, rec.Token, rec.OwnerID, rec.ExpiresAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateToken
	}
	return err
}

// FindByToken loads a record by token value.
func (s *PostgresStore) FindByToken(ctx context.Context, token string) (Record, error) {
	var rec Record

	err := s.pool.QueryRow(ctx, `
		SELECT token, owner_id, expires_at
		FROM raggate.refresh_tokens
		WHERE token = $1
	`, token).Scan(&rec.Token, &rec.OwnerID, &rec.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrTokenNotFound
	}
	if err != nil {
		return Record{}, err
	}

	return rec, nil
}

// DeleteByToken removes a record by token value.
func (s *PostgresStore) DeleteByToken(ctx context.Context, token string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM raggate.refresh_tokens
		WHERE token = $1
	`, token)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteAllForOwner removes every record owned by the account.
func (s *PostgresStore) DeleteAllForOwner(ctx context.Context, ownerID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM raggate.refresh_tokens
		WHERE owner_id = $1
	`, ownerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
