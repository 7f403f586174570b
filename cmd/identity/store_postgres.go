package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

// PostgresStore implements Store using PostgreSQL (raggate.users).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed account store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, errors.New("identity: nil db pool")
	}
	return &PostgresStore{pool: pool}, nil
}

const pgUniqueViolation = "23505"

// CreateUser inserts a new account row.
func (s *PostgresStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	role := in.Role
	if role == "" {
		role = RoleUser
	}

	u := User{
		ID:           ulid.Make().String(),
		AdminID:      in.AdminID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		Role:         role,
		Designation:  in.Designation,
		CreatedAt:    now,
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO raggate.users (
			id, admin_id, first_name, last_name,
			email, email_norm, password_hash, role, designation, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, u.ID, u.AdminID, u.FirstName, u.LastName,
		u.Email, NormalizeEmail(u.Email), u.PasswordHash, u.Role, u.Designation, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return User{}, ConflictError{Op: "identity.CreateUser", Field: conflictField(pgErr.ConstraintName)}
		}
		return User{}, err
	}

	return u, nil
}

// GetUserAuthByEmail loads an account, including its password verifier.
func (s *PostgresStore) GetUserAuthByEmail(ctx context.Context, email string) (User, error) {
	return s.getUser(ctx, `WHERE email_norm = $1`, NormalizeEmail(email))
}

// GetUserByID loads an account by ID.
func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (User, error) {
	return s.getUser(ctx, `WHERE id = $1`, id)
}

func (s *PostgresStore) getUser(ctx context.Context, where string, arg any) (User, error) {
	var u User

	err := s.pool.QueryRow(ctx, `
		SELECT id, admin_id, first_name, last_name,
		       email, password_hash, role, designation, created_at
		FROM raggate.users
	`+where, arg).Scan(
		&u.ID,
		&u.AdminID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Designation,
		&u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, NotFoundError{Op: "identity.getUser", Resource: "user"}
	}
	if err != nil {
		return User{}, err
	}

	return u, nil
}

func conflictField(constraint string) string {
	switch {
	case strings.Contains(constraint, "admin_id"):
		return "admin_id"
	case strings.Contains(constraint, "email"):
		return "email"
	default:
		return ""
	}
}
