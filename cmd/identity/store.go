package identity

import (
	"context"
	"time"
)

// Role tags carried on accounts and propagated into access tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the gateway's account record.
type User struct {
	ID      string
	AdminID *string

	FirstName string
	LastName  string
	Email     string

	// PasswordHash is the bcrypt verifier. Opaque to everything but
	// VerifyPassword; never serialized into responses.
	PasswordHash string

	Role        string
	Designation *string

	CreatedAt time.Time
}

// CreateUserInput describes a signup or admin-creation request.
// PasswordHash must already be hashed; stores never see plain passwords.
type CreateUserInput struct {
	AdminID      *string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string
	Designation  *string
	Now          time.Time
}

// Store is the account persistence boundary.
type Store interface {
	// CreateUser inserts a new account. Conflicts surface as ConflictError
	// with field "email" or "admin_id".
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)

	// GetUserAuthByEmail loads an account, including its password verifier,
	// for login checks. Returns a not-found error when absent.
	GetUserAuthByEmail(ctx context.Context, email string) (User, error)

	// GetUserByID loads an account by ID.
	GetUserByID(ctx context.Context, id string) (User, error)
}
