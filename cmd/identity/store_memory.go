package identity

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// MemoryStore is the in-memory Store used when no database is configured
// and by unit tests.
type MemoryStore struct {
	mu       sync.Mutex
	byID     map[string]User
	byEmail  map[string]string // email_norm -> id
	adminIDs map[string]struct{}
}

// NewMemoryStore constructs an empty in-memory account store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:     make(map[string]User),
		byEmail:  make(map[string]string),
		adminIDs: make(map[string]struct{}),
	}
}

// CreateUser inserts a new account, enforcing email and admin-id uniqueness.
func (s *MemoryStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	emailNorm := NormalizeEmail(in.Email)
	if _, ok := s.byEmail[emailNorm]; ok {
		return User{}, ConflictError{Op: "identity.CreateUser", Field: "email"}
	}
	if in.AdminID != nil {
		if _, ok := s.adminIDs[*in.AdminID]; ok {
			return User{}, ConflictError{Op: "identity.CreateUser", Field: "admin_id"}
		}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	u := User{
		ID:           ulid.Make().String(),
		AdminID:      in.AdminID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		Designation:  in.Designation,
		CreatedAt:    now,
	}
	if u.Role == "" {
		u.Role = RoleUser
	}

	s.byID[u.ID] = u
	s.byEmail[emailNorm] = u.ID
	if in.AdminID != nil {
		s.adminIDs[*in.AdminID] = struct{}{}
	}
	return u, nil
}

// GetUserAuthByEmail loads an account, including its password verifier.
func (s *MemoryStore) GetUserAuthByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return User{}, NotFoundError{Op: "identity.GetUserAuthByEmail", Resource: "user"}
	}
	return s.byID[id], nil
}

// GetUserByID loads an account by ID.
func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return User{}, NotFoundError{Op: "identity.GetUserByID", Resource: "user"}
	}
	return u, nil
}
