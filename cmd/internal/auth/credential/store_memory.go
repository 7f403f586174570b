package credential

import (
	"context"
	"sync"
)

// MemoryStore is the in-memory Store used when no database is configured and
// by unit tests. Same shape as the Postgres store, minus durability.
type MemoryStore struct {
	mu      sync.Mutex
	byToken map[string]Record
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byToken: make(map[string]Record)}
}

// Create inserts a record, enforcing token-value uniqueness.
func (s *MemoryStore) Create(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byToken[rec.Token]; ok {
		return ErrDuplicateToken
	}
	s.byToken[rec.Token] = rec
	return nil
}

// FindByToken loads a record by token value.
func (s *MemoryStore) FindByToken(ctx context.Context, token string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byToken[token]
	if !ok {
		return Record{}, ErrTokenNotFound
	}
	return rec, nil
}

// DeleteByToken removes a record by token value.
func (s *MemoryStore) DeleteByToken(ctx context.Context, token string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byToken[token]; !ok {
		return 0, nil
	}
	delete(s.byToken, token)
	return 1, nil
}

// DeleteAllForOwner removes every record owned by the account.
func (s *MemoryStore) DeleteAllForOwner(ctx context.Context, ownerID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for token, rec := range s.byToken {
		if rec.OwnerID == ownerID {
			delete(s.byToken, token)
			n++
		}
	}
	return n, nil
}

// CountForOwner reports live records for an account. Test helper.
func (s *MemoryStore) CountForOwner(ownerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, rec := range s.byToken {
		if rec.OwnerID == ownerID {
			n++
		}
	}
	return n
}
