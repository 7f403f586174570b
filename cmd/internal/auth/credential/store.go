package credential

import (
	"context"
	"time"
)

// Record is one persisted refresh credential.
//
// Records are immutable: rotation never rewrites a record in place. A record
// disappears by logout, by expiry cleanup during refresh, or by being
// superseded when its owner logs in again.
type Record struct {
	Token     string
	OwnerID   string
	ExpiresAt time.Time
}

// Store abstracts persistence of refresh-credential records.
//
// The single-live-record-per-owner invariant is a property the lifecycle
// service maintains by evicting before inserting; implementations only need
// token-value uniqueness. An expired record may still be present; validation
// treats it as absent via the signed expiry claim.
type Store interface {
	// Create inserts a new record. Returns ErrDuplicateToken when the token
	// value already exists.
	Create(ctx context.Context, rec Record) error

	// FindByToken loads a record by token value. Returns ErrTokenNotFound
	// when absent.
	FindByToken(ctx context.Context, token string) (Record, error)

	// DeleteByToken removes the record with the given token value, if any,
	// and reports how many records were removed (0 or 1).
	DeleteByToken(ctx context.Context, token string) (int64, error)

	// DeleteAllForOwner removes every record owned by the account and
	// reports how many were removed.
	DeleteAllForOwner(ctx context.Context, ownerID string) (int64, error)
}
