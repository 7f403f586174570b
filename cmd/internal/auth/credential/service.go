package credential

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Service implements the per-account session lifecycle:
// NoSession -> ActiveSession -> (Expired | Revoked) -> NoSession.
//
// At most one live refresh record exists per account. The invariant is
// maintained by evicting all prior records before inserting the new one at
// login. The two store calls are sequential, not transactional: two logins
// racing for the same account can momentarily leave two live records. A
// hardened store would wrap evict+insert in one transaction or upsert on a
// unique owner index.
type Service struct {
	cfg    Config
	issuer *Issuer
	store  Store
}

// Issued is the result of a successful login.
type Issued struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// NewService constructs a Service over the given issuer and store.
func NewService(cfg Config, issuer *Issuer, store Store) *Service {
	return &Service{cfg: cfg, issuer: issuer, store: store}
}

// Login mints a fresh credential pair for an already-verified account,
// evicts every prior refresh record for that account, and persists the new
// one. Proof verification belongs to the identity collaborator; by the time
// Login runs, the caller has authenticated the account.
func (s *Service) Login(ctx context.Context, now time.Time, accountID, role string, remember bool) (Issued, error) {
	minted, err := s.issuer.Mint(accountID, role, remember, now)
	if err != nil {
		return Issued{}, err
	}

	// Evict-then-insert enforces the single-session invariant.
	if _, err := s.store.DeleteAllForOwner(ctx, accountID); err != nil {
		return Issued{}, err
	}

	if err := s.store.Create(ctx, Record{
		Token:     minted.RefreshToken,
		OwnerID:   accountID,
		ExpiresAt: minted.RefreshExpiresAt,
	}); err != nil {
		return Issued{}, err
	}

	return Issued{
		AccessToken:      minted.AccessToken,
		AccessExpiresAt:  minted.AccessExpiresAt,
		RefreshToken:     minted.RefreshToken,
		RefreshExpiresAt: minted.RefreshExpiresAt,
	}, nil
}

// Refresh exchanges a live refresh token for a new access token.
//
// The refresh token itself is not rotated: the stored record stays untouched
// on success. Failure modes:
//   - no stored record               -> ErrTokenNotFound
//   - bad signature / malformed      -> ErrInvalidToken, record kept
//     (could be tampering or transport damage, not proof of expiry)
//   - signature valid, expiry passed -> record deleted, ErrTokenExpired
func (s *Service) Refresh(ctx context.Context, now time.Time, token string) (access string, exp time.Time, err error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", time.Time{}, ErrTokenNotFound
	}

	rec, err := s.store.FindByToken(ctx, token)
	if err != nil {
		return "", time.Time{}, err
	}

	subject, err := s.issuer.VerifyRefresh(token, now)
	if errors.Is(err, ErrTokenExpired) {
		if _, delErr := s.store.DeleteByToken(ctx, token); delErr != nil {
			return "", time.Time{}, delErr
		}
		return "", time.Time{}, ErrTokenExpired
	}
	if err != nil {
		return "", time.Time{}, ErrInvalidToken
	}
	if subject != rec.OwnerID {
		return "", time.Time{}, ErrInvalidToken
	}

	return s.issuer.MintAccess(rec.OwnerID, "", s.cfg.AccessTTLRefresh, now)
}

// Logout revokes the refresh token's stored record. Absence is not an error;
// a second logout with the same token is a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	_, err := s.store.DeleteByToken(ctx, token)
	return err
}
