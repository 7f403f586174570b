package credential

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// newTokenID returns a random 32-char hex token identifier.
func newTokenID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}

// AccessClaims is the identity envelope carried by an access token.
type AccessClaims struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Issuer    string
}

type signedClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies signed access and refresh tokens.
//
// It is a pure function of its configuration, the inputs, and the supplied
// clock: no storage, no side effects. Storage decisions belong to Service.
type Issuer struct {
	cfg Config
}

// NewIssuer validates the signing keys and returns an Issuer.
// Key problems are configuration errors, not per-request failures.
func NewIssuer(cfg Config) (*Issuer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Issuer{cfg: cfg}, nil
}

// Minted is the result of a fresh login mint: an access token and a refresh
// token with their computed expiries.
type Minted struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Mint produces a full credential pair for a fresh login.
//
// The access token lives AccessTTLLogin; the refresh token lives RefreshTTL,
// or RefreshTTLRemember when remember is set.
func (i *Issuer) Mint(accountID, role string, remember bool, now time.Time) (Minted, error) {
	access, accessExp, err := i.MintAccess(accountID, role, i.cfg.AccessTTLLogin, now)
	if err != nil {
		return Minted{}, err
	}

	refreshTTL := i.cfg.RefreshTTL
	if remember {
		refreshTTL = i.cfg.RefreshTTLRemember
	}
	refreshExp := now.Add(refreshTTL)

	// Refresh tokens carry a random jti so two logins in the same second do
	// not mint byte-identical tokens; the store treats the value as unique.
	refreshClaims := signedClaims{RegisteredClaims: i.registered(accountID, now, refreshExp)}
	refreshClaims.ID = newTokenID()

	refresh, err := i.sign(i.cfg.RefreshSigningKey, refreshClaims)
	if err != nil {
		return Minted{}, err
	}

	return Minted{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// MintAccess produces a single access token with a caller-supplied lifetime.
// Login mints pass AccessTTLLogin, refresh-driven mints AccessTTLRefresh.
func (i *Issuer) MintAccess(accountID, role string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	exp := now.Add(ttl)
	tok, err := i.sign(i.cfg.AccessSigningKey, signedClaims{
		Role:             role,
		RegisteredClaims: i.registered(accountID, now, exp),
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

// VerifyAccess checks an access token's signature and expiry.
func (i *Issuer) VerifyAccess(token string, now time.Time) (AccessClaims, error) {
	claims, err := i.verify(i.cfg.AccessSigningKey, token, now)
	if err != nil {
		return AccessClaims{}, err
	}
	return claims, nil
}

// VerifyRefresh checks a refresh token and returns its subject.
//
// ErrTokenExpired means the signature was valid but the expiry claim is in
// the past; every other failure is ErrInvalidToken. Callers rely on the
// distinction: expiry triggers record cleanup, anything else must not.
func (i *Issuer) VerifyRefresh(token string, now time.Time) (string, error) {
	claims, err := i.verify(i.cfg.RefreshSigningKey, token, now)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (i *Issuer) registered(subject string, now, exp time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    i.cfg.Issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
}

func (i *Issuer) sign(key []byte, claims signedClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func (i *Issuer) verify(key []byte, token string, now time.Time) (AccessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	var claims signedClaims
	parsed, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return key, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return AccessClaims{}, ErrTokenExpired
	case err != nil, parsed == nil, !parsed.Valid:
		return AccessClaims{}, ErrInvalidToken
	}

	if claims.Subject == "" || claims.ExpiresAt == nil {
		return AccessClaims{}, ErrInvalidToken
	}

	out := AccessClaims{
		Subject:   claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
		Issuer:    claims.RegisteredClaims.Issuer,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
