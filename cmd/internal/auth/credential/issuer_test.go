package credential

import (
	"errors"
	"testing"
	"time"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.AccessSigningKey = []byte("unit-test-access-signing-key-0123456789")
	cfg.RefreshSigningKey = []byte("unit-test-refresh-signing-key-0123456789")
	return cfg
}

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	iss, err := NewIssuer(testConfig())
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return iss
}

func TestMint_AccessLifetimeAtLogin(t *testing.T) {
	iss := newTestIssuer(t)
	now := time.Now().UTC().Truncate(time.Second)

	minted, err := iss.Mint("acct-1", "user", false, now)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if got, want := minted.AccessExpiresAt, now.Add(3*time.Hour); !got.Equal(want) {
		t.Fatalf("access expiry at login: got %v want %v", got, want)
	}
}

func TestMint_RefreshLifetimes(t *testing.T) {
	iss := newTestIssuer(t)
	now := time.Now().UTC().Truncate(time.Second)

	plain, err := iss.Mint("acct-1", "user", false, now)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if got, want := plain.RefreshExpiresAt, now.Add(24*time.Hour); !got.Equal(want) {
		t.Fatalf("refresh expiry: got %v want %v", got, want)
	}

	remembered, err := iss.Mint("acct-1", "user", true, now)
	if err != nil {
		t.Fatalf("Mint(remember): %v", err)
	}
	if got, want := remembered.RefreshExpiresAt, now.Add(15*24*time.Hour); !got.Equal(want) {
		t.Fatalf("remembered refresh expiry: got %v want %v", got, want)
	}
}

func TestMint_RefreshTokensAreUniquePerMint(t *testing.T) {
	iss := newTestIssuer(t)
	now := time.Now().UTC().Truncate(time.Second)

	a, err := iss.Mint("acct-1", "user", false, now)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	b, err := iss.Mint("acct-1", "user", false, now)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if a.RefreshToken == b.RefreshToken {
		t.Fatalf("two mints at the same instant produced identical refresh tokens")
	}
}

func TestMintAccess_RefreshDrivenLifetime(t *testing.T) {
	iss := newTestIssuer(t)
	now := time.Now().UTC().Truncate(time.Second)

	_, exp, err := iss.MintAccess("acct-1", "", 30*time.Minute, now)
	if err != nil {
		t.Fatalf("MintAccess: %v", err)
	}
	if got, want := exp, now.Add(30*time.Minute); !got.Equal(want) {
		t.Fatalf("refresh-driven access expiry: got %v want %v", got, want)
	}
}

func TestVerifyAccess_RoundTrip(t *testing.T) {
	iss := newTestIssuer(t)
	now := time.Now().UTC().Truncate(time.Second)

	tok, exp, err := iss.MintAccess("acct-9", "admin", 3*time.Hour, now)
	if err != nil {
		t.Fatalf("MintAccess: %v", err)
	}

	claims, err := iss.VerifyAccess(tok, now.Add(time.Second))
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.Subject != "acct-9" {
		t.Fatalf("subject: got %q", claims.Subject)
	}
	if claims.Role != "admin" {
		t.Fatalf("role: got %q", claims.Role)
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Fatalf("expiry: got %v want %v", claims.ExpiresAt, exp)
	}
}

func TestVerifyRefresh_Expired(t *testing.T) {
	iss := newTestIssuer(t)
	now := time.Now().UTC().Truncate(time.Second)

	minted, err := iss.Mint("acct-1", "user", false, now.Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	_, err = iss.VerifyRefresh(minted.RefreshToken, now)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyRefresh_KeysAreNotInterchangeable(t *testing.T) {
	iss := newTestIssuer(t)
	now := time.Now().UTC().Truncate(time.Second)

	// An access token must never verify as a refresh token, and vice versa.
	access, _, err := iss.MintAccess("acct-1", "user", time.Hour, now)
	if err != nil {
		t.Fatalf("MintAccess: %v", err)
	}
	if _, err := iss.VerifyRefresh(access, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token verified under refresh key: %v", err)
	}

	minted, err := iss.Mint("acct-1", "user", false, now)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := iss.VerifyAccess(minted.RefreshToken, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token verified under access key: %v", err)
	}
}

func TestVerifyRefresh_Garbage(t *testing.T) {
	iss := newTestIssuer(t)
	now := time.Now().UTC()

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := iss.VerifyRefresh(tok, now); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestNewIssuer_RejectsBadKeys(t *testing.T) {
	cfg := testConfig()
	cfg.AccessSigningKey = []byte("short")
	if _, err := NewIssuer(cfg); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for short key, got %v", err)
	}

	cfg = testConfig()
	cfg.RefreshSigningKey = cfg.AccessSigningKey
	if _, err := NewIssuer(cfg); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for shared key, got %v", err)
	}
}
