package credential

import (
	"os"
	"time"
)

// Config defines all runtime configuration for the credential core.
//
// It controls the access-token lifetimes (which differ between a fresh login
// and a refresh-driven mint), the refresh-token lifetimes, and the two
// signing keys. Access and refresh tokens are signed with distinct keys so
// that compromise of one key cannot forge the other credential type.
type Config struct {
	// Issuer is the value set in the "iss" claim of both token types.
	Issuer string

	// AccessTTLLogin is the access-token lifetime minted at login.
	AccessTTLLogin time.Duration

	// AccessTTLRefresh is the access-token lifetime minted on refresh.
	// The login/refresh asymmetry is inherited product behavior; keep the
	// two values independent.
	AccessTTLRefresh time.Duration

	// RefreshTTL is the refresh-token lifetime for a plain login.
	RefreshTTL time.Duration

	// RefreshTTLRemember is the refresh-token lifetime when the client asked
	// to stay signed in.
	RefreshTTLRemember time.Duration

	// AccessSigningKey signs access tokens (HS256).
	AccessSigningKey []byte

	// RefreshSigningKey signs refresh tokens (HS256).
	RefreshSigningKey []byte
}

const minSigningKeyBytes = 32

// DefaultConfig returns the lifetimes this gateway ships with.
// Signing keys always come from the environment.
func DefaultConfig() Config {
	return Config{
		Issuer:             "raggate",
		AccessTTLLogin:     3 * time.Hour,
		AccessTTLRefresh:   30 * time.Minute,
		RefreshTTL:         24 * time.Hour,
		RefreshTTLRemember: 15 * 24 * time.Hour,
	}
}

// LoadConfigFromEnv loads credential configuration from environment variables.
//
// Required:
//   - RAGGATE_JWT_ACCESS_KEY (>= 32 bytes)
//   - RAGGATE_JWT_REFRESH_KEY (>= 32 bytes, distinct from the access key)
//
// Optional (durations must be valid Go duration strings):
//   - RAGGATE_AUTH_ISSUER
//   - RAGGATE_AUTH_ACCESS_TTL_LOGIN
//   - RAGGATE_AUTH_ACCESS_TTL_REFRESH
//   - RAGGATE_AUTH_REFRESH_TTL
//   - RAGGATE_AUTH_REFRESH_TTL_REMEMBER
//
// Returns ErrConfig if configuration is invalid. Missing keys abort process
// startup; the gateway never serves traffic with unsigned credentials.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("RAGGATE_AUTH_ISSUER"); v != "" {
		cfg.Issuer = v
	}

	for _, f := range []struct {
		key string
		dst *time.Duration
	}{
		{"RAGGATE_AUTH_ACCESS_TTL_LOGIN", &cfg.AccessTTLLogin},
		{"RAGGATE_AUTH_ACCESS_TTL_REFRESH", &cfg.AccessTTLRefresh},
		{"RAGGATE_AUTH_REFRESH_TTL", &cfg.RefreshTTL},
		{"RAGGATE_AUTH_REFRESH_TTL_REMEMBER", &cfg.RefreshTTLRemember},
	} {
		v := os.Getenv(f.key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		*f.dst = d
	}

	cfg.AccessSigningKey = []byte(os.Getenv("RAGGATE_JWT_ACCESS_KEY"))
	cfg.RefreshSigningKey = []byte(os.Getenv("RAGGATE_JWT_REFRESH_KEY"))

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if len(c.AccessSigningKey) < minSigningKeyBytes || len(c.RefreshSigningKey) < minSigningKeyBytes {
		return ErrConfig
	}
	if string(c.AccessSigningKey) == string(c.RefreshSigningKey) {
		return ErrConfig
	}
	if c.AccessTTLLogin <= 0 || c.AccessTTLRefresh <= 0 || c.RefreshTTL <= 0 {
		return ErrConfig
	}
	// "Remember me" must never shorten the session.
	if c.RefreshTTLRemember < c.RefreshTTL {
		return ErrConfig
	}
	return nil
}
