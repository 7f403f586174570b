package authapi

import (
	"net/http"
	"os"
	"strconv"
	"strings"
)

// Config controls auth endpoint behavior and cookie transport.
type Config struct {
	MaxBodyBytes int64

	// RefreshCookieName is the cookie the refresh credential travels in.
	// The client base expects "refreshToken".
	RefreshCookieName string
	CookiePath        string
	CookieDomain      string
	CookieSecure      bool
	CookieSameSite    http.SameSite
}

// LoadConfigFromEnv loads auth API config from environment variables with
// safe defaults.
func LoadConfigFromEnv() Config {
	cfg := Config{
		MaxBodyBytes:      envInt64("RAGGATE_AUTH_MAX_BODY_BYTES", 1<<20), // 1 MiB
		RefreshCookieName: envString("RAGGATE_AUTH_COOKIE_NAME", "refreshToken"),
		CookiePath:        envString("RAGGATE_AUTH_COOKIE_PATH", "/"),
		CookieDomain:      envString("RAGGATE_AUTH_COOKIE_DOMAIN", ""),
		CookieSecure:      envBool("RAGGATE_AUTH_COOKIE_SECURE", false),
		CookieSameSite:    http.SameSiteLaxMode,
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}

	return cfg
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
