package app

import "time"

// Config contains app-level runtime configuration loaded from environment
// variables. Auth, credential and relay components load their own sections.
type Config struct {
	HTTPAddr string
	LogLevel string

	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// If true, /readyz returns 503 unless the DB is configured and reachable.
	ReadinessRequireDB bool

	// CORS policy for browser clients of the auth endpoints. "*" mirrors
	// the permissive default the service shipped with.
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr: EnvString("RAGGATE_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel: EnvString("RAGGATE_LOG_LEVEL", "info"),

		ReadHeaderTimeout: EnvDuration("RAGGATE_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		IdleTimeout:       EnvDuration("RAGGATE_HTTP_IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    EnvInt("RAGGATE_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("RAGGATE_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("RAGGATE_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("RAGGATE_DB_MIN_CONNS", 0),

		ReadinessRequireDB: EnvBool("RAGGATE_READINESS_REQUIRE_DB", false),

		CORSAllowedOrigins:   EnvCSV("RAGGATE_CORS_ALLOWED_ORIGINS", "*"),
		CORSAllowCredentials: EnvBool("RAGGATE_CORS_ALLOW_CREDENTIALS", false),
	}
}
