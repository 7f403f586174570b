// Package app wires the gateway runtime: config, logging, HTTP routes, the
// auth endpoints and the WebSocket relay.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"raggate/cmd/identity"
	authapi "raggate/cmd/internal/auth/api"
	"raggate/cmd/internal/auth/credential"
	"raggate/cmd/internal/relay"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App is the gateway runtime: it owns the HTTP server and the wired
// auth/relay dependencies.
type App struct {
	cfg Config
	log Logger

	dbPool    *pgxpool.Pool
	dbEnabled bool

	auth  *authapi.Handler
	relay *relay.Gateway
}

// New constructs a fully wired App from config and logger.
//
// Without RAGGATE_DATABASE_URL the gateway runs on in-memory stores; useful
// for dev, useless for anything that must survive a restart.
func New(ctx context.Context, cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel)
	}

	credCfg, err := credential.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	issuer, err := credential.NewIssuer(credCfg)
	if err != nil {
		return nil, err
	}

	var (
		dbPool     *pgxpool.Pool
		accounts   identity.Store
		tokenStore credential.Store
	)

	if cfg.DatabaseURL == "" {
		log.Info("db disabled, using in-memory stores")
		accounts = identity.NewMemoryStore()
		tokenStore = credential.NewMemoryStore()
	} else {
		dbPool, err = NewDBPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info("db enabled, using postgres stores")

		pgAccounts, err := identity.NewPostgresStore(dbPool)
		if err != nil {
			dbPool.Close()
			return nil, err
		}
		accounts = pgAccounts
		tokenStore = credential.NewPostgresStore(dbPool)
	}

	sessions := credential.NewService(credCfg, issuer, tokenStore)

	auth, err := authapi.NewHandler(log, authapi.LoadConfigFromEnv(), accounts, sessions)
	if err != nil {
		if dbPool != nil {
			dbPool.Close()
		}
		return nil, err
	}

	relayCfg := relay.LoadConfigFromEnv()
	rag, err := relay.NewRAGClient(log, relayCfg)
	if err != nil {
		if dbPool != nil {
			dbPool.Close()
		}
		return nil, err
	}
	gw, err := relay.NewGateway(log, relayCfg, rag)
	if err != nil {
		if dbPool != nil {
			dbPool.Close()
		}
		return nil, err
	}

	return &App{
		cfg:       cfg,
		log:       log,
		dbPool:    dbPool,
		dbEnabled: dbPool != nil,
		auth:      auth,
		relay:     gw,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or a
// fatal server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.auth, a.relay)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           WithRequestLogging(WithCORS(mux, a.cfg), a.log),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),

		// No Read/WriteTimeout: WebSocket sessions outlive any sane value.
		// Per-frame deadlines live inside the relay.
	}

	a.log.Info("server start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server stop", "reason", "context done")
	case err := <-errCh:
		a.log.Error("server failed", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server shutdown failed", "err", err)
		return err
	}

	if a.dbPool != nil {
		a.dbPool.Close()
	}

	a.log.Info("server stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
