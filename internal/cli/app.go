// Package cli is the command-line surface of the Controle Financeiro client.
// It consolidates the bootstrap (env file, config, logging) shared by every
// command and wires the API client, session store, offline cache and
// dashboard coordinator together.
package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/Wellerson-M/controle-financeiro/internal/api"
	"github.com/Wellerson-M/controle-financeiro/internal/config"
	"github.com/Wellerson-M/controle-financeiro/internal/dashboard"
	"github.com/Wellerson-M/controle-financeiro/internal/guard"
	applog "github.com/Wellerson-M/controle-financeiro/internal/log"
	"github.com/Wellerson-M/controle-financeiro/internal/offline"
	"github.com/Wellerson-M/controle-financeiro/internal/session"
)

type app struct {
	cfg     *config.Config
	api     *api.Client
	session *session.Store
	dash    *dashboard.Coordinator
	store   *offline.Store // nil outside production
	log     *applog.Logger
}

// loadEnvFile loads .env for local development; missing files are fine.
func loadEnvFile() {
	_ = godotenv.Load()
}

func setupLogger(cfg *config.Config) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentCLI,
	})
	applog.SetDefault(logger)
	return logger
}

// newApp builds the client stack and restores the persisted session. A
// persisted token that no longer resolves is cleared by the session store
// itself; the app still comes up, just logged out.
func newApp(ctx context.Context) (*app, error) {
	loadEnvFile()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := setupLogger(cfg)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var store *offline.Store
	if cfg.Production() {
		s, err := offline.NewStore(cfg.CacheDBPath)
		if err != nil {
			// Best-effort layer: fall back to plain network access.
			logger.Warn("offline cache unavailable", applog.FieldError, err)
		} else {
			store = s
			httpClient.Transport = offline.NewTransport(nil, store, cfg.CacheTTL)
			logger.Info("offline cache enabled", "path", cfg.CacheDBPath)
		}
	} else if err := offline.Purge(cfg.CacheDBPath); err != nil {
		logger.Warn("purge offline cache failed", applog.FieldError, err)
	}

	client := api.New(cfg.APIBaseURL, api.WithHTTPClient(httpClient))
	sess := session.NewStore(client, session.NewFileTokenStore(cfg.TokenPath))
	if err := sess.LoadFromStorage(ctx); err != nil {
		logger.WarnContext(ctx, "stored session did not resolve",
			applog.FieldError, err,
			applog.FieldState, sess.State().String())
	}

	return &app{
		cfg:     cfg,
		api:     client,
		session: sess,
		dash:    dashboard.NewCoordinator(client, sess),
		store:   store,
		log:     logger,
	}, nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("close offline cache failed", applog.FieldError, err)
		}
	}
}

// requireAuth gates commands that need an authenticated session.
func (a *app) requireAuth() error {
	switch guard.Decide(a.session.State()) {
	case guard.Allow:
		return nil
	case guard.ShowLoading:
		return fmt.Errorf("session is still resolving, try again")
	default:
		return fmt.Errorf("not logged in: run 'financeiro login' first")
	}
}
