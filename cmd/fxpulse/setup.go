package main

import (
	"context"
	"fmt"

	"github.com/richgang/fxpulse/internal/api"
	"github.com/richgang/fxpulse/internal/config"
	"github.com/richgang/fxpulse/internal/core"
	"github.com/richgang/fxpulse/internal/guard"
	"github.com/richgang/fxpulse/internal/logger"
	"github.com/richgang/fxpulse/internal/session"
	"github.com/richgang/fxpulse/internal/token"
	"go.uber.org/zap"
)

// app bundles the wired-up client state every command needs.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	client  *api.Client
	session *session.Manager
}

// loadConfig reads the config file when given, else falls back to
// defaults (the base URL can still come from FXPULSE_API_URL).
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// withApp handles common setup: config, logger, token store, API
// client and session manager, with the stored token verified.
func withApp(fn func(ctx context.Context, a *app) error) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := token.NewStore(cfg.Token.Path)
	if err != nil {
		return fmt.Errorf("opening token store: %w", err)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, nil, log)
	mgr := session.NewManager(store, client, log)
	client.SetHeaderSource(mgr)

	ctx := context.Background()
	mgr.Init(ctx)

	return fn(ctx, &app{cfg: cfg, log: log, client: client, session: mgr})
}

// requireRole applies the route guard before a gated command runs.
func requireRole(a *app, required core.Role) error {
	switch guard.Check(a.session, required) {
	case guard.DecisionLogin:
		return fmt.Errorf("not logged in, run: fxpulse login <code>")
	case guard.DecisionHome:
		return fmt.Errorf("owner access required")
	}
	return nil
}
