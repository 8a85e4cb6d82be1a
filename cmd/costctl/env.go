package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rpggio/costwatch/internal/app"
	"github.com/rpggio/costwatch/internal/config"
	"github.com/rpggio/costwatch/internal/sqlite"
)

// env is the loaded configuration plus an open, migrated database.
type env struct {
	cfg config.Config
	db  *sqlite.DB
	app *app.App
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	db, err := sqlite.Open(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	// Commands print their own results; only problems reach stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return &env{cfg: cfg, db: db, app: app.New(db, cfg, nil, logger)}, nil
}

func (e *env) Close() error {
	return e.db.Close()
}

// tenantOr returns tenant, or the configured default tenant when empty.
func (e *env) tenantOr(tenant string) string {
	if tenant != "" {
		return tenant
	}
	return e.cfg.Auth.Tenant
}
