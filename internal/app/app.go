// Package app assembles the toolkit and its dependencies from configuration.
package app

import (
	"context"
	"fmt"

	"energy-tools/internal/collaborator"
	"energy-tools/internal/config"
	"energy-tools/internal/database"
	"energy-tools/internal/logger"
	"energy-tools/internal/models"
	"energy-tools/internal/scenarios"
	"energy-tools/internal/services"
	"energy-tools/internal/storage"
	"energy-tools/internal/tools"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type App struct {
	Config  *config.Config
	Logger  *logger.Logger
	Toolkit *tools.Toolkit
	Runs    services.RunRecorder

	db *bun.DB
}

// New wires storage, the scenario catalogue, the collaborator and the run
// history. Run history is kept in Postgres only when DATABASE_URL is set.
func New(ctx context.Context, cfg *config.Config, logr *logger.Logger) (*App, error) {
	store, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	catalogue, err := scenarios.Load(cfg.ScenariosFile)
	if err != nil {
		return nil, fmt.Errorf("load scenarios: %w", err)
	}

	sim := collaborator.Probe(ctx, collaborator.Options{
		Command: cfg.CollaboratorCmd,
		Script:  cfg.CollaboratorScript,
		Timeout: cfg.CollaboratorTimeout,
		Logger:  logr,
	})
	if !collaborator.Available(sim) {
		logr.Warn("simulation collaborator unavailable; analyses will report it",
			zap.String("script", cfg.CollaboratorScript))
	}

	a := &App{Config: cfg, Logger: logr, Runs: services.NopRecorder{}}
	if cfg.DatabaseURL != "" {
		db, err := database.New(cfg.DatabaseURL, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := database.Migrate(ctx, db, (*models.AnalysisRun)(nil)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		a.db = db
		a.Runs = services.NewRunService(db)
	} else {
		logr.Info("DATABASE_URL not set, run history disabled")
	}

	a.Toolkit, err = tools.New(tools.Deps{
		Config:    cfg,
		Simulator: sim,
		Catalogue: catalogue,
		Storage:   store,
		Runs:      a.Runs,
		Logger:    logr,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the database connection, if any.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}
