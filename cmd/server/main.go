package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"energy-tools/internal/app"
	"energy-tools/internal/config"
	"energy-tools/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logr := logger.New(cfg)
	defer logr.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to start", zap.Error(err))
	}
	defer a.Close()

	if err := a.Serve(ctx); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}
