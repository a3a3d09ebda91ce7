package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"energy-tools/internal/routes"

	"go.uber.org/zap"
)

// writeTimeout covers a full analysis run plus rendering.
func (a *App) writeTimeout() time.Duration {
	return a.Config.CollaboratorTimeout + 5*time.Minute
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:         ":" + a.Config.Port,
		Handler:      routes.NewRouter(a.Toolkit, a.Runs, a.Config, a.Logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: a.writeTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server started", zap.String("port", a.Config.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.Logger.Info("server exited gracefully")
	return nil
}
