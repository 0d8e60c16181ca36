package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/siaa-labs/vault/internal/app"
	"github.com/siaa-labs/vault/internal/config"
)

// RunServer boots the vault: API server, metrics server and the internal
// token rotation worker. Blocks until SIGINT/SIGTERM or a fatal component
// error, then shuts the servers down within the DBConnMaxLifetime budget.
// Configuration is validated up front so a vault with a bad master key or a
// placeholder admin secret never starts serving.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	rotationWorker, err := container.TokenRotationWorker()
	if err != nil {
		return fmt.Errorf("failed to initialize token rotation worker: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serverErr := make(chan error, 3)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErr <- fmt.Errorf("api server error: %w", err)
		}
	}()

	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				serverErr <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	go func() {
		if err := rotationWorker.Start(ctx); err != nil {
			serverErr <- fmt.Errorf("token rotation worker error: %w", err)
		}
	}()

	shutdownAll := func(errs ...error) error {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("api server shutdown: %w", err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
			}
		}
		return errors.Join(errs...)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return shutdownAll()
	case err := <-serverErr:
		// A failed component takes the whole process down; cancel stops the
		// rotation worker and the surviving server
		logger.Error("server error, initiating shutdown", slog.Any("error", err))
		cancel()
		return shutdownAll(err)
	}
}
