// Package worker provides background jobs driven by a cron scheduler.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	authUseCase "github.com/siaa-labs/vault/internal/auth/usecase"
)

// rotateTimeout bounds a single rotation run so a stuck database call
// cannot pile up scheduler entries.
const rotateTimeout = 30 * time.Second

// TokenRotationWorker rotates the shared internal token on a fixed interval.
// Overlapping runs are skipped, so a slow rotation never races a new one.
type TokenRotationWorker struct {
	internalTokenUseCase authUseCase.InternalTokenUseCase
	interval             time.Duration
	logger               *slog.Logger
}

// NewTokenRotationWorker creates a new token rotation worker.
func NewTokenRotationWorker(
	internalTokenUseCase authUseCase.InternalTokenUseCase,
	interval time.Duration,
	logger *slog.Logger,
) *TokenRotationWorker {
	return &TokenRotationWorker{
		internalTokenUseCase: internalTokenUseCase,
		interval:             interval,
		logger:               logger,
	}
}

// Start provisions an initial token when none is active and begins the
// rotation schedule. It blocks until ctx is cancelled and waits for an
// in-flight rotation to finish before returning.
func (w *TokenRotationWorker) Start(ctx context.Context) error {
	if err := w.internalTokenUseCase.EnsureActive(ctx); err != nil {
		return fmt.Errorf("failed to ensure active internal token: %w", err)
	}

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	spec := fmt.Sprintf("@every %s", w.interval)
	if _, err := scheduler.AddFunc(spec, w.rotate); err != nil {
		return fmt.Errorf("failed to schedule token rotation: %w", err)
	}

	scheduler.Start()

	w.logger.Info("token rotation worker started", slog.Duration("interval", w.interval))

	<-ctx.Done()

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	w.logger.Info("token rotation worker stopped")

	return nil
}

// rotate replaces the active internal token. Failures are logged and the
// next scheduled run retries; the previous token stays active meanwhile.
func (w *TokenRotationWorker) rotate() {
	ctx, cancel := context.WithTimeout(context.Background(), rotateTimeout)
	defer cancel()

	token, err := w.internalTokenUseCase.Rotate(ctx)
	if err != nil {
		w.logger.Error("internal token rotation failed", slog.Any("error", err))
		return
	}

	w.logger.Info("internal token rotated", slog.Time("expires_at", token.ExpiresAt))
}
