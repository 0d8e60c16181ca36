package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	cryptoService "github.com/siaa-labs/vault/internal/crypto/service"
	vaultDomain "github.com/siaa-labs/vault/internal/vault/domain"
	vaultUseCase "github.com/siaa-labs/vault/internal/vault/usecase"
)

// rewrapWorkers bounds how many namespaces are rewrapped concurrently.
const rewrapWorkers = 4

// RunRewrapSecrets re-encrypts every stored secret from one engine to another.
// Used for master key rotation and for algorithm migration: oldEngine carries
// the currently configured key, newEngine the replacement. Each blob is opened
// under the old engine and sealed again under the new one, preserving the
// namespace/key binding of the ciphertext.
//
// In dry-run mode every blob is rewrapped in memory but nothing is written, so
// operators can verify the old key still opens the full data set before
// committing to the rotation.
//
// Requirements: Database must be migrated and accessible. The server should be
// stopped or pointed at the new key only after the run completes.
func RunRewrapSecrets(
	ctx context.Context,
	secretRepository vaultUseCase.SecretRepository,
	oldEngine, newEngine cryptoService.Engine,
	logger *slog.Logger,
	dryRun bool,
) error {
	logger.Info("rewrapping secrets", slog.Bool("dry_run", dryRun))

	namespaces, err := secretRepository.ListNamespaces(ctx)
	if err != nil {
		return fmt.Errorf("failed to list namespaces: %w", err)
	}

	var total atomic.Int64
	var group errgroup.Group
	group.SetLimit(rewrapWorkers)

	for _, namespace := range namespaces {
		group.Go(func() error {
			secrets, err := secretRepository.GetAll(ctx, namespace)
			if err != nil {
				return fmt.Errorf("failed to load secrets for namespace %q: %w", namespace, err)
			}

			for _, secret := range secrets {
				aad := vaultDomain.AAD(secret.Namespace, secret.Key)

				blob, err := cryptoService.Rewrap(oldEngine, newEngine, secret.Ciphertext, aad)
				if err != nil {
					return fmt.Errorf(
						"failed to rewrap secret %s/%s: %w",
						secret.Namespace, secret.Key, err,
					)
				}

				if !dryRun {
					secret.Ciphertext = blob
					if err := secretRepository.Update(ctx, secret); err != nil {
						return fmt.Errorf(
							"failed to store rewrapped secret %s/%s: %w",
							secret.Namespace, secret.Key, err,
						)
					}
				}

				total.Add(1)
			}

			logger.Info("namespace rewrapped",
				slog.String("namespace", namespace),
				slog.Int("count", len(secrets)),
			)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	if dryRun {
		logger.Info("dry-run completed, no secrets written", slog.Int64("total", total.Load()))
	} else {
		logger.Info("rewrap completed", slog.Int64("total", total.Load()))
	}

	return nil
}
