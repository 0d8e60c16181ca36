package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/siaa-labs/vault/cmd/app/commands"
	"github.com/siaa-labs/vault/internal/app"
	"github.com/siaa-labs/vault/internal/config"
	cryptoDomain "github.com/siaa-labs/vault/internal/crypto/domain"
	cryptoService "github.com/siaa-labs/vault/internal/crypto/service"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-master-key",
			Usage: "Generate a new 32-byte master key, optionally wrapped with a KMS",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "kms-provider",
					Aliases: []string{"p"},
					Usage:   "KMS provider (gcpkms, awskms, azurekeyvault, hashivault, localsecrets); omit for a plain key",
				},
				&cli.StringFlag{
					Name:    "kms-key-uri",
					Aliases: []string{"u"},
					Usage:   "KMS key URI used to wrap the generated key",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateMasterKey(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:  "rewrap-secrets",
			Usage: "Re-encrypt every stored secret under a new master key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "new-master-key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Base64-encoded 32-byte replacement master key",
				},
				&cli.StringFlag{
					Name:    "algorithm",
					Aliases: []string{"a"},
					Usage:   "AEAD algorithm for the rewrapped blobs (defaults to the configured one)",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Rewrap in memory without writing, to verify the current key opens everything",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				oldEngine, err := container.Engine()
				if err != nil {
					return err
				}

				secretRepository, err := container.SecretRepository()
				if err != nil {
					return err
				}

				newMasterKey, err := cryptoDomain.LoadMasterKey(cmd.String("new-master-key"))
				if err != nil {
					return fmt.Errorf("invalid new master key: %w", err)
				}
				defer newMasterKey.Close()

				algorithm := cmd.String("algorithm")
				if algorithm == "" {
					algorithm = cfg.EncryptionAlgorithm
				}

				newEngine, err := cryptoService.NewEngine(
					newMasterKey,
					cryptoDomain.Algorithm(algorithm),
					container.AEADManager(),
				)
				if err != nil {
					return fmt.Errorf("failed to create engine for new master key: %w", err)
				}

				return commands.RunRewrapSecrets(
					ctx,
					secretRepository,
					oldEngine,
					newEngine,
					container.Logger(),
					cmd.Bool("dry-run"),
				)
			},
		},
	}
}
