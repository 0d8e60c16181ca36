package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/siaa-labs/vault/internal/crypto/domain"
	cryptoService "github.com/siaa-labs/vault/internal/crypto/service"
)

// RunCreateMasterKey generates a cryptographically secure 32-byte master key.
// Key material is zeroed from memory after encoding.
//
// When kmsProvider is empty the key is printed as a plain MASTER_KEY value,
// suitable for development. When a KMS provider is given the key is encrypted
// with the KMS before output and printed as MASTER_KEY_WRAPPED, so the plain
// key never touches the environment.
// For local development with KMS, use kmsProvider="localsecrets" with
// kmsKeyURI="base64key://...".
//
// Security: Never use the plain MASTER_KEY output or the localsecrets provider
// in production. Use cloud KMS providers (gcpkms, awskms, azurekeyvault,
// hashivault).
func RunCreateMasterKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsProvider, kmsKeyURI string,
) error {
	// Generate a cryptographically secure 32-byte master key
	masterKey := make([]byte, 32)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	if kmsProvider == "" {
		encodedKey := base64.StdEncoding.EncodeToString(masterKey)

		_, _ = fmt.Fprintln(writer, "# Master Key Configuration (Plain Mode)")
		_, _ = fmt.Fprintln(writer, "# Copy this environment variable to your .env file or secrets manager")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintf(writer, "MASTER_KEY=\"%s\"\n", encodedKey)
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintln(writer, "# For production, wrap the key with a KMS instead:")
		_, _ = fmt.Fprintln(writer, "#   create-master-key --kms-provider=gcpkms --kms-key-uri=\"gcpkms://projects/.../cryptoKeys/...\"")

		logger.Info("master key generated", slog.String("mode", "plain"))
		return nil
	}

	if kmsKeyURI == "" {
		return fmt.Errorf(
			"--kms-key-uri is required when --kms-provider is set\n\nFor local development, use:\n  --kms-provider=localsecrets --kms-key-uri=\"base64key://<32-byte-base64-key>\"\n\nFor production, use cloud KMS providers:\n  --kms-provider=gcpkms --kms-key-uri=\"gcpkms://projects/.../cryptoKeys/...\"\n  --kms-provider=awskms --kms-key-uri=\"awskms:///alias/...\"\n  --kms-provider=azurekeyvault --kms-key-uri=\"azurekeyvault://...\"",
		)
	}

	// Open keeper for the configured KMS provider
	keeperInterface, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeperInterface.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	// Type assert to get Encrypt method (keepers only expose Decrypt for boot unwrap)
	keeper, ok := keeperInterface.(interface {
		Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	})
	if !ok {
		return fmt.Errorf("KMS keeper does not support encryption")
	}

	// Encrypt master key with KMS
	ciphertext, err := keeper.Encrypt(ctx, masterKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt master key with KMS: %w", err)
	}

	encodedKey := base64.StdEncoding.EncodeToString(ciphertext)

	_, _ = fmt.Fprintln(writer, "# Master Key Configuration (KMS Mode)")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "MASTER_KEY_WRAPPED=\"%s\"\n", encodedKey)

	logger.Info("master key generated", slog.String("mode", "kms"), slog.String("kms_provider", kmsProvider))
	return nil
}
