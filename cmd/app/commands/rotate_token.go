package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	authUseCase "github.com/siaa-labs/vault/internal/auth/usecase"
)

// RunRotateToken replaces the active internal token with a freshly generated
// one, outside the regular rotation schedule. Useful after a suspected leak.
// Outputs the new expiry in either text or JSON format; the token value itself
// is never printed, consumers fetch it through the internal endpoint.
//
// Requirements: Database must be migrated and accessible.
func RunRotateToken(
	ctx context.Context,
	internalTokenUseCase authUseCase.InternalTokenUseCase,
	logger *slog.Logger,
	format string,
	io IOTuple,
) error {
	logger.Info("rotating internal token")

	token, err := internalTokenUseCase.Rotate(ctx)
	if err != nil {
		return fmt.Errorf("failed to rotate internal token: %w", err)
	}

	if format == "json" {
		outputRotateJSON(token, io)
	} else {
		_, _ = fmt.Fprintln(io.Writer, "Internal token rotated successfully!")
		_, _ = fmt.Fprintf(io.Writer, "Token ID: %s\n", token.ID.String())
		_, _ = fmt.Fprintf(io.Writer, "Name: %s\n", token.Name)
		_, _ = fmt.Fprintf(io.Writer, "Expires at: %s\n", token.ExpiresAt.Format(time.RFC3339))
	}

	logger.Info("internal token rotated",
		slog.String("token_id", token.ID.String()),
		slog.Time("expires_at", token.ExpiresAt),
	)

	return nil
}

// outputRotateJSON outputs the rotation result in JSON format.
func outputRotateJSON(token *authDomain.InternalToken, io IOTuple) {
	result := map[string]string{
		"token_id":   token.ID.String(),
		"name":       token.Name,
		"expires_at": token.ExpiresAt.Format(time.RFC3339),
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(io.Writer, string(jsonBytes))
}
