package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	authUseCase "github.com/siaa-labs/vault/internal/auth/usecase"
)

// RunCreateClient registers a new client scoped to a set of namespaces.
// Supports both interactive mode (when namespacesCSV is empty) and
// non-interactive mode (when namespacesCSV is provided). When secret is empty
// a secure one is generated server-side and shown exactly once. Outputs client
// ID and plain secret in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateClient(
	ctx context.Context,
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
	clientID string,
	name string,
	secret string,
	isActive bool,
	namespacesCSV string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new client",
		slog.String("client_id", clientID),
		slog.String("name", name),
	)

	// Parse or prompt for namespace grants
	var namespaces []string
	var err error

	if namespacesCSV == "" {
		// Interactive mode
		namespaces, err = promptForNamespaces(io)
		if err != nil {
			return fmt.Errorf("failed to get namespaces: %w", err)
		}
	} else {
		// Non-interactive mode: parse comma-separated list
		namespaces = parseNamespaces(namespacesCSV)
	}

	// Validate that at least one namespace was provided
	if len(namespaces) == 0 {
		return fmt.Errorf("at least one namespace is required (use \"*\" to grant all)")
	}

	// Create input
	input := &authDomain.CreateClientInput{
		ClientID:   clientID,
		Name:       name,
		Secret:     secret,
		IsActive:   isActive,
		Namespaces: namespaces,
	}

	// Register the client
	output, err := clientUseCase.Register(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputJSON(output, io.Writer)
	} else {
		outputText(output, io.Writer)
	}

	logger.Info("client created successfully",
		slog.String("client_id", output.ClientID),
		slog.String("name", name),
		slog.Bool("is_active", isActive),
		slog.Bool("secret_generated", output.SecretGenerated),
	)

	return nil
}

// promptForNamespaces interactively prompts the user to enter namespace grants.
// Accepts namespaces one at a time until the user declines to add more.
func promptForNamespaces(io IOTuple) ([]string, error) {
	reader := bufio.NewReader(io.Reader)
	writer := io.Writer
	var namespaces []string

	_, _ = fmt.Fprintln(writer, "\nEnter namespaces the client may access")
	_, _ = fmt.Fprintln(writer, "Use \"*\" to grant access to every namespace")
	_, _ = fmt.Fprintln(writer)

	namespaceNum := 1
	for {
		_, _ = fmt.Fprintf(writer, "Namespace #%d: ", namespaceNum)
		namespace, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read namespace: %w", err)
		}
		namespace = strings.TrimSpace(namespace)

		if namespace == "" {
			return nil, fmt.Errorf("namespace cannot be empty")
		}

		namespaces = append(namespaces, namespace)

		// A wildcard grant makes further entries pointless
		if namespace == authDomain.NamespaceWildcard {
			break
		}

		// Ask if user wants to add another
		_, _ = fmt.Fprint(writer, "Add another namespace? (y/n): ")
		addAnother, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		addAnother = strings.ToLower(strings.TrimSpace(addAnother))

		if addAnother != "y" && addAnother != "yes" {
			break
		}

		namespaceNum++
	}

	return namespaces, nil
}

// parseNamespaces converts a comma-separated string into a slice of namespaces.
func parseNamespaces(input string) []string {
	parts := strings.Split(input, ",")
	namespaces := make([]string, 0, len(parts))

	for _, part := range parts {
		namespace := strings.TrimSpace(part)
		if namespace != "" {
			namespaces = append(namespaces, namespace)
		}
	}

	return namespaces
}

// outputText outputs the result in human-readable text format.
func outputText(output *authDomain.CreateClientOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nClient created successfully!")
	_, _ = fmt.Fprintf(writer, "Client ID: %s\n", output.ClientID)
	_, _ = fmt.Fprintf(writer, "Secret: %s\n", output.PlainSecret)
	if output.SecretGenerated {
		_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The secret is shown only once. Store it securely.")
	}
}

// outputJSON outputs the result in JSON format for machine consumption.
func outputJSON(output *authDomain.CreateClientOutput, writer io.Writer) {
	result := map[string]interface{}{
		"client_id":        output.ClientID,
		"secret":           output.PlainSecret,
		"secret_generated": output.SecretGenerated,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
