// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	authService "github.com/siaa-labs/vault/internal/auth/service"
)

// clientUseCase implements ClientUseCase for managing registered clients.
type clientUseCase struct {
	clientRepo    ClientRepository
	secretService authService.SecretService
}

// Register creates and persists a new Client scoped to a set of namespaces.
//
// When the input carries no secret, a secure random one is generated and
// returned exactly once. When the caller supplies a secret, only its hash is
// stored and the plain value is not echoed back.
func (c *clientUseCase) Register(
	ctx context.Context,
	createClientInput *authDomain.CreateClientInput,
) (*authDomain.CreateClientOutput, error) {
	// Reject duplicate client identifiers up front
	_, err := c.clientRepo.GetByClientID(ctx, createClientInput.ClientID)
	if err == nil {
		return nil, authDomain.ErrClientExists
	}
	if !errors.Is(err, authDomain.ErrClientNotFound) {
		return nil, err
	}

	var (
		plainSecret     string
		hashedSecret    string
		secretGenerated bool
	)

	if createClientInput.Secret == "" {
		plainSecret, hashedSecret, err = c.secretService.GenerateSecret()
		if err != nil {
			return nil, err
		}
		secretGenerated = true
	} else {
		hashedSecret, err = c.secretService.HashSecret(createClientInput.Secret)
		if err != nil {
			return nil, err
		}
	}

	client := &authDomain.Client{
		ID:         uuid.Must(uuid.NewV7()),
		ClientID:   createClientInput.ClientID,
		Secret:     hashedSecret,
		Name:       createClientInput.Name,
		IsActive:   createClientInput.IsActive,
		Namespaces: createClientInput.Namespaces,
		CreatedAt:  time.Now().UTC(),
	}

	if err := c.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return &authDomain.CreateClientOutput{
		ID:              client.ID,
		ClientID:        client.ClientID,
		PlainSecret:     plainSecret,
		SecretGenerated: secretGenerated,
	}, nil
}

// List retrieves all registered clients, newest first.
func (c *clientUseCase) List(ctx context.Context) ([]*authDomain.Client, error) {
	return c.clientRepo.List(ctx)
}

// Deactivate disables a client so it can no longer authenticate. The record is
// preserved so past audit entries keep pointing at a real client.
func (c *clientUseCase) Deactivate(ctx context.Context, clientID string) error {
	return c.clientRepo.SetActive(ctx, clientID, false)
}

// NewClientUseCase creates a new ClientUseCase with the provided dependencies.
func NewClientUseCase(
	clientRepo ClientRepository,
	secretService authService.SecretService,
) ClientUseCase {
	return &clientUseCase{
		clientRepo:    clientRepo,
		secretService: secretService,
	}
}
