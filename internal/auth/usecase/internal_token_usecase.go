// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	authService "github.com/siaa-labs/vault/internal/auth/service"
	"github.com/siaa-labs/vault/internal/database"
	apperrors "github.com/siaa-labs/vault/internal/errors"
)

// rotationExpiryMargin is added on top of the rotation interval when computing
// token expiry. It absorbs scheduler delay and clock skew between the vault
// and its consumers; it is not a grace period for missed rotations.
const rotationExpiryMargin = 30 * time.Minute

// internalTokenUseCase implements InternalTokenUseCase for the rotating
// internal token shared with trusted infrastructure.
type internalTokenUseCase struct {
	txManager        database.TxManager
	tokenRepo        InternalTokenRepository
	tokenService     authService.InternalTokenService
	rotationInterval time.Duration
}

// Rotate replaces the active internal token with a freshly generated one.
// The old tokens are deactivated and the new one inserted in a single
// transaction, so readers never observe zero or two active tokens. When a
// concurrent rotation commits first, for example the CLI racing the cron job,
// the database rejects the second insert and the winner's token is returned.
func (i *internalTokenUseCase) Rotate(ctx context.Context) (*authDomain.InternalToken, error) {
	value, err := i.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	token := &authDomain.InternalToken{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "auto (" + now.Format(time.RFC3339) + ")",
		Token:     value,
		IsActive:  true,
		ExpiresAt: now.Add(i.rotationInterval + rotationExpiryMargin),
		CreatedAt: now,
	}

	err = i.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := i.tokenRepo.DeactivateAll(txCtx); err != nil {
			return err
		}
		return i.tokenRepo.Create(txCtx, token)
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			return i.tokenRepo.GetActive(ctx)
		}
		return nil, err
	}

	return token, nil
}

// EnsureActive provisions an internal token when none is active or the active
// one has already expired. Called at startup so consumers never observe a
// vault without a current token.
func (i *internalTokenUseCase) EnsureActive(ctx context.Context) error {
	token, err := i.tokenRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, authDomain.ErrNoActiveInternalToken) {
			_, err = i.Rotate(ctx)
		}
		return err
	}

	if !token.Valid(time.Now().UTC()) {
		_, err = i.Rotate(ctx)
		return err
	}

	return nil
}

// Validate checks an internal token value and returns the wildcard principal
// it represents. Internal tokens authenticate trusted infrastructure, so the
// principal is granted access to every namespace.
func (i *internalTokenUseCase) Validate(
	ctx context.Context,
	value string,
) (*authDomain.Principal, error) {
	token, err := i.tokenRepo.GetByToken(ctx, value)
	if err != nil {
		return nil, err
	}

	if !token.IsActive {
		return nil, authDomain.ErrInvalidToken
	}
	if !time.Now().UTC().Before(token.ExpiresAt) {
		return nil, authDomain.ErrTokenExpired
	}

	return &authDomain.Principal{
		ClientID:   authDomain.InternalClientID,
		Namespaces: []string{authDomain.NamespaceWildcard},
	}, nil
}

// GetCurrent retrieves the currently active internal token. The expiry margin
// keeps the returned token usable well past the next scheduled rotation.
func (i *internalTokenUseCase) GetCurrent(ctx context.Context) (*authDomain.InternalToken, error) {
	return i.tokenRepo.GetActive(ctx)
}

// NewInternalTokenUseCase creates a new InternalTokenUseCase with the provided dependencies.
func NewInternalTokenUseCase(
	txManager database.TxManager,
	tokenRepo InternalTokenRepository,
	tokenService authService.InternalTokenService,
	rotationInterval time.Duration,
) InternalTokenUseCase {
	return &internalTokenUseCase{
		txManager:        txManager,
		tokenRepo:        tokenRepo,
		tokenService:     tokenService,
		rotationInterval: rotationInterval,
	}
}
