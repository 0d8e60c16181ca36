// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"errors"
	"time"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	authService "github.com/siaa-labs/vault/internal/auth/service"
)

// dummyClientSecretHash is a throwaway Argon2id hash with the same cost
// parameters as stored client hashes. Rejections for unknown client IDs
// verify against it so they take as long as a wrong-secret rejection and the
// two cannot be told apart by timing.
const dummyClientSecretHash = "$argon2id$v=19$m=65536,t=3,p=4$FxYv38GRhQ5ApB1Q9NteRw$NFVYsHniDyBhFfgCuXNbAvoRiHgRYae310TsKZ/Gqu8" //nolint:gosec // not a credential

// sessionUseCase implements SessionUseCase for issuing and verifying session tokens.
type sessionUseCase struct {
	clientRepo      ClientRepository
	auditLogUseCase AuditLogUseCase
	secretService   authService.SecretService
	sessionService  authService.SessionService
}

// Authenticate verifies client credentials and issues a session token.
//
// This method:
// 1. Looks up the client by its identifier
// 2. Verifies the supplied secret against the stored hash
// 3. Checks the client is active
// 4. Records the attempt in the audit trail
// 5. Issues a signed session token carrying the client's namespace grants
//
// Security Notes:
//   - Returns ErrInvalidCredentials for unknown clients, wrong secrets, and
//     inactive clients alike to prevent client enumeration; the unknown-client
//     path verifies against a dummy hash so it costs the same as a wrong secret
//   - Failed attempts are audited with the claimed client identifier, since
//     probing attempts are exactly what the trail is for
func (s *sessionUseCase) Authenticate(
	ctx context.Context,
	clientID, clientSecret string,
) (*authDomain.SessionToken, error) {
	client, err := s.clientRepo.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, authDomain.ErrClientNotFound) {
			// Burn the same hashing cost as a real comparison so an unknown
			// client rejects no faster than a wrong secret
			s.secretService.CompareSecret(clientSecret, dummyClientSecretHash)
			return nil, s.reject(ctx, clientID)
		}
		return nil, err
	}

	if !s.secretService.CompareSecret(clientSecret, client.Secret) {
		return nil, s.reject(ctx, clientID)
	}

	if !client.IsActive {
		return nil, s.reject(ctx, clientID)
	}

	if err := s.auditLogUseCase.Record(
		ctx, clientID, authDomain.ActionAuthenticate, "", "", "",
	); err != nil {
		return nil, err
	}

	// Best effort; a stale last_seen is not worth failing authentication over
	_ = s.clientRepo.UpdateLastSeen(ctx, clientID, time.Now().UTC())

	token, expiresAt, err := s.sessionService.Issue(client.ClientID, client.Namespaces)
	if err != nil {
		return nil, err
	}

	return &authDomain.SessionToken{
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// reject audits a failed authentication attempt and returns the generic
// credentials error. Audit failures are swallowed here so the caller always
// sees the same rejection.
func (s *sessionUseCase) reject(ctx context.Context, clientID string) error {
	_ = s.auditLogUseCase.Record(
		ctx, clientID, authDomain.ActionAuthenticateFailed, "", "", "",
	)
	return authDomain.ErrInvalidCredentials
}

// Verify validates a session token and returns the principal it represents.
// Verification is purely cryptographic; no database access happens here, so a
// client deactivated after token issuance keeps access until expiry.
func (s *sessionUseCase) Verify(ctx context.Context, token string) (*authDomain.Principal, error) {
	return s.sessionService.Verify(token)
}

// NewSessionUseCase creates a new SessionUseCase with the provided dependencies.
func NewSessionUseCase(
	clientRepo ClientRepository,
	auditLogUseCase AuditLogUseCase,
	secretService authService.SecretService,
	sessionService authService.SessionService,
) SessionUseCase {
	return &sessionUseCase{
		clientRepo:      clientRepo,
		auditLogUseCase: auditLogUseCase,
		secretService:   secretService,
		sessionService:  sessionService,
	}
}
