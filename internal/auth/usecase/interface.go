// Package usecase defines business logic interfaces for client registration,
// authentication, internal token rotation, and audit logging.
package usecase

import (
	"context"
	"time"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
)

// ClientRepository defines persistence operations for registered clients.
// Implementations must support transaction-aware operations via context propagation.
type ClientRepository interface {
	// Create stores a new client in the repository.
	Create(ctx context.Context, client *authDomain.Client) error

	// GetByClientID retrieves a client by its stable client identifier.
	// Returns ErrClientNotFound if not found.
	GetByClientID(ctx context.Context, clientID string) (*authDomain.Client, error)

	// List retrieves all clients, newest first.
	List(ctx context.Context) ([]*authDomain.Client, error)

	// UpdateLastSeen records the time of the client's most recent successful
	// authentication.
	UpdateLastSeen(ctx context.Context, clientID string, lastSeen time.Time) error

	// SetActive activates or deactivates a client. Returns ErrClientNotFound
	// if not found.
	SetActive(ctx context.Context, clientID string, active bool) error
}

// AuditLogRepository defines persistence operations for audit log entries.
type AuditLogRepository interface {
	// Create stores a new audit log entry.
	Create(ctx context.Context, auditLog *authDomain.AuditLog) error

	// List retrieves audit log entries matching the filter, newest first.
	List(ctx context.Context, filter authDomain.AuditLogFilter) ([]*authDomain.AuditLog, error)
}

// InternalTokenRepository defines persistence operations for rotating internal
// tokens. Implementations must support transaction-aware operations via context
// propagation so rotation can deactivate and insert atomically.
type InternalTokenRepository interface {
	// Create stores a new internal token.
	Create(ctx context.Context, token *authDomain.InternalToken) error

	// GetActive retrieves the currently active internal token.
	// Returns ErrNoActiveInternalToken when none exists.
	GetActive(ctx context.Context) (*authDomain.InternalToken, error)

	// GetByToken retrieves an internal token by its value.
	// Returns ErrInvalidToken when no row matches.
	GetByToken(ctx context.Context, token string) (*authDomain.InternalToken, error)

	// DeactivateAll marks every active internal token as inactive.
	DeactivateAll(ctx context.Context) error
}

// ClientUseCase defines business logic operations for managing registered clients.
type ClientUseCase interface {
	// Register creates a new client scoped to a set of namespaces.
	//
	// When the input carries no secret, a cryptographically secure one is
	// generated and returned exactly once in the output; only the Argon2id
	// hash is stored. Returns ErrClientExists when the client identifier is
	// already taken.
	Register(
		ctx context.Context,
		createClientInput *authDomain.CreateClientInput,
	) (*authDomain.CreateClientOutput, error)

	// List retrieves all registered clients, newest first. Returned clients
	// carry hashed secrets, never plain text.
	List(ctx context.Context) ([]*authDomain.Client, error)

	// Deactivate disables a client so it can no longer authenticate. Already
	// issued session tokens stay valid until they expire; the client record
	// is preserved for audit purposes.
	//
	// Returns ErrClientNotFound if the client doesn't exist.
	Deactivate(ctx context.Context, clientID string) error
}

// SessionUseCase defines business logic operations for session authentication.
type SessionUseCase interface {
	// Authenticate verifies client credentials and issues a session token
	// carrying the client's namespace grants.
	//
	// Returns ErrInvalidCredentials for unknown clients, wrong secrets, and
	// inactive clients alike, so callers cannot probe which client
	// identifiers exist. Every attempt is recorded in the audit trail.
	Authenticate(ctx context.Context, clientID, clientSecret string) (*authDomain.SessionToken, error)

	// Verify validates a session token and returns the principal it
	// represents. Returns ErrTokenExpired for expired tokens and
	// ErrInvalidToken for everything else that fails verification.
	Verify(ctx context.Context, token string) (*authDomain.Principal, error)
}

// InternalTokenUseCase defines business logic operations for the rotating
// internal token shared with trusted infrastructure.
type InternalTokenUseCase interface {
	// Rotate replaces the active internal token with a freshly generated one.
	// Deactivation of old tokens and insertion of the new one happen in a
	// single transaction, so exactly one token is active afterwards.
	Rotate(ctx context.Context) (*authDomain.InternalToken, error)

	// EnsureActive provisions an internal token when none is active or the
	// active one has expired. Called at startup so consumers never observe a
	// vault without a current token.
	EnsureActive(ctx context.Context) error

	// Validate checks an internal token value and returns the wildcard
	// principal it represents. Returns ErrInvalidToken for unknown or
	// deactivated tokens and ErrTokenExpired for expired ones.
	Validate(ctx context.Context, token string) (*authDomain.Principal, error)

	// GetCurrent retrieves the currently active internal token.
	// Returns ErrNoActiveInternalToken when none exists.
	GetCurrent(ctx context.Context) (*authDomain.InternalToken, error)
}

// AuditLogUseCase defines business logic operations for the audit trail.
type AuditLogUseCase interface {
	// Record appends an entry to the audit trail. Namespace, key, and detail
	// may be empty depending on the action.
	Record(
		ctx context.Context,
		clientID string,
		action authDomain.Action,
		namespace, key, detail string,
	) error

	// List retrieves audit log entries matching the filter, newest first.
	// A non-positive limit falls back to a sane default.
	List(ctx context.Context, filter authDomain.AuditLogFilter) ([]*authDomain.AuditLog, error)
}
