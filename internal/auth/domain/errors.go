package domain

import (
	"github.com/siaa-labs/vault/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrClientNotFound indicates a client with the specified ID was not found.
	ErrClientNotFound = errors.Wrap(errors.ErrNotFound, "client not found")

	// ErrClientExists indicates a client with the same client_id is already registered.
	ErrClientExists = errors.Wrap(errors.ErrConflict, "client already exists")

	// ErrInvalidCredentials indicates the client_id/secret pair was rejected.
	// Deliberately identical for unknown clients, wrong secrets, and inactive
	// clients so callers cannot probe which of the three it was.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrInvalidToken indicates a session or internal token failed verification.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrTokenExpired indicates a session token is past its expiry.
	ErrTokenExpired = errors.Wrap(errors.ErrExpired, "token expired")

	// ErrNamespaceForbidden indicates the principal has no grant for the namespace.
	ErrNamespaceForbidden = errors.Wrap(errors.ErrForbidden, "namespace not allowed")

	// ErrNoActiveInternalToken indicates no internal token is currently active.
	ErrNoActiveInternalToken = errors.Wrap(errors.ErrNotFound, "no active internal token")
)
