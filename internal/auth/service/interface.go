// Package service provides technical services for authentication operations.
//
// This package implements reusable services for client secret handling, session
// token signing, and internal token generation using industry-standard
// cryptographic practices.
package service

import (
	"time"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
)

// SecretService defines operations for client secret generation and validation.
// Implementations must use cryptographically secure random generation and
// industry-standard hashing algorithms (e.g., bcrypt, argon2).
type SecretService interface {
	// GenerateSecret creates a new cryptographically secure random secret.
	// Returns both the plain text secret (to be shared with the client) and
	// the hashed version (to be stored in the database).
	//
	// The plain secret should be treated as sensitive data and only displayed
	// once to the client during creation.
	GenerateSecret() (plainSecret string, hashedSecret string, error error)

	// HashSecret hashes a plain text secret using a secure hashing algorithm.
	// Used when clients supply their own secret at registration.
	HashSecret(plainSecret string) (hashedSecret string, error error)

	// CompareSecret compares a plain text secret against a hashed secret.
	// Returns true if the plain secret matches the hash, false otherwise.
	// This is constant-time to prevent timing attacks.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// SessionService signs and verifies stateless session tokens.
//
// Tokens are HS256 JWTs carrying the client identifier and its namespace
// grants; nothing about a session is persisted server-side.
type SessionService interface {
	// Issue signs a session token for the client. Returns the token and its
	// expiry time.
	Issue(clientID string, namespaces []string) (token string, expiresAt time.Time, err error)

	// Verify parses and validates a session token, returning the principal it
	// represents. Returns ErrTokenExpired for expired tokens and
	// ErrInvalidToken for everything else that fails verification, so callers
	// can tell a stale session apart from a forged one.
	Verify(token string) (*authDomain.Principal, error)
}

// InternalTokenService generates opaque rotating tokens for trusted
// infrastructure components.
type InternalTokenService interface {
	// GenerateToken creates a new cryptographically secure random token,
	// URL-safe base64 encoded.
	GenerateToken() (string, error)
}
