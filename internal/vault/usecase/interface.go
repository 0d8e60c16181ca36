// Package usecase defines business logic interfaces for namespaced secret storage.
package usecase

import (
	"context"
	"time"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	vaultDomain "github.com/siaa-labs/vault/internal/vault/domain"
)

// SecretRepository defines persistence operations for encrypted secrets.
// Implementations must support transaction-aware operations via context
// propagation so mutations and their audit rows commit atomically.
type SecretRepository interface {
	// Create stores a new secret.
	Create(ctx context.Context, secret *vaultDomain.Secret) error

	// Update overwrites the sealed value and description of an existing secret.
	// Returns ErrSecretNotFound if no row matches.
	Update(ctx context.Context, secret *vaultDomain.Secret) error

	// Get retrieves a secret by its (namespace, key) pair.
	// Returns ErrSecretNotFound if no row matches.
	Get(ctx context.Context, namespace, key string) (*vaultDomain.Secret, error)

	// GetAll retrieves every secret in a namespace ordered by key.
	GetAll(ctx context.Context, namespace string) ([]*vaultDomain.Secret, error)

	// ListKeys retrieves secret metadata (no ciphertext) for a namespace.
	ListKeys(ctx context.Context, namespace string) ([]*vaultDomain.Secret, error)

	// ListNamespaces retrieves every namespace holding at least one secret.
	ListNamespaces(ctx context.Context) ([]string, error)

	// Delete removes a secret. Returns whether a row existed.
	Delete(ctx context.Context, namespace, key string) (bool, error)

	// DeleteNamespace removes every secret in a namespace. Returns the count.
	DeleteNamespace(ctx context.Context, namespace string) (int64, error)

	// RecordAccess increments the access counter and stamps the reader of one secret.
	RecordAccess(ctx context.Context, namespace, key, clientID string, at time.Time) error

	// RecordNamespaceAccess stamps every secret in a namespace, for bulk reads.
	RecordNamespaceAccess(ctx context.Context, namespace, clientID string, at time.Time) error
}

// SecretUseCase defines business logic operations for the secret store.
//
// Namespace authorization happens before these methods are called; the acting
// client identifier is threaded in only for audit entries and access stamps.
// Every operation appends to the audit trail.
type SecretUseCase interface {
	// Write upserts a secret value by (namespace, key). The value is sealed
	// before it reaches the repository. Returns metadata only; the Plaintext
	// and Ciphertext fields of the returned secret are empty.
	Write(
		ctx context.Context,
		clientID, namespace, key string,
		value []byte,
		description string,
	) (*vaultDomain.Secret, error)

	// Read decrypts and returns a single secret, updating access bookkeeping.
	// A miss returns ErrSecretNotFound and is audited as a distinct action
	// from a successful read.
	Read(ctx context.Context, clientID, namespace, key string) (*vaultDomain.Secret, error)

	// ReadAll decrypts and returns every secret in a namespace keyed by secret
	// key, updating access bookkeeping for every row touched. Intended as the
	// primary startup call for a module fetching its whole configuration.
	ReadAll(ctx context.Context, clientID, namespace string) (map[string][]byte, error)

	// ListKeys returns metadata for every secret in a namespace. Never decrypts.
	ListKeys(ctx context.Context, clientID, namespace string) ([]*vaultDomain.Secret, error)

	// ListNamespaces returns the namespaces visible to the principal: every
	// namespace for a wildcard principal, the intersection with the
	// principal's grants otherwise.
	ListNamespaces(ctx context.Context, principal *authDomain.Principal) ([]string, error)

	// Delete removes a secret. Returns ErrSecretNotFound if none existed.
	Delete(ctx context.Context, clientID, namespace, key string) error

	// DeleteNamespace removes every secret in a namespace and returns the
	// count. Irreversible; intended for tenant offboarding.
	DeleteNamespace(ctx context.Context, clientID, namespace string) (int64, error)
}
