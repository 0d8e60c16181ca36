package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Client represents a registered caller of the vault (e.g., the chat bot or
// the proxy manager). Clients authenticate with a secret and are scoped to a
// set of namespaces.
type Client struct {
	ID         uuid.UUID // Unique identifier (UUIDv7)
	ClientID   string    // Caller-chosen stable identifier (e.g., "telegram-bot")
	Secret     string    //nolint:gosec // hashed client secret (not plaintext)
	Name       string    // Human-readable client name
	IsActive   bool      // Whether the client can authenticate
	Namespaces []string  // Namespaces the client may access; "*" grants all
	LastSeen   *time.Time
	CreatedAt  time.Time
}

// AllowsNamespace reports whether the client may access the given namespace.
// A single "*" entry grants access to every namespace. Matching is exact and
// case-sensitive; there is no prefix matching between namespaces.
func (c *Client) AllowsNamespace(namespace string) bool {
	if namespace == "" {
		return false
	}
	if slices.Contains(c.Namespaces, NamespaceWildcard) {
		return true
	}
	return slices.Contains(c.Namespaces, namespace)
}

// Principal is the resolved identity attached to an authenticated request.
//
// Both authentication paths produce one: session tokens carry the client's
// namespace grants in their claims, and internal tokens resolve to a wildcard
// principal since they represent trusted infrastructure. The namespace guard
// only ever inspects a Principal.
type Principal struct {
	ClientID   string
	Namespaces []string
}

// AllowsNamespace reports whether the principal may access the given namespace.
func (p *Principal) AllowsNamespace(namespace string) bool {
	if namespace == "" {
		return false
	}
	if slices.Contains(p.Namespaces, NamespaceWildcard) {
		return true
	}
	return slices.Contains(p.Namespaces, namespace)
}

// IsWildcard reports whether the principal has unrestricted namespace access.
func (p *Principal) IsWildcard() bool {
	return slices.Contains(p.Namespaces, NamespaceWildcard)
}

// CreateClientInput contains the parameters for registering a new client.
// When Secret is empty, one is generated and returned exactly once.
type CreateClientInput struct {
	ClientID   string   // Stable identifier chosen by the operator
	Name       string   // Human-readable name for identifying the client
	Secret     string   // Optional caller-supplied secret; generated when empty
	IsActive   bool     // Whether the client can authenticate immediately after creation
	Namespaces []string // Namespaces the client may access
}

// CreateClientOutput contains the result of registering a client.
// SECURITY: PlainSecret is only returned once and must be securely transmitted
// to the client. It is never retrievable again after this response.
type CreateClientOutput struct {
	ID              uuid.UUID // Unique identifier for the created client (UUIDv7)
	ClientID        string
	PlainSecret     string // Plain text secret for authentication (transmit securely, never log)
	SecretGenerated bool   // True when the secret was generated server-side
}
