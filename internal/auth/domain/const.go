// Package domain defines authentication and authorization domain models.
// Implements namespace-scoped access control with clients, session tokens,
// rotating internal tokens, and audit logging.
package domain

// NamespaceWildcard grants a client access to every namespace.
const NamespaceWildcard = "*"

// InternalClientID identifies trusted infrastructure authenticated with the
// rotating internal token in audit trails and request context.
const InternalClientID = "internal"

// Action identifies the kind of operation recorded in an audit log entry.
type Action string

const (
	// ActionAuthenticate records a successful client authentication.
	ActionAuthenticate Action = "authenticate"

	// ActionAuthenticateFailed records a rejected authentication attempt.
	// The claimed client ID is recorded even when no such client exists,
	// since probing attempts are exactly what the trail is for.
	ActionAuthenticateFailed Action = "authenticate_failed"

	// ActionRead records a single-secret read.
	ActionRead Action = "read"

	// ActionReadMiss records a read of a key that does not exist.
	ActionReadMiss Action = "read_miss"

	// ActionReadAll records a bulk read of all secrets in a namespace.
	ActionReadAll Action = "read_all"

	// ActionList records a key listing in a namespace.
	ActionList Action = "list"

	// ActionWrite records creation of a new secret.
	ActionWrite Action = "write"

	// ActionUpdate records an overwrite of an existing secret.
	ActionUpdate Action = "update"

	// ActionDelete records deletion of a single secret.
	ActionDelete Action = "delete"

	// ActionDeleteNamespace records deletion of every secret in a namespace.
	ActionDeleteNamespace Action = "delete_namespace"
)
