package dto

import (
	"time"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
)

// SessionTokenResponse contains an issued session token and its expiry.
type SessionTokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapSessionTokenToResponse converts an issued session token to an API response.
func MapSessionTokenToResponse(token *authDomain.SessionToken) SessionTokenResponse {
	return SessionTokenResponse{
		Token:     token.Token,
		TokenType: "bearer",
		ExpiresAt: token.ExpiresAt,
	}
}

// CreateClientResponse contains the result of registering a new client.
// SECURITY: The secret is only returned once and must be saved securely.
type CreateClientResponse struct {
	ID              string `json:"id"`
	ClientID        string `json:"client_id"`
	Secret          string `json:"secret"` //nolint:gosec // returned once on creation
	SecretGenerated bool   `json:"secret_generated"`
}

// MapCreateClientToResponse converts a registration result to an API response.
func MapCreateClientToResponse(output *authDomain.CreateClientOutput) CreateClientResponse {
	return CreateClientResponse{
		ID:              output.ID.String(),
		ClientID:        output.ClientID,
		Secret:          output.PlainSecret,
		SecretGenerated: output.SecretGenerated,
	}
}

// ClientResponse represents a client in API responses (excludes secret).
type ClientResponse struct {
	ID         string     `json:"id"`
	ClientID   string     `json:"client_id"`
	Name       string     `json:"name"`
	IsActive   bool       `json:"is_active"`
	Namespaces []string   `json:"namespaces"`
	LastSeen   *time.Time `json:"last_seen"`
	CreatedAt  time.Time  `json:"created_at"`
}

// MapClientToResponse converts a domain client to an API response.
func MapClientToResponse(client *authDomain.Client) ClientResponse {
	return ClientResponse{
		ID:         client.ID.String(),
		ClientID:   client.ClientID,
		Name:       client.Name,
		IsActive:   client.IsActive,
		Namespaces: client.Namespaces,
		LastSeen:   client.LastSeen,
		CreatedAt:  client.CreatedAt,
	}
}

// ListClientsResponse represents a list of clients in API responses.
type ListClientsResponse struct {
	Data []ClientResponse `json:"data"`
}

// MapClientsToListResponse converts domain clients to a list response.
func MapClientsToListResponse(clients []*authDomain.Client) ListClientsResponse {
	data := make([]ClientResponse, 0, len(clients))
	for _, client := range clients {
		data = append(data, MapClientToResponse(client))
	}
	return ListClientsResponse{Data: data}
}

// AuditLogResponse represents an audit log entry in API responses.
type AuditLogResponse struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"client_id"`
	Action        string    `json:"action"`
	Namespace     string    `json:"namespace,omitempty"`
	Key           string    `json:"key,omitempty"`
	Detail        string    `json:"detail,omitempty"`
	SourceAddress string    `json:"source_address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// MapAuditLogToResponse converts a domain audit log entry to an API response.
func MapAuditLogToResponse(auditLog *authDomain.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:            auditLog.ID.String(),
		ClientID:      auditLog.ClientID,
		Action:        string(auditLog.Action),
		Namespace:     auditLog.Namespace,
		Key:           auditLog.Key,
		Detail:        auditLog.Detail,
		SourceAddress: auditLog.SourceAddress,
		CreatedAt:     auditLog.CreatedAt,
	}
}

// ListAuditLogsResponse represents a list of audit log entries in API responses.
type ListAuditLogsResponse struct {
	Data []AuditLogResponse `json:"data"`
}

// MapAuditLogsToListResponse converts domain audit logs to a list response.
func MapAuditLogsToListResponse(auditLogs []*authDomain.AuditLog) ListAuditLogsResponse {
	data := make([]AuditLogResponse, 0, len(auditLogs))
	for _, auditLog := range auditLogs {
		data = append(data, MapAuditLogToResponse(auditLog))
	}
	return ListAuditLogsResponse{Data: data}
}

// InternalTokenResponse contains the current internal token and its expiry.
type InternalTokenResponse struct {
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapInternalTokenToResponse converts a domain internal token to an API response.
func MapInternalTokenToResponse(token *authDomain.InternalToken) InternalTokenResponse {
	return InternalTokenResponse{
		Name:      token.Name,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	}
}
