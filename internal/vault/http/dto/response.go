package dto

import (
	"time"

	vaultDomain "github.com/siaa-labs/vault/internal/vault/domain"
)

// SecretMetadataResponse represents secret metadata in API responses.
// Never carries the value; used by write and listing endpoints.
type SecretMetadataResponse struct {
	Namespace      string     `json:"namespace"`
	Key            string     `json:"key"`
	Description    string     `json:"description,omitempty"`
	IsActive       bool       `json:"is_active"`
	AccessCount    int64      `json:"access_count"`
	LastAccessedBy string     `json:"last_accessed_by,omitempty"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// MapSecretToMetadataResponse converts a domain secret to a metadata response.
func MapSecretToMetadataResponse(secret *vaultDomain.Secret) SecretMetadataResponse {
	return SecretMetadataResponse{
		Namespace:      secret.Namespace,
		Key:            secret.Key,
		Description:    secret.Description,
		IsActive:       secret.IsActive,
		AccessCount:    secret.AccessCount,
		LastAccessedBy: secret.LastAccessedBy,
		LastAccessedAt: secret.LastAccessedAt,
		CreatedAt:      secret.CreatedAt,
		UpdatedAt:      secret.UpdatedAt,
	}
}

// SecretResponse represents a decrypted secret in API responses.
type SecretResponse struct {
	Namespace   string    `json:"namespace"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MapSecretToResponse converts a decrypted domain secret to an API response.
func MapSecretToResponse(secret *vaultDomain.Secret) SecretResponse {
	return SecretResponse{
		Namespace:   secret.Namespace,
		Key:         secret.Key,
		Value:       string(secret.Plaintext),
		Description: secret.Description,
		CreatedAt:   secret.CreatedAt,
		UpdatedAt:   secret.UpdatedAt,
	}
}

// NamespaceValuesResponse represents a bulk namespace read in API responses.
type NamespaceValuesResponse struct {
	Namespace string            `json:"namespace"`
	Data      map[string]string `json:"data"`
}

// MapValuesToResponse converts decrypted namespace values to an API response.
func MapValuesToResponse(namespace string, values map[string][]byte) NamespaceValuesResponse {
	data := make(map[string]string, len(values))
	for key, value := range values {
		data[key] = string(value)
	}
	return NamespaceValuesResponse{Namespace: namespace, Data: data}
}

// ListKeysResponse represents a namespace key listing in API responses.
type ListKeysResponse struct {
	Namespace string                   `json:"namespace"`
	Data      []SecretMetadataResponse `json:"data"`
}

// MapSecretsToListKeysResponse converts secret metadata to a listing response.
func MapSecretsToListKeysResponse(namespace string, secrets []*vaultDomain.Secret) ListKeysResponse {
	data := make([]SecretMetadataResponse, 0, len(secrets))
	for _, secret := range secrets {
		data = append(data, MapSecretToMetadataResponse(secret))
	}
	return ListKeysResponse{Namespace: namespace, Data: data}
}

// ListNamespacesResponse represents the visible namespaces in API responses.
type ListNamespacesResponse struct {
	Data []string `json:"data"`
}

// DeleteNamespaceResponse reports how many secrets a namespace delete removed.
type DeleteNamespaceResponse struct {
	Namespace string `json:"namespace"`
	Deleted   int64  `json:"deleted"`
}
