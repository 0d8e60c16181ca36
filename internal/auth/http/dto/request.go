// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	customValidation "github.com/siaa-labs/vault/internal/validation"
)

// AuthenticateRequest contains the credentials for obtaining a session token.
type AuthenticateRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// Validate checks if the authenticate request is valid.
func (r *AuthenticateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ClientID,
			validation.Required,
			customValidation.Name,
			validation.Length(1, 255),
		),
		validation.Field(&r.ClientSecret,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// CreateClientRequest contains the parameters for registering a new client.
// Secret is optional; when omitted one is generated and returned exactly once.
type CreateClientRequest struct {
	ClientID   string   `json:"client_id"`
	Name       string   `json:"name"`
	Secret     string   `json:"secret"`
	IsActive   bool     `json:"is_active"`
	Namespaces []string `json:"namespaces"`
}

// Validate checks if the create client request is valid.
func (r *CreateClientRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ClientID,
			validation.Required,
			customValidation.Name,
			validation.Length(1, 255),
		),
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Secret,
			validation.Length(0, 255),
		),
		validation.Field(&r.Namespaces,
			validation.Required,
			validation.Each(validation.By(validateNamespaceGrant)),
		),
	)
}

// validateNamespaceGrant validates a single namespace grant entry. The
// wildcard grant "*" is accepted alongside regular namespace names.
func validateNamespaceGrant(value interface{}) error {
	namespace, ok := value.(string)
	if !ok {
		return validation.NewError("validation_namespace_type", "must be a string")
	}
	if namespace == authDomain.NamespaceWildcard {
		return nil
	}

	return validation.Validate(namespace,
		validation.Required,
		customValidation.Name,
		validation.Length(1, 255),
	)
}
