// Package dto provides data transfer objects for secret store HTTP handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/siaa-labs/vault/internal/validation"
)

// WriteSecretRequest contains the parameters for writing a secret value.
// Description is plaintext annotation and must never contain secret material.
type WriteSecretRequest struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

// Validate checks if the write secret request is valid.
func (r *WriteSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Value,
			validation.Required,
			validation.Length(1, 65536),
		),
		validation.Field(&r.Description,
			validation.Length(0, 1024),
		),
	)
}

// ValidatePathSegment validates a namespace or key path parameter.
func ValidatePathSegment(value string) error {
	return validation.Validate(value,
		validation.Required,
		customValidation.Name,
		validation.Length(1, 255),
	)
}
