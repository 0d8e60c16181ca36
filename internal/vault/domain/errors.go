package domain

import (
	"github.com/siaa-labs/vault/internal/errors"
)

// Secret storage errors.
var (
	// ErrSecretNotFound indicates no secret exists for the (namespace, key) pair.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")
)
