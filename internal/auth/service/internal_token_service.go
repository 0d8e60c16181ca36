package service

import (
	"crypto/rand"
	"encoding/base64"

	apperrors "github.com/siaa-labs/vault/internal/errors"
)

// internalTokenService implements InternalTokenService.
type internalTokenService struct{}

// NewInternalTokenService creates a new InternalTokenService instance.
func NewInternalTokenService() InternalTokenService {
	return &internalTokenService{}
}

// GenerateToken creates a new cryptographically secure 48-byte random token.
// The token is base64 URL-encoded for easy transmission and storage.
func (t *internalTokenService) GenerateToken() (string, error) {
	randomBytes := make([]byte, 48)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate random token")
	}

	return base64.URLEncoding.EncodeToString(randomBytes), nil
}
