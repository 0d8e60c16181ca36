package service

import (
	cryptoDomain "github.com/siaa-labs/vault/internal/crypto/domain"
)

// AEADManagerService builds cipher instances for the engine. It is the single
// place mapping algorithm names to implementations, so adding a cipher means
// one new case here plus its algorithm constant.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher creates an AEAD for the given algorithm. Both supported
// ciphers take a 256-bit key; anything else is rejected before touching
// the cipher constructors.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != cryptoDomain.MasterKeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	switch alg {
	case cryptoDomain.AESGCM:
		return NewAESGCM(key)
	case cryptoDomain.ChaCha20:
		return NewChaCha20Poly1305(key)
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
}
