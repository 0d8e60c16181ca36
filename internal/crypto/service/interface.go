// Package service provides cryptographic services for protecting secret values.
// Implements AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305) behind a single
// Engine that seals values into self-describing blobs.
package service

import (
	cryptoDomain "github.com/siaa-labs/vault/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// Engine seals secret values under the master key and opens stored blobs.
//
// A sealed blob is self-describing: alg(1 byte) || nonce || ciphertext+tag.
// Open never needs to be told which algorithm a value was written with, so
// the default algorithm can change without migrating stored data.
type Engine interface {
	// Seal encrypts plaintext under the default algorithm and returns a blob.
	Seal(plaintext, aad []byte) ([]byte, error)

	// Open decrypts a blob produced by Seal with any supported algorithm.
	Open(blob, aad []byte) ([]byte, error)
}
