package domain

import (
	"github.com/siaa-labs/vault/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures. All errors are mapped to
// appropriate HTTP status codes by the error handling layer.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	//
	// Supported algorithms: AESGCM (AES-256-GCM), ChaCha20 (ChaCha20-Poly1305)
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	// Master keys must be exactly 32 bytes (256 bits).
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrMasterKeyNotSet indicates no master key material was provided.
	ErrMasterKeyNotSet = errors.New("master key not set")

	// ErrInvalidMasterKeyBase64 indicates the master key is not valid base64.
	ErrInvalidMasterKeyBase64 = errors.New("master key is not valid base64")

	// ErrDecryptionFailed indicates a decryption operation failed.
	//
	// This error can occur due to:
	//   - Wrong master key (e.g., the blob predates a key rotation)
	//   - Ciphertext has been tampered with (authentication failure)
	//   - Corrupted stored data
	//
	// For security reasons, the specific cause is not disclosed to clients.
	ErrDecryptionFailed = errors.Wrap(errors.ErrCrypto, "decryption failed")

	// ErrMalformedBlob indicates a sealed blob is too short or carries an
	// unknown algorithm identifier.
	ErrMalformedBlob = errors.Wrap(errors.ErrCrypto, "malformed encrypted blob")
)
