package domain

import (
	"context"
	"encoding/base64"
	"fmt"
)

// MasterKeySize is the required master key length in bytes (256 bits).
const MasterKeySize = 32

// MasterKey is the root key under which all secret values are encrypted.
//
// Security considerations:
//   - Master keys must be 32 bytes (256 bits)
//   - Keys should be generated using cryptographically secure random generators
//   - In production the key should be wrapped by a KMS and unwrapped at boot;
//     plain environment variables are acceptable for development
type MasterKey struct {
	Key []byte
}

// Close securely clears the key material from memory.
//
// Call this when the key is no longer needed (e.g., during application
// shutdown or after a rewrap run completes).
func (m *MasterKey) Close() {
	Zero(m.Key)
	m.Key = nil
}

// KMSKeeper abstracts the KMS unwrap operation. *secrets.Keeper from
// gocloud.dev implements this interface.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// LoadMasterKey decodes a base64-encoded 32-byte master key.
//
// Returns:
//   - ErrMasterKeyNotSet if the value is empty
//   - ErrInvalidMasterKeyBase64 if base64 decoding fails
//   - ErrInvalidKeySize if the decoded key is not exactly 32 bytes
func LoadMasterKey(encoded string) (*MasterKey, error) {
	if encoded == "" {
		return nil, ErrMasterKeyNotSet
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyBase64, err)
	}
	if len(key) != MasterKeySize {
		Zero(key)
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d", ErrInvalidKeySize, MasterKeySize, len(key))
	}

	return &MasterKey{Key: key}, nil
}

// UnwrapMasterKey decrypts a base64-encoded wrapped master key through a KMS keeper.
//
// The wrapped ciphertext is produced out of band (e.g., `vault kms encrypt`
// against the same key URI) and carried in MASTER_KEY_WRAPPED. The unwrapped
// plaintext must be a 32-byte key.
func UnwrapMasterKey(ctx context.Context, keeper KMSKeeper, wrapped string) (*MasterKey, error) {
	if wrapped == "" {
		return nil, ErrMasterKeyNotSet
	}

	ciphertext, err := base64.StdEncoding.DecodeString(wrapped)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyBase64, err)
	}

	key, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap master key: %w", err)
	}
	if len(key) != MasterKeySize {
		Zero(key)
		return nil, fmt.Errorf("%w: unwrapped master key must be %d bytes, got %d", ErrInvalidKeySize, MasterKeySize, len(key))
	}

	return &MasterKey{Key: key}, nil
}
