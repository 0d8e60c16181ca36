// Package domain defines the core domain models for namespaced secret storage.
// Secrets are encrypted into a single self-describing blob and mutated in
// place on overwrite; no version history is retained, and deletes are hard.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Secret represents one encrypted credential field, unique per (namespace, key).
type Secret struct {
	// ID is the unique identifier for this secret (UUIDv7).
	ID uuid.UUID
	// Namespace is the owning module/tenant.
	Namespace string
	// Key is the free-form field name within the namespace.
	Key string
	// Ciphertext is the sealed value blob (algorithm byte, nonce, ciphertext+tag).
	Ciphertext []byte
	// Plaintext holds the decrypted value in memory only; must be zeroed after use.
	Plaintext []byte `json:"-"`
	// Description is an optional plaintext annotation. Never encrypted; must
	// never contain actual secret material.
	Description string
	// IsActive soft-disables a secret. Inactive secrets read as missing but
	// keep their row; a later write to the same key reactivates it.
	IsActive bool
	// AccessCount is the number of successful decrypting reads.
	AccessCount int64
	// LastAccessedBy is the client that last read this secret ("" before first read).
	LastAccessedBy string
	// LastAccessedAt is when the secret was last read (nil before first read).
	LastAccessedAt *time.Time
	// CreatedAt is the UTC timestamp of the first write.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the most recent write.
	UpdatedAt time.Time
}

// AAD returns the additional authenticated data binding a sealed blob to its
// (namespace, key) location. A blob copied to another row fails decryption.
func AAD(namespace, key string) []byte {
	return []byte(namespace + "/" + key)
}
