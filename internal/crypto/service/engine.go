package service

import (
	cryptoDomain "github.com/siaa-labs/vault/internal/crypto/domain"
)

// Nonce size shared by both supported AEAD constructions.
const nonceSize = 12

// engine implements Engine on top of the master key.
//
// Both ciphers are constructed once at startup so Open can handle blobs
// written under either algorithm regardless of the configured default.
type engine struct {
	defaultAlg cryptoDomain.Algorithm
	ciphers    map[byte]AEAD
}

// NewEngine creates an Engine that seals with the given default algorithm.
//
// The master key must remain valid for the lifetime of the engine; the engine
// does not copy the key material.
func NewEngine(
	masterKey *cryptoDomain.MasterKey,
	defaultAlg cryptoDomain.Algorithm,
	manager AEADManager,
) (Engine, error) {
	if defaultAlg.ID() == 0 {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}

	ciphers := make(map[byte]AEAD, 2)
	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		aead, err := manager.CreateCipher(masterKey.Key, alg)
		if err != nil {
			return nil, err
		}
		ciphers[alg.ID()] = aead
	}

	return &engine{defaultAlg: defaultAlg, ciphers: ciphers}, nil
}

// Seal encrypts plaintext under the default algorithm.
//
// The blob layout is alg(1 byte) || nonce(12 bytes) || ciphertext+tag.
func (e *engine) Seal(plaintext, aad []byte) ([]byte, error) {
	algID := e.defaultAlg.ID()
	ciphertext, nonce, err := e.ciphers[algID].Encrypt(plaintext, aad)
	if err != nil {
		return nil, err
	}

	blob := make([]byte, 0, 1+len(nonce)+len(ciphertext))
	blob = append(blob, algID)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return blob, nil
}

// Open decrypts a blob produced by Seal.
//
// Returns ErrMalformedBlob for truncated blobs or unknown algorithm
// identifiers and ErrDecryptionFailed when authentication fails. Neither
// error reveals which condition occurred beyond that classification.
func (e *engine) Open(blob, aad []byte) ([]byte, error) {
	if len(blob) < 1+nonceSize {
		return nil, cryptoDomain.ErrMalformedBlob
	}

	aead, ok := e.ciphers[blob[0]]
	if !ok {
		return nil, cryptoDomain.ErrMalformedBlob
	}

	nonce := blob[1 : 1+nonceSize]
	ciphertext := blob[1+nonceSize:]

	plaintext, err := aead.Decrypt(ciphertext, nonce, aad)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// Rewrap decrypts a blob with the from engine and seals it again with the to
// engine. Used by the rewrap command to migrate stored values onto a new
// master key or default algorithm.
func Rewrap(from, to Engine, blob, aad []byte) ([]byte, error) {
	plaintext, err := from.Open(blob, aad)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(plaintext)

	return to.Seal(plaintext, aad)
}
