package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/siaa-labs/vault/internal/crypto/domain"
)

func TestAEADManagerCreateCipher(t *testing.T) {
	manager := NewAEADManager()
	key := randomKey(t, cryptoDomain.MasterKeySize)

	t.Run("maps-algorithms-to-cipher-types", func(t *testing.T) {
		aesCipher, err := manager.CreateCipher(key, cryptoDomain.AESGCM)
		require.NoError(t, err)
		assert.IsType(t, &AESGCMCipher{}, aesCipher)

		chachaCipher, err := manager.CreateCipher(key, cryptoDomain.ChaCha20)
		require.NoError(t, err)
		assert.IsType(t, &ChaCha20Poly1305Cipher{}, chachaCipher)
	})

	t.Run("rejects-unknown-algorithms", func(t *testing.T) {
		for _, alg := range []cryptoDomain.Algorithm{"", "fernet", "AES-GCM", "CHACHA20-POLY1305"} {
			_, err := manager.CreateCipher(key, alg)
			assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm, "algorithm %q", alg)
		}
	})

	t.Run("rejects-wrong-key-sizes", func(t *testing.T) {
		for _, size := range []int{0, 16, 31, 33, 64} {
			_, err := manager.CreateCipher(make([]byte, size), cryptoDomain.AESGCM)
			assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize, "key size %d", size)
		}

		_, err := manager.CreateCipher(nil, cryptoDomain.ChaCha20)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("created-ciphers-round-trip", func(t *testing.T) {
		for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
			cipher, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)

			plaintext := []byte("sk-live-4242")
			aad := []byte("billing/stripe-key")

			ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
			require.NoError(t, err)

			decrypted, err := cipher.Decrypt(ciphertext, nonce, aad)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted, "algorithm %q", alg)
		}
	})

	t.Run("ciphers-with-different-keys-are-independent", func(t *testing.T) {
		cipher1, err := manager.CreateCipher(randomKey(t, 32), cryptoDomain.AESGCM)
		require.NoError(t, err)
		cipher2, err := manager.CreateCipher(randomKey(t, 32), cryptoDomain.AESGCM)
		require.NoError(t, err)

		ciphertext, nonce, err := cipher1.Encrypt([]byte("value"), nil)
		require.NoError(t, err)

		_, err = cipher2.Decrypt(ciphertext, nonce, nil)
		assert.Error(t, err)
	})
}
