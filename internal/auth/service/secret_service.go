package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/siaa-labs/vault/internal/errors"
)

// clientSecretBytes is the entropy of a generated client secret.
const clientSecretBytes = 32

// NewSecretService creates a SecretService hashing client secrets with
// Argon2id under the moderate policy. Stored hashes never reveal the secret;
// the plain value exists only in the registration response.
func NewSecretService() SecretService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// Only reachable with an invalid policy constant
		panic(err)
	}

	return &secretService{hasher: hasher}
}

type secretService struct {
	hasher *pwdhash.PasswordHasher
}

// GenerateSecret creates a random client secret and returns it with its hash.
// The plain value is base64url so it survives env files and shell quoting.
func (s *secretService) GenerateSecret() (string, string, error) {
	raw := make([]byte, clientSecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random secret")
	}

	plainSecret := base64.URLEncoding.EncodeToString(raw)

	hashedSecret, err := s.HashSecret(plainSecret)
	if err != nil {
		return "", "", err
	}

	return plainSecret, hashedSecret, nil
}

// HashSecret hashes a plain secret with Argon2id.
func (s *secretService) HashSecret(plainSecret string) (string, error) {
	hashedSecret, err := s.hasher.Hash([]byte(plainSecret))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash secret")
	}
	return hashedSecret, nil
}

// CompareSecret reports whether plainSecret matches hashedSecret.
// Verification failures of any kind read as a mismatch.
func (s *secretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	ok, err := s.hasher.Verify([]byte(plainSecret), hashedSecret)
	if err != nil {
		return false
	}
	return ok
}
