package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codedError struct {
	Code int
}

func (e codedError) Error() string { return "coded" }

func TestWrap(t *testing.T) {
	t.Run("adds-context-and-keeps-the-chain", func(t *testing.T) {
		wrapped := Wrap(ErrNotFound, "secret billing/db-url")

		assert.Equal(t, "secret billing/db-url: not found", wrapped.Error())
		assert.ErrorIs(t, wrapped, ErrNotFound)
	})

	t.Run("nil-stays-nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
		assert.NoError(t, Wrapf(nil, "context %d", 1))
	})

	t.Run("wrapf-formats-the-context", func(t *testing.T) {
		wrapped := Wrapf(ErrConflict, "client %q", "telegram-bot")

		assert.Equal(t, `client "telegram-bot": conflict`, wrapped.Error())
		assert.ErrorIs(t, wrapped, ErrConflict)
	})
}

func TestIsAndAs(t *testing.T) {
	t.Run("is-sees-through-wrapping", func(t *testing.T) {
		wrapped := Wrap(Wrap(ErrUnauthorized, "token verify"), "middleware")

		assert.True(t, Is(wrapped, ErrUnauthorized))
		assert.False(t, Is(wrapped, ErrForbidden))
	})

	t.Run("as-extracts-typed-errors", func(t *testing.T) {
		wrapped := Wrap(codedError{Code: 42}, "context")

		var target codedError
		require.True(t, As(wrapped, &target))
		assert.Equal(t, 42, target.Code)
	})
}

func TestSentinels(t *testing.T) {
	// The sentinels must stay distinct; the HTTP layer maps each to its own
	// status code.
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrExpired,
		ErrForbidden,
		ErrCrypto,
	}

	for i, err := range sentinels {
		for j, other := range sentinels {
			if i == j {
				assert.ErrorIs(t, err, other)
				continue
			}
			assert.NotErrorIs(t, err, other)
		}
	}

	assert.Equal(t, "expired", ErrExpired.Error())
	assert.Equal(t, "crypto failure", ErrCrypto.Error())
	assert.True(t, errors.Is(Wrap(ErrExpired, "session"), ErrExpired))
}
