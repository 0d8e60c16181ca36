package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	vaultDomain "github.com/siaa-labs/vault/internal/vault/domain"
)

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

// mockSecretUseCase is a mock implementation of SecretUseCase for testing.
type mockSecretUseCase struct {
	mock.Mock
}

func (m *mockSecretUseCase) Write(
	ctx context.Context,
	clientID, namespace, key string,
	value []byte,
	description string,
) (*vaultDomain.Secret, error) {
	args := m.Called(ctx, clientID, namespace, key, value, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Secret), args.Error(1)
}

func (m *mockSecretUseCase) Read(
	ctx context.Context,
	clientID, namespace, key string,
) (*vaultDomain.Secret, error) {
	args := m.Called(ctx, clientID, namespace, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Secret), args.Error(1)
}

func (m *mockSecretUseCase) ReadAll(
	ctx context.Context,
	clientID, namespace string,
) (map[string][]byte, error) {
	args := m.Called(ctx, clientID, namespace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]byte), args.Error(1)
}

func (m *mockSecretUseCase) ListKeys(
	ctx context.Context,
	clientID, namespace string,
) ([]*vaultDomain.Secret, error) {
	args := m.Called(ctx, clientID, namespace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Secret), args.Error(1)
}

func (m *mockSecretUseCase) ListNamespaces(
	ctx context.Context,
	principal *authDomain.Principal,
) ([]string, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockSecretUseCase) Delete(ctx context.Context, clientID, namespace, key string) error {
	args := m.Called(ctx, clientID, namespace, key)
	return args.Error(0)
}

func (m *mockSecretUseCase) DeleteNamespace(
	ctx context.Context,
	clientID, namespace string,
) (int64, error) {
	args := m.Called(ctx, clientID, namespace)
	return args.Get(0).(int64), args.Error(1)
}

func TestSecretUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Write success", func(t *testing.T) {
		mockNext := &mockSecretUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewSecretUseCaseWithMetrics(mockNext, mockMetrics)

		output := &vaultDomain.Secret{ID: uuid.Must(uuid.NewV7()), Namespace: "weather", Key: "api-key"}

		mockNext.On("Write", ctx, "telegram-bot", "weather", "api-key", []byte("s3cret"), "").
			Return(output, nil).
			Once()
		mockMetrics.On("RecordOperation", ctx, "vault", "secret_write", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "vault", "secret_write", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		res, err := uc.Write(ctx, "telegram-bot", "weather", "api-key", []byte("s3cret"), "")
		assert.NoError(t, err)
		assert.Equal(t, output, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Read error", func(t *testing.T) {
		mockNext := &mockSecretUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewSecretUseCaseWithMetrics(mockNext, mockMetrics)

		expectedErr := errors.New("error")

		mockNext.On("Read", ctx, "telegram-bot", "weather", "missing").
			Return(nil, expectedErr).
			Once()
		mockMetrics.On("RecordOperation", ctx, "vault", "secret_read", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "vault", "secret_read", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		res, err := uc.Read(ctx, "telegram-bot", "weather", "missing")
		assert.Error(t, err)
		assert.Nil(t, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("ReadAll success", func(t *testing.T) {
		mockNext := &mockSecretUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewSecretUseCaseWithMetrics(mockNext, mockMetrics)

		output := map[string][]byte{"api-key": []byte("s3cret")}

		mockNext.On("ReadAll", ctx, "telegram-bot", "weather").Return(output, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "vault", "secret_read_all", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "vault", "secret_read_all", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		res, err := uc.ReadAll(ctx, "telegram-bot", "weather")
		assert.NoError(t, err)
		assert.Equal(t, output, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Delete success", func(t *testing.T) {
		mockNext := &mockSecretUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := NewSecretUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("Delete", ctx, "telegram-bot", "weather", "api-key").Return(nil).Once()
		mockMetrics.On("RecordOperation", ctx, "vault", "secret_delete", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "vault", "secret_delete", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		err := uc.Delete(ctx, "telegram-bot", "weather", "api-key")
		assert.NoError(t, err)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})
}
