package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	authHTTP "github.com/siaa-labs/vault/internal/auth/http"
	cryptoDomain "github.com/siaa-labs/vault/internal/crypto/domain"
	vaultDomain "github.com/siaa-labs/vault/internal/vault/domain"
	"github.com/siaa-labs/vault/internal/vault/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
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

// principalMiddleware injects a fixed principal, standing in for the
// authentication middleware.
func principalMiddleware(principal *authDomain.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(authHTTP.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

func setupSecretRouter(useCase *mockSecretUseCase, principal *authDomain.Principal) *gin.Engine {
	handler := NewSecretHandler(useCase, testLogger())
	router := gin.New()

	group := router.Group("/secrets")
	if principal != nil {
		group.Use(principalMiddleware(principal))
	}
	group.GET("/namespaces", handler.ListNamespacesHandler)
	group.GET("/:namespace", handler.ReadAllHandler)
	group.DELETE("/:namespace", handler.DeleteNamespaceHandler)
	group.GET("/:namespace/keys", handler.ListKeysHandler)
	group.GET("/:namespace/:key", handler.ReadHandler)
	group.PUT("/:namespace/:key", handler.WriteHandler)
	group.DELETE("/:namespace/:key", handler.DeleteHandler)

	return router
}

func botPrincipal() *authDomain.Principal {
	return &authDomain.Principal{ClientID: "telegram-bot", Namespaces: []string{"weather"}}
}

func TestSecretHandler_WriteHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		useCase := &mockSecretUseCase{}
		router := setupSecretRouter(useCase, botPrincipal())

		now := time.Now().UTC()
		secret := &vaultDomain.Secret{
			ID:        uuid.Must(uuid.NewV7()),
			Namespace: "weather",
			Key:       "api-key",
			CreatedAt: now,
			UpdatedAt: now,
		}
		useCase.On("Write", mock.Anything, "telegram-bot", "weather", "api-key", []byte("s3cret"), "weather API").
			Return(secret, nil)

		body, _ := json.Marshal(gin.H{"value": "s3cret", "description": "weather API"})
		req := httptest.NewRequest(http.MethodPut, "/secrets/weather/api-key", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp dto.SecretMetadataResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "api-key", resp.Key)
		assert.NotContains(t, rec.Body.String(), "s3cret")
		useCase.AssertExpectations(t)
	})

	t.Run("Error_MissingValue", func(t *testing.T) {
		useCase := &mockSecretUseCase{}
		router := setupSecretRouter(useCase, botPrincipal())

		body, _ := json.Marshal(gin.H{"description": "no value"})
		req := httptest.NewRequest(http.MethodPut, "/secrets/weather/api-key", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		useCase.AssertNotCalled(
			t, "Write",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		)
	})

	t.Run("Error_NoPrincipal", func(t *testing.T) {
		useCase := &mockSecretUseCase{}
		router := setupSecretRouter(useCase, nil)

		body, _ := json.Marshal(gin.H{"value": "s3cret"})
		req := httptest.NewRequest(http.MethodPut, "/secrets/weather/api-key", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSecretHandler_ReadHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		useCase := &mockSecretUseCase{}
		router := setupSecretRouter(useCase, botPrincipal())

		secret := &vaultDomain.Secret{
			ID:        uuid.Must(uuid.NewV7()),
			Namespace: "weather",
			Key:       "api-key",
			Plaintext: []byte("s3cret"),
		}
		useCase.On("Read", mock.Anything, "telegram-bot", "weather", "api-key").
			Return(secret, nil)

		req := httptest.NewRequest(http.MethodGet, "/secrets/weather/api-key", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp dto.SecretResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "s3cret", resp.Value)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		useCase := &mockSecretUseCase{}
		router := setupSecretRouter(useCase, botPrincipal())

		useCase.On("Read", mock.Anything, "telegram-bot", "weather", "missing").
			Return(nil, vaultDomain.ErrSecretNotFound)

		req := httptest.NewRequest(http.MethodGet, "/secrets/weather/missing", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Error_CryptoFailure", func(t *testing.T) {
		useCase := &mockSecretUseCase{}
		router := setupSecretRouter(useCase, botPrincipal())

		useCase.On("Read", mock.Anything, "telegram-bot", "weather", "api-key").
			Return(nil, cryptoDomain.ErrDecryptionFailed)

		req := httptest.NewRequest(http.MethodGet, "/secrets/weather/api-key", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "crypto_failure")
		// Decryption failures expose no detail about the stored value
		assert.NotContains(t, rec.Body.String(), "decryption failed")
	})
}

func TestSecretHandler_ReadAllHandler(t *testing.T) {
	useCase := &mockSecretUseCase{}
	router := setupSecretRouter(useCase, botPrincipal())

	values := map[string][]byte{
		"api-key": []byte("s3cret"),
		"api-url": []byte("https://api.example.com"),
	}
	useCase.On("ReadAll", mock.Anything, "telegram-bot", "weather").Return(values, nil)

	req := httptest.NewRequest(http.MethodGet, "/secrets/weather", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.NamespaceValuesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "weather", resp.Namespace)
	assert.Equal(t, "s3cret", resp.Data["api-key"])
	assert.Len(t, resp.Data, 2)
}

func TestSecretHandler_ListKeysHandler(t *testing.T) {
	useCase := &mockSecretUseCase{}
	router := setupSecretRouter(useCase, botPrincipal())

	secrets := []*vaultDomain.Secret{
		{Namespace: "weather", Key: "api-key", IsActive: true, AccessCount: 5, LastAccessedBy: "telegram-bot"},
		{Namespace: "weather", Key: "old-key", IsActive: false},
	}
	useCase.On("ListKeys", mock.Anything, "telegram-bot", "weather").Return(secrets, nil)

	req := httptest.NewRequest(http.MethodGet, "/secrets/weather/keys", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ListKeysResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "api-key", resp.Data[0].Key)
	assert.Equal(t, int64(5), resp.Data[0].AccessCount)
	assert.True(t, resp.Data[0].IsActive)
	assert.False(t, resp.Data[1].IsActive)
	assert.NotContains(t, rec.Body.String(), "value")
}

func TestSecretHandler_ListNamespacesHandler(t *testing.T) {
	useCase := &mockSecretUseCase{}
	principal := botPrincipal()
	router := setupSecretRouter(useCase, principal)

	useCase.On("ListNamespaces", mock.Anything, principal).Return([]string{"weather"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/secrets/namespaces", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ListNamespacesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"weather"}, resp.Data)
}

func TestSecretHandler_DeleteHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		useCase := &mockSecretUseCase{}
		router := setupSecretRouter(useCase, botPrincipal())

		useCase.On("Delete", mock.Anything, "telegram-bot", "weather", "api-key").Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/secrets/weather/api-key", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		useCase := &mockSecretUseCase{}
		router := setupSecretRouter(useCase, botPrincipal())

		useCase.On("Delete", mock.Anything, "telegram-bot", "weather", "missing").
			Return(vaultDomain.ErrSecretNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/secrets/weather/missing", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSecretHandler_DeleteNamespaceHandler(t *testing.T) {
	useCase := &mockSecretUseCase{}
	router := setupSecretRouter(useCase, botPrincipal())

	useCase.On("DeleteNamespace", mock.Anything, "telegram-bot", "weather").
		Return(int64(4), nil)

	req := httptest.NewRequest(http.MethodDelete, "/secrets/weather", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.DeleteNamespaceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(4), resp.Deleted)
}
