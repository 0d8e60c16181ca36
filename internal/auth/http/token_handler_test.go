package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	"github.com/siaa-labs/vault/internal/auth/http/dto"
)

func setupTokenRouter(sessionUseCase *mockSessionUseCase) *gin.Engine {
	handler := NewTokenHandler(sessionUseCase, testLogger())
	router := gin.New()
	router.POST("/auth/token", handler.AuthenticateHandler)
	return router
}

func TestTokenHandler_AuthenticateHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		sessionUseCase := &mockSessionUseCase{}
		router := setupTokenRouter(sessionUseCase)

		expiresAt := time.Now().UTC().Add(15 * time.Minute)
		sessionUseCase.On("Authenticate", mock.Anything, "telegram-bot", "s3cret").
			Return(&authDomain.SessionToken{Token: "signed.jwt.token", ExpiresAt: expiresAt}, nil)

		body, _ := json.Marshal(gin.H{"client_id": "telegram-bot", "client_secret": "s3cret"})
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp dto.SessionTokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "signed.jwt.token", resp.Token)
		assert.Equal(t, "bearer", resp.TokenType)
		sessionUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidCredentials", func(t *testing.T) {
		sessionUseCase := &mockSessionUseCase{}
		router := setupTokenRouter(sessionUseCase)

		sessionUseCase.On("Authenticate", mock.Anything, "telegram-bot", "wrong").
			Return(nil, authDomain.ErrInvalidCredentials)

		body, _ := json.Marshal(gin.H{"client_id": "telegram-bot", "client_secret": "wrong"})
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "unauthorized")
	})

	t.Run("Error_MissingSecret", func(t *testing.T) {
		sessionUseCase := &mockSessionUseCase{}
		router := setupTokenRouter(sessionUseCase)

		body, _ := json.Marshal(gin.H{"client_id": "telegram-bot"})
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		sessionUseCase.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_MalformedJSON", func(t *testing.T) {
		sessionUseCase := &mockSessionUseCase{}
		router := setupTokenRouter(sessionUseCase)

		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader([]byte("{")))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
