package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	authUseCase "github.com/siaa-labs/vault/internal/auth/usecase"
)

func setupAuthMiddlewareRouter(
	sessionUseCase *mockSessionUseCase,
	internalTokenUseCase *mockInternalTokenUseCase,
) *gin.Engine {
	router := gin.New()
	group := router.Group(
		"/secrets",
		AuthenticationMiddleware(sessionUseCase, internalTokenUseCase, testLogger()),
	)
	group.GET("/:namespace", NamespaceAuthorizationMiddleware(testLogger()), func(c *gin.Context) {
		principal, _ := GetPrincipal(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"client_id": principal.ClientID})
	})
	return router
}

func TestAuthenticationMiddleware(t *testing.T) {
	t.Run("Success_BearerToken", func(t *testing.T) {
		sessionUseCase := &mockSessionUseCase{}
		internalTokenUseCase := &mockInternalTokenUseCase{}
		router := setupAuthMiddlewareRouter(sessionUseCase, internalTokenUseCase)

		principal := &authDomain.Principal{ClientID: "telegram-bot", Namespaces: []string{"weather"}}
		sessionUseCase.On("Verify", mock.Anything, "signed.jwt.token").Return(principal, nil)

		req := httptest.NewRequest(http.MethodGet, "/secrets/weather", nil)
		req.Header.Set("Authorization", "Bearer signed.jwt.token")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "telegram-bot")
	})

	t.Run("Success_BearerCaseInsensitive", func(t *testing.T) {
		sessionUseCase := &mockSessionUseCase{}
		internalTokenUseCase := &mockInternalTokenUseCase{}
		router := setupAuthMiddlewareRouter(sessionUseCase, internalTokenUseCase)

		principal := &authDomain.Principal{ClientID: "telegram-bot", Namespaces: []string{"weather"}}
		sessionUseCase.On("Verify", mock.Anything, "signed.jwt.token").Return(principal, nil)

		req := httptest.NewRequest(http.MethodGet, "/secrets/weather", nil)
		req.Header.Set("Authorization", "bearer signed.jwt.token")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Success_InternalToken", func(t *testing.T) {
		sessionUseCase := &mockSessionUseCase{}
		internalTokenUseCase := &mockInternalTokenUseCase{}
		router := setupAuthMiddlewareRouter(sessionUseCase, internalTokenUseCase)

		principal := &authDomain.Principal{
			ClientID:   authDomain.InternalClientID,
			Namespaces: []string{authDomain.NamespaceWildcard},
		}
		internalTokenUseCase.On("Validate", mock.Anything, "opaque-token").Return(principal, nil)

		req := httptest.NewRequest(http.MethodGet, "/secrets/weather", nil)
		req.Header.Set("X-Internal-Token", "opaque-token")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		sessionUseCase.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("Error_MissingCredentials", func(t *testing.T) {
		sessionUseCase := &mockSessionUseCase{}
		internalTokenUseCase := &mockInternalTokenUseCase{}
		router := setupAuthMiddlewareRouter(sessionUseCase, internalTokenUseCase)

		req := httptest.NewRequest(http.MethodGet, "/secrets/weather", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Error_MalformedAuthorizationHeader", func(t *testing.T) {
		sessionUseCase := &mockSessionUseCase{}
		internalTokenUseCase := &mockInternalTokenUseCase{}
		router := setupAuthMiddlewareRouter(sessionUseCase, internalTokenUseCase)

		req := httptest.NewRequest(http.MethodGet, "/secrets/weather", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Error_ExpiredSessionToken", func(t *testing.T) {
		sessionUseCase := &mockSessionUseCase{}
		internalTokenUseCase := &mockInternalTokenUseCase{}
		router := setupAuthMiddlewareRouter(sessionUseCase, internalTokenUseCase)

		sessionUseCase.On("Verify", mock.Anything, "stale.jwt.token").
			Return(nil, authDomain.ErrTokenExpired)

		req := httptest.NewRequest(http.MethodGet, "/secrets/weather", nil)
		req.Header.Set("Authorization", "Bearer stale.jwt.token")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "token_expired")
	})

	t.Run("Error_InvalidInternalToken", func(t *testing.T) {
		sessionUseCase := &mockSessionUseCase{}
		internalTokenUseCase := &mockInternalTokenUseCase{}
		router := setupAuthMiddlewareRouter(sessionUseCase, internalTokenUseCase)

		internalTokenUseCase.On("Validate", mock.Anything, "rotated-out-token").
			Return(nil, authDomain.ErrInvalidToken)

		req := httptest.NewRequest(http.MethodGet, "/secrets/weather", nil)
		req.Header.Set("X-Internal-Token", "rotated-out-token")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestNamespaceAuthorizationMiddleware(t *testing.T) {
	t.Run("Error_NamespaceNotGranted", func(t *testing.T) {
		sessionUseCase := &mockSessionUseCase{}
		internalTokenUseCase := &mockInternalTokenUseCase{}
		router := setupAuthMiddlewareRouter(sessionUseCase, internalTokenUseCase)

		principal := &authDomain.Principal{ClientID: "telegram-bot", Namespaces: []string{"weather"}}
		sessionUseCase.On("Verify", mock.Anything, "signed.jwt.token").Return(principal, nil)

		req := httptest.NewRequest(http.MethodGet, "/secrets/billing", nil)
		req.Header.Set("Authorization", "Bearer signed.jwt.token")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Success_WildcardPrincipal", func(t *testing.T) {
		sessionUseCase := &mockSessionUseCase{}
		internalTokenUseCase := &mockInternalTokenUseCase{}
		router := setupAuthMiddlewareRouter(sessionUseCase, internalTokenUseCase)

		principal := &authDomain.Principal{
			ClientID:   authDomain.InternalClientID,
			Namespaces: []string{authDomain.NamespaceWildcard},
		}
		internalTokenUseCase.On("Validate", mock.Anything, "opaque-token").Return(principal, nil)

		req := httptest.NewRequest(http.MethodGet, "/secrets/billing", nil)
		req.Header.Set("X-Internal-Token", "opaque-token")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Error_NoPrincipalInContext", func(t *testing.T) {
		router := gin.New()
		router.GET("/secrets/:namespace", NamespaceAuthorizationMiddleware(testLogger()), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/secrets/weather", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSourceAddressMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SourceAddressMiddleware())

	var captured string
	router.GET("/ping", func(c *gin.Context) {
		captured = authUseCase.SourceAddressFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "10.0.0.7", captured)
}

func TestTokenRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(TokenRateLimitMiddleware(1, 2, testLogger()))
	router.POST("/auth/token", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Burst of 2 is allowed, the third immediate request is rejected
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/token", nil)
		req.RemoteAddr = "10.0.0.9:51234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/token", nil)
	req.RemoteAddr = "10.0.0.9:51234"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// A different IP has its own bucket
	otherReq := httptest.NewRequest(http.MethodPost, "/auth/token", nil)
	otherReq.RemoteAddr = "10.0.0.10:51234"
	otherRec := httptest.NewRecorder()
	router.ServeHTTP(otherRec, otherReq)
	assert.Equal(t, http.StatusOK, otherRec.Code)
}
