// Package http provides HTTP handlers for the namespaced secret store.
// Authentication and the namespace guard run as middleware before these
// handlers; each handler resolves the acting principal from the request
// context for audit attribution.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/siaa-labs/vault/internal/auth/http"
	apperrors "github.com/siaa-labs/vault/internal/errors"
	"github.com/siaa-labs/vault/internal/httputil"
	customValidation "github.com/siaa-labs/vault/internal/validation"
	"github.com/siaa-labs/vault/internal/vault/http/dto"
	vaultUseCase "github.com/siaa-labs/vault/internal/vault/usecase"
)

// SecretHandler handles HTTP requests for secret store operations.
type SecretHandler struct {
	secretUseCase vaultUseCase.SecretUseCase
	logger        *slog.Logger
}

// NewSecretHandler creates a new secret handler with required dependencies.
func NewSecretHandler(
	secretUseCase vaultUseCase.SecretUseCase,
	logger *slog.Logger,
) *SecretHandler {
	return &SecretHandler{
		secretUseCase: secretUseCase,
		logger:        logger,
	}
}

// pathParams validates the :namespace (and optionally :key) path parameters
// and resolves the acting principal. Returns false after writing the error
// response when anything is off.
func (h *SecretHandler) pathParams(c *gin.Context, withKey bool) (string, string, string, bool) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok || principal == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return "", "", "", false
	}

	namespace := c.Param("namespace")
	if err := dto.ValidatePathSegment(namespace); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return "", "", "", false
	}

	var key string
	if withKey {
		key = c.Param("key")
		if err := dto.ValidatePathSegment(key); err != nil {
			httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
			return "", "", "", false
		}
	}

	return principal.ClientID, namespace, key, true
}

// WriteHandler upserts a secret value.
// PUT /secrets/:namespace/:key - Session or internal token, namespace guard.
// Returns 200 OK with metadata only; the value is never echoed back.
func (h *SecretHandler) WriteHandler(c *gin.Context) {
	clientID, namespace, key, ok := h.pathParams(c, true)
	if !ok {
		return
	}

	var req dto.WriteSecretRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	secret, err := h.secretUseCase.Write(
		c.Request.Context(), clientID, namespace, key, []byte(req.Value), req.Description,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSecretToMetadataResponse(secret))
}

// ReadHandler decrypts and returns one secret.
// GET /secrets/:namespace/:key - Session or internal token, namespace guard.
// Returns 200 OK with the plaintext value, 404 on miss.
func (h *SecretHandler) ReadHandler(c *gin.Context) {
	clientID, namespace, key, ok := h.pathParams(c, true)
	if !ok {
		return
	}

	secret, err := h.secretUseCase.Read(c.Request.Context(), clientID, namespace, key)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSecretToResponse(secret))
}

// ReadAllHandler decrypts and returns every secret in a namespace as a map.
// GET /secrets/:namespace - Session or internal token, namespace guard.
// The primary startup call for a module fetching its whole configuration.
func (h *SecretHandler) ReadAllHandler(c *gin.Context) {
	clientID, namespace, _, ok := h.pathParams(c, false)
	if !ok {
		return
	}

	values, err := h.secretUseCase.ReadAll(c.Request.Context(), clientID, namespace)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapValuesToResponse(namespace, values))
}

// ListKeysHandler returns metadata for every secret in a namespace.
// GET /secrets/:namespace/keys - Session or internal token, namespace guard.
// Never decrypts; no plaintext appears in the response.
func (h *SecretHandler) ListKeysHandler(c *gin.Context) {
	clientID, namespace, _, ok := h.pathParams(c, false)
	if !ok {
		return
	}

	secrets, err := h.secretUseCase.ListKeys(c.Request.Context(), clientID, namespace)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSecretsToListKeysResponse(namespace, secrets))
}

// ListNamespacesHandler returns the namespaces visible to the caller.
// GET /secrets/namespaces - Session or internal token; no namespace guard
// since the visibility filtering happens inside the use case.
func (h *SecretHandler) ListNamespacesHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok || principal == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	namespaces, err := h.secretUseCase.ListNamespaces(c.Request.Context(), principal)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ListNamespacesResponse{Data: namespaces})
}

// DeleteHandler removes one secret.
// DELETE /secrets/:namespace/:key - Session or internal token, namespace guard.
// Returns 204 No Content, 404 when no such secret existed.
func (h *SecretHandler) DeleteHandler(c *gin.Context) {
	clientID, namespace, key, ok := h.pathParams(c, true)
	if !ok {
		return
	}

	if err := h.secretUseCase.Delete(c.Request.Context(), clientID, namespace, key); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// DeleteNamespaceHandler removes every secret in a namespace. Irreversible.
// DELETE /secrets/:namespace - Session or internal token, namespace guard.
// Returns 200 OK with the number of secrets removed.
func (h *SecretHandler) DeleteNamespaceHandler(c *gin.Context) {
	clientID, namespace, _, ok := h.pathParams(c, false)
	if !ok {
		return
	}

	deleted, err := h.secretUseCase.DeleteNamespace(c.Request.Context(), clientID, namespace)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteNamespaceResponse{Namespace: namespace, Deleted: deleted})
}
