package http

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authUseCase "github.com/siaa-labs/vault/internal/auth/usecase"
	apperrors "github.com/siaa-labs/vault/internal/errors"
	"github.com/siaa-labs/vault/internal/httputil"
)

// internalTokenHeader carries the rotating internal token for high-frequency
// callers that skip per-call session negotiation.
const internalTokenHeader = "X-Internal-Token" //nolint:gosec // header name, not a credential

// SourceAddressMiddleware stamps the caller's IP address into the request
// context so audit log entries record where each operation came from.
// Must run before any handler that writes audit entries, including the
// authentication endpoint itself.
func SourceAddressMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := authUseCase.WithSourceAddress(c.Request.Context(), c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AuthenticationMiddleware resolves the calling principal from either a
// session token or the rotating internal token.
//
// Two authentication paths are accepted:
//  1. "Authorization: Bearer <jwt>" (case-insensitive "bearer") verified by
//     the session use case; the principal carries the client's namespace grants.
//  2. "X-Internal-Token: <token>" validated against the active internal token;
//     the principal is a wildcard since internal callers are trusted infrastructure.
//
// The resolved principal is stored in the request context for the namespace
// guard and handlers. Requests presenting neither credential, or an invalid
// or expired one, are rejected with 401.
func AuthenticationMiddleware(
	sessionUseCase authUseCase.SessionUseCase,
	internalTokenUseCase authUseCase.InternalTokenUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		if internalToken := c.GetHeader(internalTokenHeader); internalToken != "" {
			principal, err := internalTokenUseCase.Validate(c.Request.Context(), internalToken)
			if err != nil {
				logger.Debug("authentication failed: internal token rejected",
					slog.String("error", err.Error()))
				httputil.HandleErrorGin(c, err, logger)
				c.Abort()
				return
			}

			c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing credentials")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		token := authHeader[len(bearerPrefix):]
		if token == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		principal, err := sessionUseCase.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Debug("authentication failed: session token rejected",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

// NamespaceAuthorizationMiddleware enforces the principal's namespace grants
// against the :namespace path parameter.
//
// MUST run after AuthenticationMiddleware. A valid credential for the wrong
// namespace is a 403, distinct from the 401 of a bad credential, so callers
// can tell "re-authenticate" apart from "request access".
func NamespaceAuthorizationMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok || principal == nil {
			logger.Debug("authorization failed: no authenticated principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		namespace := c.Param("namespace")
		if !principal.AllowsNamespace(namespace) {
			logger.Debug("authorization failed: namespace not granted",
				slog.String("client_id", principal.ClientID),
				slog.String("namespace", namespace))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// StaticSecretMiddleware gates a route group behind a static shared secret
// carried in the given header. Used for the admin surface (X-Admin-Secret)
// and the internal token fetch endpoint (X-Secret-Key). Comparison is
// constant-time.
func StaticSecretMiddleware(header, expected string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(header)
		if provided == "" ||
			subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			logger.Debug("authentication failed: static secret rejected",
				slog.String("header", header))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
