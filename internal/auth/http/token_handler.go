package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siaa-labs/vault/internal/auth/http/dto"
	authUseCase "github.com/siaa-labs/vault/internal/auth/usecase"
	"github.com/siaa-labs/vault/internal/httputil"
	customValidation "github.com/siaa-labs/vault/internal/validation"
)

// TokenHandler handles HTTP requests for session token issuance.
type TokenHandler struct {
	sessionUseCase authUseCase.SessionUseCase
	logger         *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(
	sessionUseCase authUseCase.SessionUseCase,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		sessionUseCase: sessionUseCase,
		logger:         logger,
	}
}

// AuthenticateHandler exchanges client credentials for a session token.
// POST /auth/token - No authentication required (this is the authentication endpoint).
// Returns 201 Created with the signed token and its expiry. Rejections are
// uniform 401s regardless of whether the client is unknown, the secret is
// wrong, or the client is deactivated.
func (h *TokenHandler) AuthenticateHandler(c *gin.Context) {
	var req dto.AuthenticateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	token, err := h.sessionUseCase.Authenticate(c.Request.Context(), req.ClientID, req.ClientSecret)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSessionTokenToResponse(token))
}
