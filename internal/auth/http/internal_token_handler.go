package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siaa-labs/vault/internal/auth/http/dto"
	authUseCase "github.com/siaa-labs/vault/internal/auth/usecase"
	"github.com/siaa-labs/vault/internal/httputil"
)

// InternalTokenHandler handles HTTP requests for the rotating internal token.
type InternalTokenHandler struct {
	internalTokenUseCase authUseCase.InternalTokenUseCase
	logger               *slog.Logger
}

// NewInternalTokenHandler creates a new internal token handler with required dependencies.
func NewInternalTokenHandler(
	internalTokenUseCase authUseCase.InternalTokenUseCase,
	logger *slog.Logger,
) *InternalTokenHandler {
	return &InternalTokenHandler{
		internalTokenUseCase: internalTokenUseCase,
		logger:               logger,
	}
}

// CurrentTokenHandler returns the currently active internal token.
// GET /internal/current-token - Requires the X-Secret-Key static shared secret.
// Returns 200 OK with the token and its expiry so callers know when to refetch.
func (h *InternalTokenHandler) CurrentTokenHandler(c *gin.Context) {
	token, err := h.internalTokenUseCase.GetCurrent(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapInternalTokenToResponse(token))
}
