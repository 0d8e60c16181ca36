package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	"github.com/siaa-labs/vault/internal/auth/http/dto"
	authUseCase "github.com/siaa-labs/vault/internal/auth/usecase"
	"github.com/siaa-labs/vault/internal/httputil"
	customValidation "github.com/siaa-labs/vault/internal/validation"
)

// ClientHandler handles HTTP requests for client administration.
type ClientHandler struct {
	clientUseCase authUseCase.ClientUseCase
	logger        *slog.Logger
}

// NewClientHandler creates a new client handler with required dependencies.
func NewClientHandler(
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
) *ClientHandler {
	return &ClientHandler{
		clientUseCase: clientUseCase,
		logger:        logger,
	}
}

// CreateHandler registers a new client with its namespace grants.
// POST /admin/clients - Requires the admin static secret.
// Returns 201 Created with the plain text secret, which is never retrievable
// again. A duplicate client_id is a 409.
func (h *ClientHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateClientRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &authDomain.CreateClientInput{
		ClientID:   req.ClientID,
		Name:       req.Name,
		Secret:     req.Secret,
		IsActive:   req.IsActive,
		Namespaces: req.Namespaces,
	}

	output, err := h.clientUseCase.Register(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCreateClientToResponse(output))
}

// ListHandler retrieves all registered clients, newest first.
// GET /admin/clients - Requires the admin static secret.
// Returns 200 OK with client data including last_seen; secrets are excluded.
func (h *ClientHandler) ListHandler(c *gin.Context) {
	clients, err := h.clientUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapClientsToListResponse(clients))
}

// DeactivateHandler revokes a client so it can no longer authenticate.
// DELETE /admin/clients/:client_id - Requires the admin static secret.
// Returns 204 No Content. The client row is kept for audit purposes; already
// issued session tokens stay valid until they expire.
func (h *ClientHandler) DeactivateHandler(c *gin.Context) {
	clientID := c.Param("client_id")

	if err := h.clientUseCase.Deactivate(c.Request.Context(), clientID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
