package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	"github.com/siaa-labs/vault/internal/auth/http/dto"
	authUseCase "github.com/siaa-labs/vault/internal/auth/usecase"
	"github.com/siaa-labs/vault/internal/httputil"
)

const (
	defaultAuditLogLimit = 100
	maxAuditLogLimit     = 1000
)

// AuditLogHandler handles HTTP requests for audit log inspection.
type AuditLogHandler struct {
	auditLogUseCase authUseCase.AuditLogUseCase
	logger          *slog.Logger
}

// NewAuditLogHandler creates a new audit log handler with required dependencies.
func NewAuditLogHandler(
	auditLogUseCase authUseCase.AuditLogUseCase,
	logger *slog.Logger,
) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUseCase: auditLogUseCase,
		logger:          logger,
	}
}

// ListHandler retrieves audit log entries, newest first.
// GET /admin/audit?limit=100&client_id=telegram-bot&namespace=weather
// Requires the admin static secret. The limit defaults to 100 and is capped
// at 1000; client_id and namespace filters are optional.
func (h *AuditLogHandler) ListHandler(c *gin.Context) {
	limit, err := httputil.ParseLimit(c, defaultAuditLogLimit, maxAuditLogLimit)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	filter := authDomain.AuditLogFilter{
		ClientID:  c.Query("client_id"),
		Namespace: c.Query("namespace"),
		Limit:     limit,
	}

	auditLogs, err := h.auditLogUseCase.List(c.Request.Context(), filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditLogsToListResponse(auditLogs))
}
