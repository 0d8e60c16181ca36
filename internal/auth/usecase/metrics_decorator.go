package usecase

import (
	"context"
	"time"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	"github.com/siaa-labs/vault/internal/metrics"
)

// clientUseCaseWithMetrics decorates ClientUseCase with metrics instrumentation.
type clientUseCaseWithMetrics struct {
	next    ClientUseCase
	metrics metrics.BusinessMetrics
}

// NewClientUseCaseWithMetrics wraps a ClientUseCase with metrics recording.
func NewClientUseCaseWithMetrics(useCase ClientUseCase, m metrics.BusinessMetrics) ClientUseCase {
	return &clientUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Register records metrics for client registration operations.
func (c *clientUseCaseWithMetrics) Register(
	ctx context.Context,
	createClientInput *authDomain.CreateClientInput,
) (*authDomain.CreateClientOutput, error) {
	start := time.Now()
	output, err := c.next.Register(ctx, createClientInput)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "auth", "client_register", status)
	c.metrics.RecordDuration(ctx, "auth", "client_register", time.Since(start), status)

	return output, err
}

// List records metrics for client list operations.
func (c *clientUseCaseWithMetrics) List(ctx context.Context) ([]*authDomain.Client, error) {
	start := time.Now()
	clients, err := c.next.List(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "auth", "client_list", status)
	c.metrics.RecordDuration(ctx, "auth", "client_list", time.Since(start), status)

	return clients, err
}

// Deactivate records metrics for client deactivation operations.
func (c *clientUseCaseWithMetrics) Deactivate(ctx context.Context, clientID string) error {
	start := time.Now()
	err := c.next.Deactivate(ctx, clientID)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "auth", "client_deactivate", status)
	c.metrics.RecordDuration(ctx, "auth", "client_deactivate", time.Since(start), status)

	return err
}

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics instrumentation.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording.
func NewSessionUseCaseWithMetrics(useCase SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Authenticate records metrics for session authentication operations.
func (s *sessionUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	clientID, clientSecret string,
) (*authDomain.SessionToken, error) {
	start := time.Now()
	output, err := s.next.Authenticate(ctx, clientID, clientSecret)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "auth", "session_authenticate", status)
	s.metrics.RecordDuration(ctx, "auth", "session_authenticate", time.Since(start), status)

	return output, err
}

// Verify records metrics for session verification operations.
func (s *sessionUseCaseWithMetrics) Verify(
	ctx context.Context,
	token string,
) (*authDomain.Principal, error) {
	start := time.Now()
	principal, err := s.next.Verify(ctx, token)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "auth", "session_verify", status)
	s.metrics.RecordDuration(ctx, "auth", "session_verify", time.Since(start), status)

	return principal, err
}

// internalTokenUseCaseWithMetrics decorates InternalTokenUseCase with metrics instrumentation.
type internalTokenUseCaseWithMetrics struct {
	next    InternalTokenUseCase
	metrics metrics.BusinessMetrics
}

// NewInternalTokenUseCaseWithMetrics wraps an InternalTokenUseCase with metrics recording.
func NewInternalTokenUseCaseWithMetrics(
	useCase InternalTokenUseCase,
	m metrics.BusinessMetrics,
) InternalTokenUseCase {
	return &internalTokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Rotate records metrics for internal token rotation operations.
func (i *internalTokenUseCaseWithMetrics) Rotate(
	ctx context.Context,
) (*authDomain.InternalToken, error) {
	start := time.Now()
	token, err := i.next.Rotate(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	i.metrics.RecordOperation(ctx, "auth", "internal_token_rotate", status)
	i.metrics.RecordDuration(ctx, "auth", "internal_token_rotate", time.Since(start), status)

	return token, err
}

// EnsureActive records metrics for internal token provisioning operations.
func (i *internalTokenUseCaseWithMetrics) EnsureActive(ctx context.Context) error {
	start := time.Now()
	err := i.next.EnsureActive(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	i.metrics.RecordOperation(ctx, "auth", "internal_token_ensure_active", status)
	i.metrics.RecordDuration(ctx, "auth", "internal_token_ensure_active", time.Since(start), status)

	return err
}

// Validate records metrics for internal token validation operations.
func (i *internalTokenUseCaseWithMetrics) Validate(
	ctx context.Context,
	token string,
) (*authDomain.Principal, error) {
	start := time.Now()
	principal, err := i.next.Validate(ctx, token)

	status := "success"
	if err != nil {
		status = "error"
	}

	i.metrics.RecordOperation(ctx, "auth", "internal_token_validate", status)
	i.metrics.RecordDuration(ctx, "auth", "internal_token_validate", time.Since(start), status)

	return principal, err
}

// GetCurrent records metrics for internal token retrieval operations.
func (i *internalTokenUseCaseWithMetrics) GetCurrent(
	ctx context.Context,
) (*authDomain.InternalToken, error) {
	start := time.Now()
	token, err := i.next.GetCurrent(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	i.metrics.RecordOperation(ctx, "auth", "internal_token_get_current", status)
	i.metrics.RecordDuration(ctx, "auth", "internal_token_get_current", time.Since(start), status)

	return token, err
}

// auditLogUseCaseWithMetrics decorates AuditLogUseCase with metrics instrumentation.
type auditLogUseCaseWithMetrics struct {
	next    AuditLogUseCase
	metrics metrics.BusinessMetrics
}

// NewAuditLogUseCaseWithMetrics wraps an AuditLogUseCase with metrics recording.
func NewAuditLogUseCaseWithMetrics(useCase AuditLogUseCase, m metrics.BusinessMetrics) AuditLogUseCase {
	return &auditLogUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Record records metrics for audit log creation operations.
func (a *auditLogUseCaseWithMetrics) Record(
	ctx context.Context,
	clientID string,
	action authDomain.Action,
	namespace, key, detail string,
) error {
	start := time.Now()
	err := a.next.Record(ctx, clientID, action, namespace, key, detail)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "audit_log_record", status)
	a.metrics.RecordDuration(ctx, "auth", "audit_log_record", time.Since(start), status)

	return err
}

// List records metrics for audit log list operations.
func (a *auditLogUseCaseWithMetrics) List(
	ctx context.Context,
	filter authDomain.AuditLogFilter,
) ([]*authDomain.AuditLog, error) {
	start := time.Now()
	logs, err := a.next.List(ctx, filter)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", "audit_log_list", status)
	a.metrics.RecordDuration(ctx, "auth", "audit_log_list", time.Since(start), status)

	return logs, err
}
