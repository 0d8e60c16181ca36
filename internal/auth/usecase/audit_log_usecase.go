// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	apperrors "github.com/siaa-labs/vault/internal/errors"
)

// defaultAuditLogLimit bounds audit queries when the caller supplies no limit.
const defaultAuditLogLimit = 100

// auditLogUseCase implements AuditLogUseCase for recording and querying the
// audit trail.
type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
}

// Record appends an entry to the audit trail. Generates a unique UUIDv7
// identifier and timestamp. When called inside a transaction the entry
// commits atomically with the operation it describes.
func (a *auditLogUseCase) Record(
	ctx context.Context,
	clientID string,
	action authDomain.Action,
	namespace, key, detail string,
) error {
	auditLog := &authDomain.AuditLog{
		ID:            uuid.Must(uuid.NewV7()),
		ClientID:      clientID,
		Action:        action,
		Namespace:     namespace,
		Key:           key,
		Detail:        detail,
		SourceAddress: SourceAddressFrom(ctx),
		CreatedAt:     time.Now().UTC(),
	}

	if err := a.auditLogRepo.Create(ctx, auditLog); err != nil {
		return apperrors.Wrap(err, "failed to record audit log")
	}

	return nil
}

// List retrieves audit log entries matching the filter, newest first.
// Returns empty slice if no audit logs match.
func (a *auditLogUseCase) List(
	ctx context.Context,
	filter authDomain.AuditLogFilter,
) ([]*authDomain.AuditLog, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultAuditLogLimit
	}

	auditLogs, err := a.auditLogRepo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}

	return auditLogs, nil
}

// NewAuditLogUseCase creates a new AuditLogUseCase with the provided dependencies.
func NewAuditLogUseCase(auditLogRepo AuditLogRepository) AuditLogUseCase {
	return &auditLogUseCase{
		auditLogRepo: auditLogRepo,
	}
}
