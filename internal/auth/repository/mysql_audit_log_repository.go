package repository

import (
	"context"
	"database/sql"
	"strings"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	"github.com/siaa-labs/vault/internal/database"
	apperrors "github.com/siaa-labs/vault/internal/errors"
)

// MySQLAuditLogRepository implements AuditLog persistence for MySQL.
// Uses CHAR(36) UUID columns with transaction support via database.GetTx().
type MySQLAuditLogRepository struct {
	db *sql.DB
}

// NewMySQLAuditLogRepository creates a new MySQL AuditLog repository.
func NewMySQLAuditLogRepository(db *sql.DB) *MySQLAuditLogRepository {
	return &MySQLAuditLogRepository{db: db}
}

// Create inserts a new AuditLog into the MySQL database. Uses transaction
// support via database.GetTx() so secret mutations and their audit rows commit
// atomically.
func (m *MySQLAuditLogRepository) Create(ctx context.Context, auditLog *authDomain.AuditLog) error {
	querier := database.GetTx(ctx, m.db)

	query := "INSERT INTO audit_logs (id, client_id, action, namespace, `key`, detail, source_address, created_at) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

	_, err := querier.ExecContext(
		ctx,
		query,
		auditLog.ID.String(),
		auditLog.ClientID,
		string(auditLog.Action),
		auditLog.Namespace,
		auditLog.Key,
		auditLog.Detail,
		auditLog.SourceAddress,
		auditLog.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}

	return nil
}

// List retrieves audit logs ordered by ID descending (newest first).
// Filters are pushed into SQL rather than applied in memory.
func (m *MySQLAuditLogRepository) List(
	ctx context.Context,
	filter authDomain.AuditLogFilter,
) ([]*authDomain.AuditLog, error) {
	querier := database.GetTx(ctx, m.db)

	query := "SELECT id, client_id, action, namespace, `key`, detail, source_address, created_at FROM audit_logs"

	var conditions []string
	var args []any

	if filter.ClientID != "" {
		conditions = append(conditions, "client_id = ?")
		args = append(args, filter.ClientID)
	}
	if filter.Namespace != "" {
		conditions = append(conditions, "namespace = ?")
		args = append(args, filter.Namespace)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, filter.Limit)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	defer func() {
		_ = rows.Close()
	}()

	auditLogs := make([]*authDomain.AuditLog, 0)
	for rows.Next() {
		var auditLog authDomain.AuditLog
		var action string

		err := rows.Scan(
			&auditLog.ID,
			&auditLog.ClientID,
			&action,
			&auditLog.Namespace,
			&auditLog.Key,
			&auditLog.Detail,
			&auditLog.SourceAddress,
			&auditLog.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit log")
		}

		auditLog.Action = authDomain.Action(action)
		auditLogs = append(auditLogs, &auditLog)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit logs")
	}

	return auditLogs, nil
}
