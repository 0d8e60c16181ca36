package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
)

func TestNewPostgreSQLAuditLogRepository(t *testing.T) {
	db, _ := newMockDB(t)

	repo := NewPostgreSQLAuditLogRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLAuditLogRepository{}, repo)
}

func TestPostgreSQLAuditLogRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLAuditLogRepository(db)
	ctx := context.Background()

	auditLog := &authDomain.AuditLog{
		ID:            uuid.Must(uuid.NewV7()),
		ClientID:      "billing-service",
		Action:        authDomain.ActionWrite,
		Namespace:     "billing",
		Key:           "stripe-api-key",
		SourceAddress: "10.0.0.1",
		CreatedAt:     time.Now().UTC(),
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO audit_logs`)).
		WithArgs(
			auditLog.ID,
			auditLog.ClientID,
			string(auditLog.Action),
			auditLog.Namespace,
			auditLog.Key,
			auditLog.Detail,
			auditLog.SourceAddress,
			auditLog.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(ctx, auditLog)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAuditLogRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLAuditLogRepository(db)
	ctx := context.Background()

	id1 := uuid.Must(uuid.NewV7())
	id2 := uuid.Must(uuid.NewV7())
	createdAt := time.Now().UTC()

	t.Run("no filters", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "client_id", "action", "namespace", "key", "detail", "source_address", "created_at",
		}).
			AddRow(id2, "client-2", "read", "orders", "db-password", "", "10.0.0.2", createdAt).
			AddRow(id1, "client-1", "write", "billing", "stripe-api-key", "", "10.0.0.1", createdAt)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, client_id, action, namespace, key, detail, source_address, created_at`)).
			WithArgs(100).
			WillReturnRows(rows)

		auditLogs, err := repo.List(ctx, authDomain.AuditLogFilter{Limit: 100})
		require.NoError(t, err)
		require.Len(t, auditLogs, 2)

		assert.Equal(t, authDomain.ActionRead, auditLogs[0].Action)
		assert.Equal(t, authDomain.ActionWrite, auditLogs[1].Action)
	})

	t.Run("client_id filter", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "client_id", "action", "namespace", "key", "detail", "source_address", "created_at",
		}).AddRow(id1, "client-1", "write", "billing", "stripe-api-key", "", "10.0.0.1", createdAt)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE client_id = $1`)).
			WithArgs("client-1", 50).
			WillReturnRows(rows)

		auditLogs, err := repo.List(ctx, authDomain.AuditLogFilter{ClientID: "client-1", Limit: 50})
		require.NoError(t, err)
		require.Len(t, auditLogs, 1)
		assert.Equal(t, "client-1", auditLogs[0].ClientID)
	})

	t.Run("client_id and namespace filters", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "client_id", "action", "namespace", "key", "detail", "source_address", "created_at",
		}).AddRow(id1, "client-1", "write", "billing", "stripe-api-key", "", "10.0.0.1", createdAt)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE client_id = $1 AND namespace = $2`)).
			WithArgs("client-1", "billing", 50).
			WillReturnRows(rows)

		auditLogs, err := repo.List(ctx, authDomain.AuditLogFilter{
			ClientID:  "client-1",
			Namespace: "billing",
			Limit:     50,
		})
		require.NoError(t, err)
		require.Len(t, auditLogs, 1)
		assert.Equal(t, "billing", auditLogs[0].Namespace)
	})

	t.Run("empty result", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "client_id", "action", "namespace", "key", "detail", "source_address", "created_at",
		})

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, client_id, action, namespace, key, detail, source_address, created_at`)).
			WithArgs(100).
			WillReturnRows(rows)

		auditLogs, err := repo.List(ctx, authDomain.AuditLogFilter{Limit: 100})
		require.NoError(t, err)
		assert.NotNil(t, auditLogs)
		assert.Empty(t, auditLogs)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
