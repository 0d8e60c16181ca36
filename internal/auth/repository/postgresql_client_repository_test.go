package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db, mock
}

func mustMarshalNamespaces(t *testing.T, namespaces []string) []byte {
	t.Helper()

	data, err := json.Marshal(namespaces)
	require.NoError(t, err)
	return data
}

func TestNewPostgreSQLClientRepository(t *testing.T) {
	db, _ := newMockDB(t)

	repo := NewPostgreSQLClientRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLClientRepository{}, repo)
}

func TestPostgreSQLClientRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLClientRepository(db)
	ctx := context.Background()

	client := &authDomain.Client{
		ID:         uuid.Must(uuid.NewV7()),
		ClientID:   "billing-service",
		Secret:     "argon2id-hash",
		Name:       "Billing Service",
		IsActive:   true,
		Namespaces: []string{"billing", "payments"},
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO clients`)).
		WithArgs(
			client.ID,
			client.ClientID,
			client.Secret,
			client.Name,
			client.IsActive,
			mustMarshalNamespaces(t, client.Namespaces),
			nil,
			client.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(ctx, client)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLClientRepository_GetByClientID_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLClientRepository(db)
	ctx := context.Background()

	id := uuid.Must(uuid.NewV7())
	createdAt := time.Now().UTC()
	namespaces := []string{"billing"}

	rows := sqlmock.NewRows([]string{
		"id", "client_id", "secret", "name", "is_active", "namespaces", "last_seen", "created_at",
	}).AddRow(id, "billing-service", "hash", "Billing Service", true, mustMarshalNamespaces(t, namespaces), nil, createdAt)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, client_id, secret, name, is_active, namespaces, last_seen, created_at`)).
		WithArgs("billing-service").
		WillReturnRows(rows)

	client, err := repo.GetByClientID(ctx, "billing-service")
	require.NoError(t, err)
	require.NotNil(t, client)

	assert.Equal(t, id, client.ID)
	assert.Equal(t, "billing-service", client.ClientID)
	assert.Equal(t, "hash", client.Secret)
	assert.Equal(t, namespaces, client.Namespaces)
	assert.True(t, client.IsActive)
	assert.Nil(t, client.LastSeen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLClientRepository_GetByClientID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLClientRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, client_id, secret, name, is_active, namespaces, last_seen, created_at`)).
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)

	client, err := repo.GetByClientID(ctx, "unknown")
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.ErrorIs(t, err, authDomain.ErrClientNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLClientRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLClientRepository(db)
	ctx := context.Background()

	id1 := uuid.Must(uuid.NewV7())
	id2 := uuid.Must(uuid.NewV7())
	lastSeen := time.Now().UTC()
	createdAt := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "client_id", "secret", "name", "is_active", "namespaces", "last_seen", "created_at",
	}).
		AddRow(id2, "client-2", "hash-2", "Client Two", true, mustMarshalNamespaces(t, []string{"orders"}), &lastSeen, createdAt).
		AddRow(id1, "client-1", "hash-1", "Client One", false, mustMarshalNamespaces(t, []string{"billing"}), nil, createdAt)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, client_id, secret, name, is_active, namespaces, last_seen, created_at`)).
		WillReturnRows(rows)

	clients, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)

	assert.Equal(t, "client-2", clients[0].ClientID)
	assert.NotNil(t, clients[0].LastSeen)
	assert.Equal(t, "client-1", clients[1].ClientID)
	assert.Nil(t, clients[1].LastSeen)
	assert.False(t, clients[1].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLClientRepository_List_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLClientRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{
		"id", "client_id", "secret", "name", "is_active", "namespaces", "last_seen", "created_at",
	})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, client_id, secret, name, is_active, namespaces, last_seen, created_at`)).
		WillReturnRows(rows)

	clients, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, clients)
	assert.Empty(t, clients)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLClientRepository_UpdateLastSeen(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLClientRepository(db)
	ctx := context.Background()

	lastSeen := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE clients SET last_seen`)).
		WithArgs(lastSeen, "billing-service").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateLastSeen(ctx, "billing-service", lastSeen)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLClientRepository_SetActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLClientRepository(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE clients SET is_active`)).
		WithArgs(false, "billing-service").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetActive(ctx, "billing-service", false)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLClientRepository_SetActive_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLClientRepository(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE clients SET is_active`)).
		WithArgs(false, "unknown").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetActive(ctx, "unknown", false)
	assert.Error(t, err)
	assert.ErrorIs(t, err, authDomain.ErrClientNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
