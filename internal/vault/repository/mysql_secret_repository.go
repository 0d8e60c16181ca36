package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/siaa-labs/vault/internal/database"
	apperrors "github.com/siaa-labs/vault/internal/errors"
	vaultDomain "github.com/siaa-labs/vault/internal/vault/domain"
)

// MySQLSecretRepository implements Secret persistence for MySQL.
// Uses CHAR(36) UUID columns with transaction support via database.GetTx().
type MySQLSecretRepository struct {
	db *sql.DB
}

// NewMySQLSecretRepository creates a new MySQL Secret repository.
func NewMySQLSecretRepository(db *sql.DB) *MySQLSecretRepository {
	return &MySQLSecretRepository{db: db}
}

// Create inserts a new secret into the MySQL database.
func (m *MySQLSecretRepository) Create(ctx context.Context, secret *vaultDomain.Secret) error {
	querier := database.GetTx(ctx, m.db)

	query := "INSERT INTO secrets (id, namespace, `key`, ciphertext, description, is_active, access_count, " +
		"last_accessed_by, last_accessed_at, created_at, updated_at) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	_, err := querier.ExecContext(
		ctx,
		query,
		secret.ID.String(),
		secret.Namespace,
		secret.Key,
		secret.Ciphertext,
		secret.Description,
		secret.IsActive,
		secret.AccessCount,
		secret.LastAccessedBy,
		secret.LastAccessedAt,
		secret.CreatedAt,
		secret.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

// Update overwrites the sealed value, description and active flag of an
// existing secret.
func (m *MySQLSecretRepository) Update(ctx context.Context, secret *vaultDomain.Secret) error {
	querier := database.GetTx(ctx, m.db)

	query := "UPDATE secrets SET ciphertext = ?, description = ?, is_active = ?, updated_at = ? " +
		"WHERE namespace = ? AND `key` = ?"

	result, err := querier.ExecContext(
		ctx,
		query,
		secret.Ciphertext,
		secret.Description,
		secret.IsActive,
		secret.UpdatedAt,
		secret.Namespace,
		secret.Key,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check affected rows")
	}
	if affected == 0 {
		return vaultDomain.ErrSecretNotFound
	}

	return nil
}

// Get retrieves a secret by its (namespace, key) pair.
func (m *MySQLSecretRepository) Get(
	ctx context.Context,
	namespace, key string,
) (*vaultDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := "SELECT id, namespace, `key`, ciphertext, description, is_active, access_count, " +
		"last_accessed_by, last_accessed_at, created_at, updated_at " +
		"FROM secrets WHERE namespace = ? AND `key` = ?"

	secret, err := scanSecret(querier.QueryRowContext(ctx, query, namespace, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret")
	}

	return secret, nil
}

// GetAll retrieves every secret in a namespace ordered by key.
func (m *MySQLSecretRepository) GetAll(
	ctx context.Context,
	namespace string,
) ([]*vaultDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := "SELECT id, namespace, `key`, ciphertext, description, is_active, access_count, " +
		"last_accessed_by, last_accessed_at, created_at, updated_at " +
		"FROM secrets WHERE namespace = ? ORDER BY `key`"

	rows, err := querier.QueryContext(ctx, query, namespace)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get secrets")
	}
	defer func() {
		_ = rows.Close()
	}()

	secrets := make([]*vaultDomain.Secret, 0)
	for rows.Next() {
		secret, err := scanSecret(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret")
		}
		secrets = append(secrets, secret)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secrets")
	}

	return secrets, nil
}

// ListKeys retrieves secret metadata for a namespace ordered by key.
// Ciphertext is deliberately not selected.
func (m *MySQLSecretRepository) ListKeys(
	ctx context.Context,
	namespace string,
) ([]*vaultDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := "SELECT id, namespace, `key`, description, is_active, access_count, " +
		"last_accessed_by, last_accessed_at, created_at, updated_at " +
		"FROM secrets WHERE namespace = ? ORDER BY `key`"

	rows, err := querier.QueryContext(ctx, query, namespace)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secret keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	secrets := make([]*vaultDomain.Secret, 0)
	for rows.Next() {
		var secret vaultDomain.Secret

		err := rows.Scan(
			&secret.ID,
			&secret.Namespace,
			&secret.Key,
			&secret.Description,
			&secret.IsActive,
			&secret.AccessCount,
			&secret.LastAccessedBy,
			&secret.LastAccessedAt,
			&secret.CreatedAt,
			&secret.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret metadata")
		}
		secrets = append(secrets, &secret)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secret metadata")
	}

	return secrets, nil
}

// ListNamespaces retrieves every namespace that holds at least one secret.
func (m *MySQLSecretRepository) ListNamespaces(ctx context.Context) ([]string, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT DISTINCT namespace FROM secrets ORDER BY namespace`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list namespaces")
	}
	defer func() {
		_ = rows.Close()
	}()

	namespaces := make([]string, 0)
	for rows.Next() {
		var namespace string
		if err := rows.Scan(&namespace); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan namespace")
		}
		namespaces = append(namespaces, namespace)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate namespaces")
	}

	return namespaces, nil
}

// Delete removes a secret. Returns whether a row existed.
func (m *MySQLSecretRepository) Delete(
	ctx context.Context,
	namespace, key string,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := "DELETE FROM secrets WHERE namespace = ? AND `key` = ?"

	result, err := querier.ExecContext(ctx, query, namespace, key)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete secret")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check affected rows")
	}

	return affected > 0, nil
}

// DeleteNamespace removes every secret in a namespace. Returns the number of
// rows deleted.
func (m *MySQLSecretRepository) DeleteNamespace(
	ctx context.Context,
	namespace string,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM secrets WHERE namespace = ?`

	result, err := querier.ExecContext(ctx, query, namespace)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete namespace")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to check affected rows")
	}

	return affected, nil
}

// RecordAccess increments the access counter and stamps the reader of one secret.
func (m *MySQLSecretRepository) RecordAccess(
	ctx context.Context,
	namespace, key, clientID string,
	at time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := "UPDATE secrets SET access_count = access_count + 1, " +
		"last_accessed_by = ?, last_accessed_at = ? WHERE namespace = ? AND `key` = ?"

	_, err := querier.ExecContext(ctx, query, clientID, at, namespace, key)
	if err != nil {
		return apperrors.Wrap(err, "failed to record secret access")
	}
	return nil
}

// RecordNamespaceAccess increments the access counter and stamps the reader of
// every active secret in a namespace, for bulk reads. Inactive secrets are not
// handed out by bulk reads, so their counters stay put.
func (m *MySQLSecretRepository) RecordNamespaceAccess(
	ctx context.Context,
	namespace, clientID string,
	at time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE secrets
			  SET access_count = access_count + 1, last_accessed_by = ?, last_accessed_at = ?
			  WHERE namespace = ? AND is_active = TRUE`

	_, err := querier.ExecContext(ctx, query, clientID, at, namespace)
	if err != nil {
		return apperrors.Wrap(err, "failed to record namespace access")
	}
	return nil
}
