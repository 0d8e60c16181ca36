// Package repository implements data persistence for namespaced secret storage.
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). Rows hold sealed blobs only; nothing in this package ever
// sees plaintext secret values.
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

// PostgreSQLSecretRepository implements Secret persistence for PostgreSQL.
type PostgreSQLSecretRepository struct {
	db *sql.DB
}

// NewPostgreSQLSecretRepository creates a new PostgreSQL Secret repository.
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{db: db}
}

// Create inserts a new secret into the PostgreSQL database.
func (p *PostgreSQLSecretRepository) Create(ctx context.Context, secret *vaultDomain.Secret) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO secrets (id, namespace, key, ciphertext, description, is_active, access_count,
				last_accessed_by, last_accessed_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		secret.ID,
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
// existing secret. Access bookkeeping is untouched; overwriting is not a read.
func (p *PostgreSQLSecretRepository) Update(ctx context.Context, secret *vaultDomain.Secret) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE secrets
			  SET ciphertext = $1, description = $2, is_active = $3, updated_at = $4
			  WHERE namespace = $5 AND key = $6`

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
func (p *PostgreSQLSecretRepository) Get(
	ctx context.Context,
	namespace, key string,
) (*vaultDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, namespace, key, ciphertext, description, is_active, access_count,
				last_accessed_by, last_accessed_at, created_at, updated_at
			  FROM secrets
			  WHERE namespace = $1 AND key = $2`

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
func (p *PostgreSQLSecretRepository) GetAll(
	ctx context.Context,
	namespace string,
) ([]*vaultDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, namespace, key, ciphertext, description, is_active, access_count,
				last_accessed_by, last_accessed_at, created_at, updated_at
			  FROM secrets
			  WHERE namespace = $1
			  ORDER BY key`

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
func (p *PostgreSQLSecretRepository) ListKeys(
	ctx context.Context,
	namespace string,
) ([]*vaultDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, namespace, key, description, is_active, access_count,
				last_accessed_by, last_accessed_at, created_at, updated_at
			  FROM secrets
			  WHERE namespace = $1
			  ORDER BY key`

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
func (p *PostgreSQLSecretRepository) ListNamespaces(ctx context.Context) ([]string, error) {
	querier := database.GetTx(ctx, p.db)

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

// Delete removes a secret. Returns whether a row existed; the delete is hard
// and irreversible.
func (p *PostgreSQLSecretRepository) Delete(
	ctx context.Context,
	namespace, key string,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM secrets WHERE namespace = $1 AND key = $2`

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
// rows deleted; the delete is hard and irreversible.
func (p *PostgreSQLSecretRepository) DeleteNamespace(
	ctx context.Context,
	namespace string,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM secrets WHERE namespace = $1`

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
func (p *PostgreSQLSecretRepository) RecordAccess(
	ctx context.Context,
	namespace, key, clientID string,
	at time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE secrets
			  SET access_count = access_count + 1, last_accessed_by = $1, last_accessed_at = $2
			  WHERE namespace = $3 AND key = $4`

	_, err := querier.ExecContext(ctx, query, clientID, at, namespace, key)
	if err != nil {
		return apperrors.Wrap(err, "failed to record secret access")
	}
	return nil
}

// RecordNamespaceAccess increments the access counter and stamps the reader of
// every active secret in a namespace, for bulk reads. Inactive secrets are not
// handed out by bulk reads, so their counters stay put.
func (p *PostgreSQLSecretRepository) RecordNamespaceAccess(
	ctx context.Context,
	namespace, clientID string,
	at time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE secrets
			  SET access_count = access_count + 1, last_accessed_by = $1, last_accessed_at = $2
			  WHERE namespace = $3 AND is_active = TRUE`

	_, err := querier.ExecContext(ctx, query, clientID, at, namespace)
	if err != nil {
		return apperrors.Wrap(err, "failed to record namespace access")
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSecret(row rowScanner) (*vaultDomain.Secret, error) {
	var secret vaultDomain.Secret

	err := row.Scan(
		&secret.ID,
		&secret.Namespace,
		&secret.Key,
		&secret.Ciphertext,
		&secret.Description,
		&secret.IsActive,
		&secret.AccessCount,
		&secret.LastAccessedBy,
		&secret.LastAccessedAt,
		&secret.CreatedAt,
		&secret.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &secret, nil
}
