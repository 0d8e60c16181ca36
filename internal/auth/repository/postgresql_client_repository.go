// Package repository implements data persistence for authentication entities.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID and JSONB types, MySQL uses CHAR(36) and JSON types.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	"github.com/siaa-labs/vault/internal/database"
	apperrors "github.com/siaa-labs/vault/internal/errors"
)

// PostgreSQLClientRepository implements Client persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLClientRepository struct {
	db *sql.DB
}

// NewPostgreSQLClientRepository creates a new PostgreSQL Client repository.
func NewPostgreSQLClientRepository(db *sql.DB) *PostgreSQLClientRepository {
	return &PostgreSQLClientRepository{db: db}
}

// Create inserts a new Client into the PostgreSQL database.
func (p *PostgreSQLClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, p.db)

	namespacesJSON, err := json.Marshal(client.Namespaces)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client namespaces")
	}

	query := `INSERT INTO clients (id, client_id, secret, name, is_active, namespaces, last_seen, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(
		ctx,
		query,
		client.ID,
		client.ClientID,
		client.Secret,
		client.Name,
		client.IsActive,
		namespacesJSON,
		client.LastSeen,
		client.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create client")
	}
	return nil
}

// GetByClientID retrieves a Client by its stable client identifier.
func (p *PostgreSQLClientRepository) GetByClientID(
	ctx context.Context,
	clientID string,
) (*authDomain.Client, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, client_id, secret, name, is_active, namespaces, last_seen, created_at
			  FROM clients WHERE client_id = $1`

	var client authDomain.Client
	var namespacesJSON []byte

	err := querier.QueryRowContext(ctx, query, clientID).Scan(
		&client.ID,
		&client.ClientID,
		&client.Secret,
		&client.Name,
		&client.IsActive,
		&namespacesJSON,
		&client.LastSeen,
		&client.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrClientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get client")
	}

	if err := json.Unmarshal(namespacesJSON, &client.Namespaces); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client namespaces")
	}

	return &client, nil
}

// List retrieves all clients ordered by creation time descending.
func (p *PostgreSQLClientRepository) List(ctx context.Context) ([]*authDomain.Client, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, client_id, secret, name, is_active, namespaces, last_seen, created_at
			  FROM clients
			  ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list clients")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	clients := make([]*authDomain.Client, 0)
	for rows.Next() {
		var client authDomain.Client
		var namespacesJSON []byte

		err := rows.Scan(
			&client.ID,
			&client.ClientID,
			&client.Secret,
			&client.Name,
			&client.IsActive,
			&namespacesJSON,
			&client.LastSeen,
			&client.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan client")
		}

		if err := json.Unmarshal(namespacesJSON, &client.Namespaces); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal client namespaces")
		}

		clients = append(clients, &client)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate clients")
	}

	return clients, nil
}

// UpdateLastSeen records the time of the client's most recent successful authentication.
func (p *PostgreSQLClientRepository) UpdateLastSeen(
	ctx context.Context,
	clientID string,
	lastSeen time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE clients SET last_seen = $1 WHERE client_id = $2`

	_, err := querier.ExecContext(ctx, query, lastSeen, clientID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client last seen")
	}
	return nil
}

// SetActive activates or deactivates a client. Deactivated clients keep their
// row so audit history stays attributable.
func (p *PostgreSQLClientRepository) SetActive(ctx context.Context, clientID string, active bool) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE clients SET is_active = $1 WHERE client_id = $2`

	result, err := querier.ExecContext(ctx, query, active, clientID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client status")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check affected rows")
	}
	if affected == 0 {
		return authDomain.ErrClientNotFound
	}

	return nil
}
