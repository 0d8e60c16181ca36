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

// MySQLClientRepository implements Client persistence for MySQL.
// Uses CHAR(36) UUID columns with transaction support via database.GetTx().
type MySQLClientRepository struct {
	db *sql.DB
}

// NewMySQLClientRepository creates a new MySQL Client repository.
func NewMySQLClientRepository(db *sql.DB) *MySQLClientRepository {
	return &MySQLClientRepository{db: db}
}

// Create inserts a new Client into the MySQL database.
func (m *MySQLClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, m.db)

	namespacesJSON, err := json.Marshal(client.Namespaces)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client namespaces")
	}

	query := `INSERT INTO clients (id, client_id, secret, name, is_active, namespaces, last_seen, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		client.ID.String(),
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
func (m *MySQLClientRepository) GetByClientID(
	ctx context.Context,
	clientID string,
) (*authDomain.Client, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, client_id, secret, name, is_active, namespaces, last_seen, created_at
			  FROM clients WHERE client_id = ?`

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
func (m *MySQLClientRepository) List(ctx context.Context) ([]*authDomain.Client, error) {
	querier := database.GetTx(ctx, m.db)

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
func (m *MySQLClientRepository) UpdateLastSeen(
	ctx context.Context,
	clientID string,
	lastSeen time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE clients SET last_seen = ? WHERE client_id = ?`

	_, err := querier.ExecContext(ctx, query, lastSeen, clientID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client last seen")
	}
	return nil
}

// SetActive activates or deactivates a client.
func (m *MySQLClientRepository) SetActive(ctx context.Context, clientID string, active bool) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE clients SET is_active = ? WHERE client_id = ?`

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
