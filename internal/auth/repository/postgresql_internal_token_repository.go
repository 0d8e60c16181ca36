package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	"github.com/siaa-labs/vault/internal/database"
	apperrors "github.com/siaa-labs/vault/internal/errors"
)

// pqUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pqUniqueViolation = "23505"

// PostgreSQLInternalTokenRepository implements InternalToken persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLInternalTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLInternalTokenRepository creates a new PostgreSQL InternalToken repository.
func NewPostgreSQLInternalTokenRepository(db *sql.DB) *PostgreSQLInternalTokenRepository {
	return &PostgreSQLInternalTokenRepository{db: db}
}

// Create inserts a new InternalToken into the PostgreSQL database.
// A partial unique index allows only one active row, so inserting an active
// token while another is still active returns ErrConflict.
func (p *PostgreSQLInternalTokenRepository) Create(
	ctx context.Context,
	token *authDomain.InternalToken,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO internal_tokens (id, name, token, is_active, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.Name,
		token.Token,
		token.IsActive,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return apperrors.Wrap(apperrors.ErrConflict, "internal token already active")
		}
		return apperrors.Wrap(err, "failed to create internal token")
	}
	return nil
}

// GetActive retrieves the currently active internal token.
func (p *PostgreSQLInternalTokenRepository) GetActive(
	ctx context.Context,
) (*authDomain.InternalToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, token, is_active, expires_at, created_at
			  FROM internal_tokens
			  WHERE is_active = true
			  ORDER BY created_at DESC
			  LIMIT 1`

	var token authDomain.InternalToken

	err := querier.QueryRowContext(ctx, query).Scan(
		&token.ID,
		&token.Name,
		&token.Token,
		&token.IsActive,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrNoActiveInternalToken
		}
		return nil, apperrors.Wrap(err, "failed to get active internal token")
	}

	return &token, nil
}

// GetByToken retrieves an internal token row by its value.
func (p *PostgreSQLInternalTokenRepository) GetByToken(
	ctx context.Context,
	value string,
) (*authDomain.InternalToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, token, is_active, expires_at, created_at
			  FROM internal_tokens WHERE token = $1`

	var token authDomain.InternalToken

	err := querier.QueryRowContext(ctx, query, value).Scan(
		&token.ID,
		&token.Name,
		&token.Token,
		&token.IsActive,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, apperrors.Wrap(err, "failed to get internal token")
	}

	return &token, nil
}

// DeactivateAll marks every active internal token as inactive. Rows are
// retained so past token usage stays traceable.
func (p *PostgreSQLInternalTokenRepository) DeactivateAll(ctx context.Context) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE internal_tokens SET is_active = false WHERE is_active = true`

	_, err := querier.ExecContext(ctx, query)
	if err != nil {
		return apperrors.Wrap(err, "failed to deactivate internal tokens")
	}
	return nil
}
