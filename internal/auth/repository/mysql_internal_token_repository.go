package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	"github.com/siaa-labs/vault/internal/database"
	apperrors "github.com/siaa-labs/vault/internal/errors"
)

// mysqlDuplicateEntry is the MySQL error number for unique key violations.
const mysqlDuplicateEntry = 1062

// MySQLInternalTokenRepository implements InternalToken persistence for MySQL.
// Uses CHAR(36) UUID columns with transaction support via database.GetTx().
type MySQLInternalTokenRepository struct {
	db *sql.DB
}

// NewMySQLInternalTokenRepository creates a new MySQL InternalToken repository.
func NewMySQLInternalTokenRepository(db *sql.DB) *MySQLInternalTokenRepository {
	return &MySQLInternalTokenRepository{db: db}
}

// Create inserts a new InternalToken into the MySQL database.
// A generated-column unique key allows only one active row, so inserting an
// active token while another is still active returns ErrConflict.
func (m *MySQLInternalTokenRepository) Create(
	ctx context.Context,
	token *authDomain.InternalToken,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO internal_tokens (id, name, token, is_active, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID.String(),
		token.Name,
		token.Token,
		token.IsActive,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return apperrors.Wrap(apperrors.ErrConflict, "internal token already active")
		}
		return apperrors.Wrap(err, "failed to create internal token")
	}
	return nil
}

// GetActive retrieves the currently active internal token.
func (m *MySQLInternalTokenRepository) GetActive(
	ctx context.Context,
) (*authDomain.InternalToken, error) {
	querier := database.GetTx(ctx, m.db)

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
func (m *MySQLInternalTokenRepository) GetByToken(
	ctx context.Context,
	value string,
) (*authDomain.InternalToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, token, is_active, expires_at, created_at
			  FROM internal_tokens WHERE token = ?`

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

// DeactivateAll marks every active internal token as inactive.
func (m *MySQLInternalTokenRepository) DeactivateAll(ctx context.Context) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE internal_tokens SET is_active = false WHERE is_active = true`

	_, err := querier.ExecContext(ctx, query)
	if err != nil {
		return apperrors.Wrap(err, "failed to deactivate internal tokens")
	}
	return nil
}
