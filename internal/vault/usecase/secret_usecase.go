// Package usecase implements business logic orchestration for the secret store.
// Coordinates the crypto engine, repositories, and the audit trail so every
// value is sealed before persistence and every operation leaves an audit row.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	authUseCase "github.com/siaa-labs/vault/internal/auth/usecase"
	cryptoDomain "github.com/siaa-labs/vault/internal/crypto/domain"
	cryptoService "github.com/siaa-labs/vault/internal/crypto/service"
	"github.com/siaa-labs/vault/internal/database"
	apperrors "github.com/siaa-labs/vault/internal/errors"
	vaultDomain "github.com/siaa-labs/vault/internal/vault/domain"
)

// secretUseCase implements SecretUseCase for managing encrypted secrets.
type secretUseCase struct {
	txManager       database.TxManager
	secretRepo      SecretRepository
	auditLogUseCase authUseCase.AuditLogUseCase
	engine          cryptoService.Engine
	logger          *slog.Logger
}

// Write upserts a secret value by (namespace, key). The value is sealed with
// the (namespace, key) pair as associated data, so a blob copied to another
// row fails decryption. The row mutation and its audit entry commit in one
// transaction; first writes and overwrites are audited as distinct actions.
func (s *secretUseCase) Write(
	ctx context.Context,
	clientID, namespace, key string,
	value []byte,
	description string,
) (*vaultDomain.Secret, error) {
	existing, err := s.secretRepo.Get(ctx, namespace, key)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	ciphertext, err := s.engine.Seal(value, vaultDomain.AAD(namespace, key))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	action := authDomain.ActionWrite

	// A write always yields an active secret; overwriting a soft-disabled
	// key brings it back.
	secret := &vaultDomain.Secret{
		Namespace:   namespace,
		Key:         key,
		Ciphertext:  ciphertext,
		Description: description,
		IsActive:    true,
		UpdatedAt:   now,
	}

	if existing == nil {
		secret.ID = uuid.Must(uuid.NewV7())
		secret.CreatedAt = now
	} else {
		action = authDomain.ActionUpdate
		secret.ID = existing.ID
		secret.CreatedAt = existing.CreatedAt
	}

	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if existing == nil {
			if err := s.secretRepo.Create(txCtx, secret); err != nil {
				return err
			}
		} else {
			if err := s.secretRepo.Update(txCtx, secret); err != nil {
				return err
			}
		}
		return s.auditLogUseCase.Record(txCtx, clientID, action, namespace, key, "")
	})
	if err != nil {
		return nil, err
	}

	// Metadata only; the sealed blob stays inside the store
	secret.Ciphertext = nil

	return secret, nil
}

// Read decrypts and returns a single secret, updating access bookkeeping.
// Soft-disabled secrets read as missing. The access stamp and the audit row
// commit in one transaction, matching the write path; a crash cannot leave a
// counted read without its audit entry.
func (s *secretUseCase) Read(
	ctx context.Context,
	clientID, namespace, key string,
) (*vaultDomain.Secret, error) {
	secret, err := s.secretRepo.Get(ctx, namespace, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// A miss is audited distinctly so probing attempts stand out
			if auditErr := s.auditLogUseCase.Record(
				ctx, clientID, authDomain.ActionReadMiss, namespace, key, "",
			); auditErr != nil {
				return nil, auditErr
			}
		}
		return nil, err
	}

	if !secret.IsActive {
		if auditErr := s.auditLogUseCase.Record(
			ctx, clientID, authDomain.ActionReadMiss, namespace, key, "",
		); auditErr != nil {
			return nil, auditErr
		}
		return nil, vaultDomain.ErrSecretNotFound
	}

	plaintext, err := s.open(ctx, secret, namespace, key)
	if err != nil {
		return nil, err
	}
	secret.Plaintext = plaintext

	now := time.Now().UTC()
	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.secretRepo.RecordAccess(txCtx, namespace, key, clientID, now); err != nil {
			return err
		}
		return s.auditLogUseCase.Record(
			txCtx, clientID, authDomain.ActionRead, namespace, key, "",
		)
	})
	if err != nil {
		return nil, err
	}

	secret.AccessCount++
	secret.LastAccessedBy = clientID
	secret.LastAccessedAt = &now

	return secret, nil
}

// ReadAll decrypts and returns every active secret in a namespace keyed by
// secret key. Access bookkeeping is stamped once for the whole namespace and
// a single read_all entry records how many keys were handed out; both commit
// in one transaction like the write path.
func (s *secretUseCase) ReadAll(
	ctx context.Context,
	clientID, namespace string,
) (map[string][]byte, error) {
	secrets, err := s.secretRepo.GetAll(ctx, namespace)
	if err != nil {
		return nil, err
	}

	values := make(map[string][]byte, len(secrets))
	for _, secret := range secrets {
		if !secret.IsActive {
			continue
		}
		plaintext, err := s.open(ctx, secret, namespace, secret.Key)
		if err != nil {
			return nil, err
		}
		values[secret.Key] = plaintext
	}

	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if len(values) > 0 {
			if err := s.secretRepo.RecordNamespaceAccess(
				txCtx, namespace, clientID, time.Now().UTC(),
			); err != nil {
				return err
			}
		}
		return s.auditLogUseCase.Record(
			txCtx, clientID, authDomain.ActionReadAll, namespace, "",
			fmt.Sprintf("%d keys", len(values)),
		)
	})
	if err != nil {
		return nil, err
	}

	return values, nil
}

// ListKeys returns metadata for every secret in a namespace, soft-disabled
// ones included so their state stays visible. Never decrypts.
func (s *secretUseCase) ListKeys(
	ctx context.Context,
	clientID, namespace string,
) ([]*vaultDomain.Secret, error) {
	secrets, err := s.secretRepo.ListKeys(ctx, namespace)
	if err != nil {
		return nil, err
	}

	if err := s.auditLogUseCase.Record(
		ctx, clientID, authDomain.ActionList, namespace, "", "",
	); err != nil {
		return nil, err
	}

	return secrets, nil
}

// ListNamespaces returns the namespaces visible to the principal.
func (s *secretUseCase) ListNamespaces(
	ctx context.Context,
	principal *authDomain.Principal,
) ([]string, error) {
	namespaces, err := s.secretRepo.ListNamespaces(ctx)
	if err != nil {
		return nil, err
	}

	if principal.IsWildcard() {
		return namespaces, nil
	}

	visible := make([]string, 0, len(namespaces))
	for _, namespace := range namespaces {
		if principal.AllowsNamespace(namespace) {
			visible = append(visible, namespace)
		}
	}

	return visible, nil
}

// Delete removes a secret. The row removal and its audit entry commit in one
// transaction. Returns ErrSecretNotFound if no row existed.
func (s *secretUseCase) Delete(ctx context.Context, clientID, namespace, key string) error {
	return s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		existed, err := s.secretRepo.Delete(txCtx, namespace, key)
		if err != nil {
			return err
		}
		if !existed {
			return vaultDomain.ErrSecretNotFound
		}
		return s.auditLogUseCase.Record(
			txCtx, clientID, authDomain.ActionDelete, namespace, key, "",
		)
	})
}

// DeleteNamespace removes every secret in a namespace and returns the count.
// Audited even when the namespace was already empty.
func (s *secretUseCase) DeleteNamespace(
	ctx context.Context,
	clientID, namespace string,
) (int64, error) {
	var count int64

	err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		deleted, err := s.secretRepo.DeleteNamespace(txCtx, namespace)
		if err != nil {
			return err
		}
		count = deleted
		return s.auditLogUseCase.Record(
			txCtx, clientID, authDomain.ActionDeleteNamespace, namespace, "",
			fmt.Sprintf("%d keys", deleted),
		)
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// open decrypts a stored blob. Decrypt failures mean key mismatch or data
// corruption, which is a deployment problem; they are logged loudly in the
// operational log, outside the audit trail.
func (s *secretUseCase) open(
	ctx context.Context,
	secret *vaultDomain.Secret,
	namespace, key string,
) ([]byte, error) {
	plaintext, err := s.engine.Open(secret.Ciphertext, vaultDomain.AAD(namespace, key))
	if err != nil {
		s.logger.ErrorContext(ctx, "secret decryption failed",
			slog.String("namespace", namespace),
			slog.String("key", key),
			slog.String("secret_id", secret.ID.String()),
			slog.Any("error", err),
		)
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// NewSecretUseCase creates a new SecretUseCase with the provided dependencies.
func NewSecretUseCase(
	txManager database.TxManager,
	secretRepo SecretRepository,
	auditLogUseCase authUseCase.AuditLogUseCase,
	engine cryptoService.Engine,
	logger *slog.Logger,
) SecretUseCase {
	return &secretUseCase{
		txManager:       txManager,
		secretRepo:      secretRepo,
		auditLogUseCase: auditLogUseCase,
		engine:          engine,
		logger:          logger,
	}
}
