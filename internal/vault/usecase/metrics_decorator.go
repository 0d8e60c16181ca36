package usecase

import (
	"context"
	"time"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	"github.com/siaa-labs/vault/internal/metrics"
	vaultDomain "github.com/siaa-labs/vault/internal/vault/domain"
)

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Write records metrics for secret write operations.
func (s *secretUseCaseWithMetrics) Write(
	ctx context.Context,
	clientID, namespace, key string,
	value []byte,
	description string,
) (*vaultDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Write(ctx, clientID, namespace, key, value, description)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "vault", "secret_write", status)
	s.metrics.RecordDuration(ctx, "vault", "secret_write", time.Since(start), status)

	return secret, err
}

// Read records metrics for secret read operations.
func (s *secretUseCaseWithMetrics) Read(
	ctx context.Context,
	clientID, namespace, key string,
) (*vaultDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Read(ctx, clientID, namespace, key)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "vault", "secret_read", status)
	s.metrics.RecordDuration(ctx, "vault", "secret_read", time.Since(start), status)

	return secret, err
}

// ReadAll records metrics for namespace bulk read operations.
func (s *secretUseCaseWithMetrics) ReadAll(
	ctx context.Context,
	clientID, namespace string,
) (map[string][]byte, error) {
	start := time.Now()
	values, err := s.next.ReadAll(ctx, clientID, namespace)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "vault", "secret_read_all", status)
	s.metrics.RecordDuration(ctx, "vault", "secret_read_all", time.Since(start), status)

	return values, err
}

// ListKeys records metrics for key listing operations.
func (s *secretUseCaseWithMetrics) ListKeys(
	ctx context.Context,
	clientID, namespace string,
) ([]*vaultDomain.Secret, error) {
	start := time.Now()
	secrets, err := s.next.ListKeys(ctx, clientID, namespace)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "vault", "secret_list_keys", status)
	s.metrics.RecordDuration(ctx, "vault", "secret_list_keys", time.Since(start), status)

	return secrets, err
}

// ListNamespaces records metrics for namespace listing operations.
func (s *secretUseCaseWithMetrics) ListNamespaces(
	ctx context.Context,
	principal *authDomain.Principal,
) ([]string, error) {
	start := time.Now()
	namespaces, err := s.next.ListNamespaces(ctx, principal)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "vault", "secret_list_namespaces", status)
	s.metrics.RecordDuration(ctx, "vault", "secret_list_namespaces", time.Since(start), status)

	return namespaces, err
}

// Delete records metrics for secret delete operations.
func (s *secretUseCaseWithMetrics) Delete(ctx context.Context, clientID, namespace, key string) error {
	start := time.Now()
	err := s.next.Delete(ctx, clientID, namespace, key)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "vault", "secret_delete", status)
	s.metrics.RecordDuration(ctx, "vault", "secret_delete", time.Since(start), status)

	return err
}

// DeleteNamespace records metrics for namespace delete operations.
func (s *secretUseCaseWithMetrics) DeleteNamespace(
	ctx context.Context,
	clientID, namespace string,
) (int64, error) {
	start := time.Now()
	count, err := s.next.DeleteNamespace(ctx, clientID, namespace)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "vault", "secret_delete_namespace", status)
	s.metrics.RecordDuration(ctx, "vault", "secret_delete_namespace", time.Since(start), status)

	return count, err
}
