package http

import (
	"context"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockSessionUseCase is a mock implementation of SessionUseCase for testing.
type mockSessionUseCase struct {
	mock.Mock
}

func (m *mockSessionUseCase) Authenticate(
	ctx context.Context,
	clientID, clientSecret string,
) (*authDomain.SessionToken, error) {
	args := m.Called(ctx, clientID, clientSecret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.SessionToken), args.Error(1)
}

func (m *mockSessionUseCase) Verify(
	ctx context.Context,
	token string,
) (*authDomain.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Principal), args.Error(1)
}

// mockClientUseCase is a mock implementation of ClientUseCase for testing.
type mockClientUseCase struct {
	mock.Mock
}

func (m *mockClientUseCase) Register(
	ctx context.Context,
	input *authDomain.CreateClientInput,
) (*authDomain.CreateClientOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.CreateClientOutput), args.Error(1)
}

func (m *mockClientUseCase) List(ctx context.Context) ([]*authDomain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.Client), args.Error(1)
}

func (m *mockClientUseCase) Deactivate(ctx context.Context, clientID string) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

// mockInternalTokenUseCase is a mock implementation of InternalTokenUseCase for testing.
type mockInternalTokenUseCase struct {
	mock.Mock
}

func (m *mockInternalTokenUseCase) Rotate(ctx context.Context) (*authDomain.InternalToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.InternalToken), args.Error(1)
}

func (m *mockInternalTokenUseCase) EnsureActive(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockInternalTokenUseCase) Validate(
	ctx context.Context,
	token string,
) (*authDomain.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Principal), args.Error(1)
}

func (m *mockInternalTokenUseCase) GetCurrent(ctx context.Context) (*authDomain.InternalToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.InternalToken), args.Error(1)
}

// mockAuditLogUseCase is a mock implementation of AuditLogUseCase for testing.
type mockAuditLogUseCase struct {
	mock.Mock
}

func (m *mockAuditLogUseCase) Record(
	ctx context.Context,
	clientID string,
	action authDomain.Action,
	namespace, key, detail string,
) error {
	args := m.Called(ctx, clientID, action, namespace, key, detail)
	return args.Error(0)
}

func (m *mockAuditLogUseCase) List(
	ctx context.Context,
	filter authDomain.AuditLogFilter,
) ([]*authDomain.AuditLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.AuditLog), args.Error(1)
}
