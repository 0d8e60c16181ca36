package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
)

// mockAuditLogRepository is a mock implementation of AuditLogRepository for testing.
type mockAuditLogRepository struct {
	mock.Mock
}

func (m *mockAuditLogRepository) Create(ctx context.Context, auditLog *authDomain.AuditLog) error {
	args := m.Called(ctx, auditLog)
	return args.Error(0)
}

func (m *mockAuditLogRepository) List(
	ctx context.Context,
	filter authDomain.AuditLogFilter,
) ([]*authDomain.AuditLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.AuditLog), args.Error(1)
}

func TestAuditLogUseCase_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := &mockAuditLogRepository{}

		reqCtx := WithSourceAddress(ctx, "10.0.0.1")

		mockRepo.On("Create", reqCtx, mock.MatchedBy(func(auditLog *authDomain.AuditLog) bool {
			return auditLog.ID != uuid.Nil &&
				auditLog.ClientID == "telegram-bot" &&
				auditLog.Action == authDomain.ActionWrite &&
				auditLog.Namespace == "chat" &&
				auditLog.Key == "api-key" &&
				auditLog.SourceAddress == "10.0.0.1" &&
				!auditLog.CreatedAt.IsZero()
		})).
			Return(nil).
			Once()

		uc := NewAuditLogUseCase(mockRepo)
		err := uc.Record(reqCtx, "telegram-bot", authDomain.ActionWrite, "chat", "api-key", "")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success_NoSourceAddress", func(t *testing.T) {
		mockRepo := &mockAuditLogRepository{}

		mockRepo.On("Create", ctx, mock.MatchedBy(func(auditLog *authDomain.AuditLog) bool {
			return auditLog.SourceAddress == ""
		})).
			Return(nil).
			Once()

		uc := NewAuditLogUseCase(mockRepo)
		err := uc.Record(ctx, "rotation-job", authDomain.ActionWrite, "", "", "")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_RepositoryFails", func(t *testing.T) {
		mockRepo := &mockAuditLogRepository{}

		mockRepo.On("Create", ctx, mock.Anything).
			Return(errors.New("database unavailable")).
			Once()

		uc := NewAuditLogUseCase(mockRepo)
		err := uc.Record(ctx, "telegram-bot", authDomain.ActionRead, "chat", "api-key", "")

		assert.Error(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuditLogUseCase_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := &mockAuditLogRepository{}

		logs := []*authDomain.AuditLog{
			{
				ID:        uuid.Must(uuid.NewV7()),
				ClientID:  "telegram-bot",
				Action:    authDomain.ActionRead,
				Namespace: "chat",
				Key:       "api-key",
				CreatedAt: time.Now().UTC(),
			},
		}

		filter := authDomain.AuditLogFilter{ClientID: "telegram-bot", Limit: 50}
		mockRepo.On("List", ctx, filter).Return(logs, nil).Once()

		uc := NewAuditLogUseCase(mockRepo)
		result, err := uc.List(ctx, filter)

		assert.NoError(t, err)
		assert.Len(t, result, 1)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success_DefaultLimitApplied", func(t *testing.T) {
		mockRepo := &mockAuditLogRepository{}

		expected := authDomain.AuditLogFilter{Limit: defaultAuditLogLimit}
		mockRepo.On("List", ctx, expected).
			Return([]*authDomain.AuditLog{}, nil).
			Once()

		uc := NewAuditLogUseCase(mockRepo)
		result, err := uc.List(ctx, authDomain.AuditLogFilter{})

		assert.NoError(t, err)
		assert.Empty(t, result)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_RepositoryFails", func(t *testing.T) {
		mockRepo := &mockAuditLogRepository{}

		mockRepo.On("List", ctx, mock.Anything).
			Return(nil, errors.New("database unavailable")).
			Once()

		uc := NewAuditLogUseCase(mockRepo)
		result, err := uc.List(ctx, authDomain.AuditLogFilter{Limit: 10})

		assert.Error(t, err)
		assert.Nil(t, result)
		mockRepo.AssertExpectations(t)
	})
}
