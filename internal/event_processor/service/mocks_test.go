package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/moneyflow-ledger/internal/domain/activity"
	"github.com/moneyflow-ledger/internal/domain/ledger"
	"github.com/moneyflow-ledger/internal/domain/shared"
)

// MockActivityRepo mocks activity.Repository
type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Save(ctx context.Context, event *activity.Event) (bool, error) {
	args := m.Called(ctx, event)
	return args.Bool(0), args.Error(1)
}

func (m *MockActivityRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*activity.Event, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*activity.Event), args.Error(1)
}

func (m *MockActivityRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProjectionService mocks the ProjectionService interface
type MockProjectionService struct {
	mock.Mock
}

func (m *MockProjectionService) Project(ctx context.Context, event *activity.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func newEvent() *activity.Event {
	groupID := uuid.New()
	return &activity.Event{
		EventID:         uuid.New(),
		Type:            shared.EventTypeTransactionRecorded,
		TransactionID:   uuid.New(),
		UserID:          uuid.New(),
		AccountID:       uuid.New(),
		Kind:            ledger.KindTransfer,
		AmountMinor:     -50000,
		Currency:        "RUB",
		TransferGroupID: &groupID,
		CorrelationID:   "corr-1",
	}
}
