package outbox_poller

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/moneyflow-ledger/internal/domain/activity"
	"github.com/moneyflow-ledger/internal/domain/ledger"
	"github.com/moneyflow-ledger/internal/domain/outbox"
	"github.com/moneyflow-ledger/internal/domain/shared"
)

// MockOutboxRepo for testing
type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepo) GetByEventID(ctx context.Context, eventID uuid.UUID) (*outbox.Message, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) WithTx(tx pgx.Tx) outbox.Repository {
	args := m.Called(tx)
	return args.Get(0).(outbox.Repository)
}

// MockLedgerEventPublisher for testing
type MockLedgerEventPublisher struct {
	mock.Mock
}

func (m *MockLedgerEventPublisher) Publish(ctx context.Context, userID uuid.UUID, payload json.RawMessage) error {
	args := m.Called(ctx, userID, payload)
	return args.Error(0)
}

func (m *MockLedgerEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// newOutboxMessage builds a pending outbox row around a recorded expense
func newOutboxMessage(t *testing.T, id int64, attempts int) *outbox.Message {
	t.Helper()

	tx, err := ledger.NewExpense(ledger.Posting{
		UserID:      uuid.New(),
		AccountID:   uuid.New(),
		AmountMinor: 3000,
		Currency:    "RUB",
	})
	require.NoError(t, err)

	msg, err := outbox.NewMessage(activity.NewEvent(shared.EventTypeTransactionRecorded, tx, "corr-1"))
	require.NoError(t, err)
	msg.ID = id
	msg.Attempts = attempts
	return msg
}
