package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Filter narrows a user's transaction listing
type Filter struct {
	UserID    uuid.UUID
	AccountID *uuid.UUID
	From      *time.Time // inclusive
	To        *time.Time // exclusive
	Limit     int
	Offset    int
}

// FlowFilter selects the non-transfer rows feeding dashboard aggregates
type FlowFilter struct {
	UserID   uuid.UUID
	Currency string
	From     time.Time // inclusive
	To       time.Time // exclusive
}

// Repository manages the transaction log
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error

	// GetByID returns ErrTransactionNotFound when the row is missing or owned by someone else
	GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Transaction, error)
	GetByTransferGroup(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) ([]*Transaction, error)

	// UpdateDetails persists category, description and amount; account, sign origin and group are immutable
	UpdateDetails(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) (bool, error)
	DeleteTransferGroup(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (int64, error)

	List(ctx context.Context, filter Filter) ([]*Transaction, error)
	ListFlows(ctx context.Context, filter FlowFilter) ([]*Transaction, error)

	// SumByAccount is the derived balance of one account for one currency
	SumByAccount(ctx context.Context, accountID uuid.UUID, currency string, userID uuid.UUID) (int64, error)
	// SumActiveAccounts is the derived balance across all active accounts in the currency
	SumActiveAccounts(ctx context.Context, currency string, userID uuid.UUID) (int64, error)

	WithTx(tx pgx.Tx) Repository
}
