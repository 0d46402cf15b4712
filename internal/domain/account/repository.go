package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines account persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	List(ctx context.Context, activeOnly bool) ([]*Account, error)
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates a missing account, or an inactive one where activity is required.
// Side is "from" or "to" when the lookup belongs to one end of a transfer.
type ErrAccountNotFound struct {
	AccountID uuid.UUID
	Side      string
}

func (e ErrAccountNotFound) Error() string {
	if e.Side != "" {
		return e.Side + " account not found: " + e.AccountID.String()
	}
	return "account not found: " + e.AccountID.String()
}

// Is matches any ErrAccountNotFound when the target carries no account ID
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrAccountInUse indicates a hard delete refused because transactions still reference the account
type ErrAccountInUse struct {
	AccountID uuid.UUID
}

func (e ErrAccountInUse) Error() string {
	return "account is still referenced by transactions: " + e.AccountID.String()
}
