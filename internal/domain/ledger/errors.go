package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidAmount       = errors.New("amount must be a positive number of minor units")
	ErrInvalidKind         = errors.New("kind must be one of income, expense, transfer")
	ErrCurrencyMismatch    = errors.New("currency does not match the account currency")
	ErrSameAccountTransfer = errors.New("transfer source and destination must differ")
	ErrMissingDestination  = errors.New("transfer requires a destination account")
	ErrCategoryOnTransfer  = fmt.Errorf("transfers cannot carry a category: %w", ErrInvalidKind)
)

// ErrTransactionNotFound indicates the transaction does not exist or is not owned by the caller.
// Both cases are reported identically.
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	// If the target TransactionID is empty, consider it a match for any ErrTransactionNotFound
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}
