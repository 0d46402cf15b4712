package shared

import (
	"time"

	"github.com/google/uuid"
)

// PostingRequest is an income or expense intent. AmountMinor is a positive magnitude.
// An empty Currency means the account's currency.
type PostingRequest struct {
	UserID        uuid.UUID  `json:"user_id"`
	AccountID     uuid.UUID  `json:"account_id"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	AmountMinor   int64      `json:"amount_minor"`
	Currency      string     `json:"currency,omitempty"`
	OccurredAt    *time.Time `json:"occurred_at,omitempty"`
	Description   *string    `json:"description,omitempty"`
	CorrelationID string     `json:"correlation_id"`
}

// TransferRequest moves AmountMinor between two accounts of the same user and currency
type TransferRequest struct {
	UserID        uuid.UUID  `json:"user_id"`
	FromAccountID uuid.UUID  `json:"from_account_id"`
	ToAccountID   uuid.UUID  `json:"to_account_id"`
	AmountMinor   int64      `json:"amount_minor"`
	Currency      string     `json:"currency,omitempty"`
	OccurredAt    *time.Time `json:"occurred_at,omitempty"`
	Description   *string    `json:"description,omitempty"`
	CorrelationID string     `json:"correlation_id"`
}

// RecordRequest is the kind-tagged form accepted by the HTTP layer.
// ToAccountID is required for transfers only.
type RecordRequest struct {
	Kind          string     `json:"kind"`
	UserID        uuid.UUID  `json:"user_id"`
	AccountID     uuid.UUID  `json:"account_id"`
	ToAccountID   *uuid.UUID `json:"to_account_id,omitempty"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	AmountMinor   int64      `json:"amount_minor"`
	Currency      string     `json:"currency,omitempty"`
	OccurredAt    *time.Time `json:"occurred_at,omitempty"`
	Description   *string    `json:"description,omitempty"`
	CorrelationID string     `json:"correlation_id"`
}

// TransactionUpdate lists the mutable fields of a posted transaction; nil fields are left unchanged
type TransactionUpdate struct {
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	Description   *string    `json:"description,omitempty"`
	AmountMinor   *int64     `json:"amount_minor,omitempty"`
	CorrelationID string     `json:"correlation_id"`
}
