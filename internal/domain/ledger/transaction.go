// Package ledger defines the transaction log model and the money-movement sign rules.
package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind is the user-facing classification of a transaction
type Kind string

const (
	KindIncome   Kind = "income"
	KindExpense  Kind = "expense"
	KindTransfer Kind = "transfer"
)

// ParseKind validates an operation kind
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindIncome:
		return KindIncome, nil
	case KindExpense:
		return KindExpense, nil
	case KindTransfer:
		return KindTransfer, nil
	default:
		return "", ErrInvalidKind
	}
}

// DeriveKind is the single classification rule for posted rows:
// a transfer group wins, then the sign decides between income and expense.
func DeriveKind(amountMinor int64, transferGroupID *uuid.UUID) Kind {
	if transferGroupID != nil {
		return KindTransfer
	}
	if amountMinor > 0 {
		return KindIncome
	}
	return KindExpense
}

// Transaction is one row of the log. AmountMinor is signed: positive adds money to the account.
type Transaction struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	AccountID       uuid.UUID  `json:"account_id"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	AmountMinor     int64      `json:"amount_minor"`
	Currency        string     `json:"currency"`
	OccurredAt      time.Time  `json:"occurred_at"`
	Description     *string    `json:"description,omitempty"`
	TransferGroupID *uuid.UUID `json:"transfer_group_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Kind derives the transaction kind from sign and transfer group
func (t *Transaction) Kind() Kind {
	return DeriveKind(t.AmountMinor, t.TransferGroupID)
}

// IsTransfer reports whether the row is one leg of a transfer pair
func (t *Transaction) IsTransfer() bool {
	return t.TransferGroupID != nil
}

// Posting is a money-movement intent. AmountMinor is a positive magnitude;
// the constructors below decide the stored sign.
type Posting struct {
	UserID      uuid.UUID
	AccountID   uuid.UUID
	CategoryID  *uuid.UUID
	AmountMinor int64
	Currency    string
	OccurredAt  time.Time
	Description *string
}

func (p Posting) row(signedAmount int64) *Transaction {
	now := time.Now().UTC()
	occurredAt := p.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}
	return &Transaction{
		ID:          uuid.New(),
		UserID:      p.UserID,
		AccountID:   p.AccountID,
		CategoryID:  p.CategoryID,
		AmountMinor: signedAmount,
		Currency:    p.Currency,
		OccurredAt:  occurredAt,
		Description: p.Description,
		CreatedAt:   now,
	}
}

// NewIncome builds an income row; the stored amount is positive
func NewIncome(p Posting) (*Transaction, error) {
	if p.AmountMinor <= 0 {
		return nil, ErrInvalidAmount
	}
	return p.row(p.AmountMinor), nil
}

// NewExpense builds an expense row; the stored amount is the negated magnitude
func NewExpense(p Posting) (*Transaction, error) {
	if p.AmountMinor <= 0 {
		return nil, ErrInvalidAmount
	}
	return p.row(-p.AmountMinor), nil
}

// NewTransferPair builds the outgoing and incoming legs of a transfer.
// Both legs share timestamp, currency and description; the group id is the outgoing leg's id.
// Transfers carry no category.
func NewTransferPair(p Posting, toAccountID uuid.UUID) (*Transaction, *Transaction, error) {
	if p.AmountMinor <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	if p.AccountID == toAccountID {
		return nil, nil, ErrSameAccountTransfer
	}
	if p.OccurredAt.IsZero() {
		p.OccurredAt = time.Now().UTC()
	}
	p.CategoryID = nil

	outgoing := p.row(-p.AmountMinor)
	groupID := outgoing.ID
	outgoing.TransferGroupID = &groupID

	incoming := p.row(p.AmountMinor)
	incoming.AccountID = toAccountID
	incoming.CreatedAt = outgoing.CreatedAt
	incomingGroup := groupID
	incoming.TransferGroupID = &incomingGroup

	return outgoing, incoming, nil
}

// Resign replaces the amount with the given magnitude, keeping the row's existing polarity.
// The caller's sign is ignored so an update can never turn income into expense.
func (t *Transaction) Resign(magnitude int64) error {
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if magnitude == 0 {
		return ErrInvalidAmount
	}
	if t.AmountMinor < 0 {
		t.AmountMinor = -magnitude
	} else {
		t.AmountMinor = magnitude
	}
	return nil
}
