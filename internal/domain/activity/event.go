// Package activity holds the ledger change events and the per-user activity feed built from them.
package activity

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/moneyflow-ledger/internal/domain/ledger"
	"github.com/moneyflow-ledger/internal/domain/shared"
)

var ErrInvalidEvent = errors.New("invalid ledger event")

// Event describes one change to the transaction log.
// It is the outbox payload, the Kafka message body and the activity feed document.
type Event struct {
	EventID         uuid.UUID        `json:"event_id" bson:"event_id"`
	Type            shared.EventType `json:"type" bson:"type"`
	TransactionID   uuid.UUID        `json:"transaction_id" bson:"transaction_id"`
	UserID          uuid.UUID        `json:"user_id" bson:"user_id"`
	AccountID       uuid.UUID        `json:"account_id" bson:"account_id"`
	CategoryID      *uuid.UUID       `json:"category_id,omitempty" bson:"category_id,omitempty"`
	Kind            ledger.Kind      `json:"kind" bson:"kind"`
	AmountMinor     int64            `json:"amount_minor" bson:"amount_minor"`
	Currency        string           `json:"currency" bson:"currency"`
	Description     *string          `json:"description,omitempty" bson:"description,omitempty"`
	TransferGroupID *uuid.UUID       `json:"transfer_group_id,omitempty" bson:"transfer_group_id,omitempty"`
	OccurredAt      time.Time        `json:"occurred_at" bson:"occurred_at"`
	RecordedAt      time.Time        `json:"recorded_at" bson:"recorded_at"`
	CorrelationID   string           `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
}

// NewEvent snapshots a transaction row into a change event
func NewEvent(eventType shared.EventType, tx *ledger.Transaction, correlationID string) *Event {
	return &Event{
		EventID:         uuid.New(),
		Type:            eventType,
		TransactionID:   tx.ID,
		UserID:          tx.UserID,
		AccountID:       tx.AccountID,
		CategoryID:      tx.CategoryID,
		Kind:            tx.Kind(),
		AmountMinor:     tx.AmountMinor,
		Currency:        tx.Currency,
		Description:     tx.Description,
		TransferGroupID: tx.TransferGroupID,
		OccurredAt:      tx.OccurredAt,
		RecordedAt:      time.Now().UTC(),
		CorrelationID:   correlationID,
	}
}

// Validate checks the fields the projector relies on
func (e *Event) Validate() error {
	if e.EventID == uuid.Nil || e.TransactionID == uuid.Nil || e.UserID == uuid.Nil {
		return ErrInvalidEvent
	}
	if !e.Type.Valid() {
		return ErrInvalidEvent
	}
	return nil
}
