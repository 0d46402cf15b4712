package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/moneyflow-ledger/internal/domain/outbox"
	"github.com/moneyflow-ledger/internal/domain/shared"
	"github.com/moneyflow-ledger/internal/logger"
	"github.com/moneyflow-ledger/internal/platform/messaging/producers"
)

// EventPublisher relays one outbox message to the broker
type EventPublisher interface {
	PublishEvent(ctx context.Context, message *outbox.Message) error
}

// KafkaEventPublisher implements EventPublisher on top of the ledger events producer
type KafkaEventPublisher struct {
	outboxRepo outbox.Repository
	producer   producers.LedgerEventPublisher
	logger     *slog.Logger
}

// NewEventPublisher creates a new publisher
func NewEventPublisher(
	outboxRepo outbox.Repository,
	producer producers.LedgerEventPublisher,
	logger *slog.Logger,
) EventPublisher {
	return &KafkaEventPublisher{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
	}
}

// PublishEvent sends the stored payload keyed by user id and marks the row PROCESSED.
// Undecodable payloads are parked as FAILED_TO_PUBLISH straight away.
func (p *KafkaEventPublisher) PublishEvent(ctx context.Context, message *outbox.Message) error {
	event, err := message.GetEvent()
	if err == nil {
		err = event.Validate()
	}
	if err != nil {
		p.logger.Error("Outbox payload is not a valid ledger event",
			"outbox_id", message.ID, "event_id", message.EventID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("invalid payload for outbox %d: %w", message.ID, err)
	}

	log := logger.WithCorrelation(p.logger, event.CorrelationID)

	if err := p.producer.Publish(ctx, message.UserID, message.Payload); err != nil {
		log.Error("Failed to publish ledger event",
			"outbox_id", message.ID, "event_id", message.EventID, "event_type", message.EventType, "error", err,
		)
		return fmt.Errorf("failed to publish event %s: %w", message.EventID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		log.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "event_id", message.EventID, "error", err,
		)
		return fmt.Errorf("event %s published, but failed to mark outbox %d as PROCESSED: %w", message.EventID, message.ID, err)
	}

	log.Info("Ledger event published",
		"outbox_id", message.ID,
		"event_id", message.EventID,
		"event_type", message.EventType,
		"transaction_id", event.TransactionID,
	)
	return nil
}
