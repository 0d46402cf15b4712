package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/moneyflow-ledger/internal/domain/activity"
	"github.com/moneyflow-ledger/internal/event_processor/service"
	"github.com/moneyflow-ledger/internal/logger"
	"github.com/moneyflow-ledger/internal/platform/messaging/producers"
)

// LedgerEventHandler handles ledger events consumed from Kafka
type LedgerEventHandler struct {
	projectionService service.ProjectionService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewLedgerEventHandler creates a new handler; producer may be nil when no DLQ is configured
func NewLedgerEventHandler(
	logger *slog.Logger,
	projectionService service.ProjectionService,
	producer producers.DeadLetterPublisher,
) *LedgerEventHandler {
	return &LedgerEventHandler{
		projectionService: projectionService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage projects one event. A nil return commits the offset.
func (h *LedgerEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event activity.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return h.deadLetter(ctx, key, value, fmt.Errorf("failed to unmarshal ledger event: %w", err))
	}
	if err := event.Validate(); err != nil {
		return h.deadLetter(ctx, key, value, err)
	}

	log := logger.WithCorrelation(h.logger, event.CorrelationID)
	log.Debug("Received ledger event",
		"event_id", event.EventID,
		"event_type", event.Type,
		"transaction_id", event.TransactionID,
	)

	if err := h.projectionService.Project(ctx, &event); err != nil {
		log.Error("Failed to project ledger event",
			"event_id", event.EventID,
			"error", err,
		)
		return fmt.Errorf("projecting event %s failed: %w", event.EventID, err)
	}

	return nil
}

// deadLetter parks a poison message. The offset is committed only when the DLQ write succeeds.
func (h *LedgerEventHandler) deadLetter(ctx context.Context, key []byte, value []byte, cause error) error {
	h.logger.Error("Unprocessable ledger event", "message_key", string(key), "error", cause)

	if h.producer == nil {
		return cause
	}

	if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, cause.Error()); dlqErr != nil {
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", dlqErr,
			"original_error", cause,
			"message_key", string(key),
		)
		return errors.Join(cause, dlqErr)
	}

	return nil
}
