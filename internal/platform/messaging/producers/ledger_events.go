package producers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/moneyflow-ledger/internal/config"
)

// LedgerEventProducer relays ledger events to the ledger events topic.
// Writes are synchronous so the outbox row is only marked processed after the broker acknowledged it.
type LedgerEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewLedgerEventProducer creates the relay producer and ensures the topic exists
func NewLedgerEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*LedgerEventProducer, error) {
	if cfg.LedgerEventsTopic == "" {
		return nil, fmt.Errorf("kafka ledger events topic is not configured")
	}

	if err := ensureTopic(cfg, cfg.LedgerEventsTopic, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure ledger events topic %s exists: %w", cfg.LedgerEventsTopic, err)
	}

	writer := &kafka.Writer{
		Addr: kafka.TCP(cfg.Brokers),
		// Keyed by user id; hashing keeps one user's events ordered on a single partition.
		Topic:        cfg.LedgerEventsTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &LedgerEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.LedgerEventsTopic,
	}, nil
}

// ErrEmptyPayload is returned for an outbox row that carries no event body
var ErrEmptyPayload = errors.New("ledger event payload is empty")

// contentTypeHeader lets consumers reject bodies they cannot decode before parsing them
var contentTypeHeader = kafka.Header{Key: "content-type", Value: []byte("application/json")}

// Publish writes the already encoded event keyed by user id
func (p *LedgerEventProducer) Publish(ctx context.Context, userID uuid.UUID, payload json.RawMessage) error {
	if len(payload) == 0 {
		return ErrEmptyPayload
	}

	key := userID.String()
	msg := kafka.Message{
		Key:     []byte(key),
		Value:   payload,
		Headers: []kafka.Header{contentTypeHeader},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish ledger event",
			"topic", p.topic,
			"user_id", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish ledger event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published ledger event", "topic", p.topic, "user_id", key)
	return nil
}

func (p *LedgerEventProducer) Close() error {
	p.logger.Info("Closing ledger event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close ledger event writer for topic %s: %w", p.topic, err)
	}
	return nil
}
