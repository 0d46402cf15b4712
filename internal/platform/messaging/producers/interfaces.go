package producers

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// LedgerEventPublisher relays encoded ledger events, keyed by the owning user
type LedgerEventPublisher interface {
	Publish(ctx context.Context, userID uuid.UUID, payload json.RawMessage) error
	Close() error
}

// DeadLetterPublisher parks messages the projector could not decode
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter is the subset of *kafka.Writer the producers use
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var (
	_ LedgerEventPublisher = (*LedgerEventProducer)(nil)
	_ DeadLetterPublisher  = (*DLQProducer)(nil)
	_ KafkaWriter          = (*kafka.Writer)(nil)
)
