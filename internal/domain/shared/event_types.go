package shared

// EventType defines ledger change notifications carried through the outbox
type EventType string

const (
	EventTypeTransactionRecorded EventType = "TRANSACTION_RECORDED"
	EventTypeTransactionUpdated  EventType = "TRANSACTION_UPDATED"
	EventTypeTransactionDeleted  EventType = "TRANSACTION_DELETED"
)

// Valid reports whether the event type is known
func (t EventType) Valid() bool {
	switch t {
	case EventTypeTransactionRecorded, EventTypeTransactionUpdated, EventTypeTransactionDeleted:
		return true
	}
	return false
}

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
