package activity

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores the activity feed read model
type Repository interface {
	// Save stores the event once; a repeated event id is a no-op reported as inserted=false
	Save(ctx context.Context, event *Event) (inserted bool, err error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Event, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
