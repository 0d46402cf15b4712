package service

import (
	"context"

	"github.com/moneyflow-ledger/internal/domain/activity"
)

// ProjectionService applies ledger events to the activity read model
type ProjectionService interface {
	Project(ctx context.Context, event *activity.Event) error
}
