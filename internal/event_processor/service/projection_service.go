package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/moneyflow-ledger/internal/domain/activity"
	"github.com/moneyflow-ledger/internal/logger"
)

// ActivityProjectionService writes every event to the activity feed exactly once per event id
type ActivityProjectionService struct {
	activityRepo activity.Repository
	logger       *slog.Logger
}

func NewActivityProjectionService(activityRepo activity.Repository, logger *slog.Logger) *ActivityProjectionService {
	return &ActivityProjectionService{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// Project stores the event. Redelivered events are acknowledged without a second write.
func (s *ActivityProjectionService) Project(ctx context.Context, event *activity.Event) error {
	log := logger.WithCorrelation(s.logger, event.CorrelationID)

	if err := event.Validate(); err != nil {
		log.Error("Refusing to project invalid event", "event_id", event.EventID, "error", err)
		return err
	}

	inserted, err := s.activityRepo.Save(ctx, event)
	if err != nil {
		log.Error("Failed to project ledger event",
			"event_id", event.EventID,
			"transaction_id", event.TransactionID,
			"error", err,
		)
		return fmt.Errorf("failed to project event %s: %w", event.EventID, err)
	}

	if !inserted {
		log.Info("Ledger event already projected, skipping", "event_id", event.EventID)
		return nil
	}

	log.Info("Projected ledger event",
		"event_id", event.EventID,
		"event_type", event.Type,
		"transaction_id", event.TransactionID,
		"user_id", event.UserID,
	)
	return nil
}
