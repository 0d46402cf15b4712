package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/moneyflow-ledger/internal/domain/activity"
)

// ActivityServiceImpl implements the ActivityService interface
type ActivityServiceImpl struct {
	activityRepo activity.Repository
}

// NewActivityService creates a new activity service
func NewActivityService(activityRepo activity.Repository) ActivityService {
	return &ActivityServiceImpl{
		activityRepo: activityRepo,
	}
}

// ListActivity retrieves one page of the caller's feed along with the total number of events
func (s *ActivityServiceImpl) ListActivity(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*activity.Event, int64, error) {
	offset := (page - 1) * perPage

	events, err := s.activityRepo.ListByUser(ctx, userID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.activityRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}
