package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moneyflow-ledger/internal/api_gateway/service"
	"github.com/moneyflow-ledger/internal/domain/activity"
)

// ActivityHandler serves the caller's projected activity feed
type ActivityHandler struct {
	activityService service.ActivityService
	logger          *slog.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(logger *slog.Logger, activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// List returns one page of the feed, newest first. The feed lags the ledger by the relay delay.
func (h *ActivityHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	events, total, err := h.activityService.ListActivity(c.Request.Context(), userID, pagination.Page, pagination.PerPage)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list activity")
		return
	}

	entries := make([]ActivityResponse, 0, len(events))
	for _, event := range events {
		entries = append(entries, mapEventToResponse(event))
	}

	RespondWithPaginatedData(c, http.StatusOK, entries, pagination.Page, pagination.PerPage, total)
}

func mapEventToResponse(event *activity.Event) ActivityResponse {
	response := ActivityResponse{
		EventID:       event.EventID.String(),
		Type:          string(event.Type),
		TransactionID: event.TransactionID.String(),
		AccountID:     event.AccountID.String(),
		Kind:          string(event.Kind),
		AmountMinor:   event.AmountMinor,
		Currency:      event.Currency,
		Description:   event.Description,
		OccurredAt:    formatTime(event.OccurredAt),
		RecordedAt:    formatTime(event.RecordedAt),
	}
	if event.TransferGroupID != nil {
		id := event.TransferGroupID.String()
		response.TransferGroupID = &id
	}
	return response
}
