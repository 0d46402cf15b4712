package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moneyflow-ledger/internal/api_gateway/service"
	"github.com/moneyflow-ledger/internal/domain/period"
)

// DashboardHandler serves the aggregate views of the dashboard page
type DashboardHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(logger *slog.Logger, reportService service.ReportService) *DashboardHandler {
	return &DashboardHandler{
		reportService: reportService,
		logger:        logger,
	}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	h.serve(c, func(userID uuid.UUID, q service.ReportQuery, _ int) (interface{}, error) {
		return h.reportService.Summary(c.Request.Context(), userID, q)
	})
}

func (h *DashboardHandler) Trends(c *gin.Context) {
	h.serve(c, func(userID uuid.UUID, q service.ReportQuery, _ int) (interface{}, error) {
		return h.reportService.Trends(c.Request.Context(), userID, q)
	})
}

// ExpenseCategories ranks expense categories; limit must be within 1..50 and defaults to 5
func (h *DashboardHandler) ExpenseCategories(c *gin.Context) {
	h.serve(c, func(userID uuid.UUID, q service.ReportQuery, limit int) (interface{}, error) {
		return h.reportService.ExpenseCategories(c.Request.Context(), userID, q, limit)
	})
}

func (h *DashboardHandler) IncomeCategories(c *gin.Context) {
	h.serve(c, func(userID uuid.UUID, q service.ReportQuery, limit int) (interface{}, error) {
		return h.reportService.IncomeCategories(c.Request.Context(), userID, q, limit)
	})
}

// Overview returns every card of the dashboard for one window
func (h *DashboardHandler) Overview(c *gin.Context) {
	h.serve(c, func(userID uuid.UUID, q service.ReportQuery, limit int) (interface{}, error) {
		return h.reportService.Overview(c.Request.Context(), userID, q, limit)
	})
}

// serve binds the shared dashboard query, runs build and writes the envelope
func (h *DashboardHandler) serve(c *gin.Context, build func(uuid.UUID, service.ReportQuery, int) (interface{}, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var query DashboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	var anchor time.Time
	if query.BaseDate != "" {
		parsed, err := period.ParseDate(query.BaseDate)
		if err != nil {
			RespondBadRequest(c, "base_date must be YYYY-MM-DD")
			return
		}
		anchor = parsed
	}

	// zero lets the service fall back to the configured default
	limit := 0
	if query.Limit != nil {
		limit = *query.Limit
	}

	view, err := build(userID, service.ReportQuery{
		Period:   query.Period,
		Anchor:   anchor,
		Currency: query.Currency,
	}, limit)
	if err != nil {
		respondError(c, h.logger, err, "Failed to build dashboard view")
		return
	}

	RespondOK(c, view)
}
