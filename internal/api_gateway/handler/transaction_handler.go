package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moneyflow-ledger/internal/api_gateway/middleware"
	"github.com/moneyflow-ledger/internal/api_gateway/service"
	"github.com/moneyflow-ledger/internal/domain/ledger"
	"github.com/moneyflow-ledger/internal/domain/period"
	"github.com/moneyflow-ledger/internal/domain/shared"
)

// TransactionHandler handles HTTP requests for ledger operations
type TransactionHandler struct {
	ledgerService service.LedgerService
	logger        *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, ledgerService service.LedgerService) *TransactionHandler {
	return &TransactionHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Create records an income, an expense or a transfer depending on the request kind.
// A transfer answers with both legs.
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}
	toAccountID, err := parseOptionalUUID(req.ToAccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid destination account ID")
		return
	}
	categoryID, err := parseOptionalUUID(req.CategoryID)
	if err != nil {
		RespondBadRequest(c, "Invalid category ID")
		return
	}

	rows, err := h.ledgerService.Record(c.Request.Context(), &shared.RecordRequest{
		Kind:          req.Kind,
		UserID:        userID,
		AccountID:     accountID,
		ToAccountID:   toAccountID,
		CategoryID:    categoryID,
		AmountMinor:   req.AmountMinor,
		Currency:      req.Currency,
		OccurredAt:    req.OccurredAt,
		Description:   req.Description,
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to record transaction")
		return
	}

	RespondCreated(c, mapTransactionsToResponse(rows))
}

// List returns the caller's transactions, newest first
func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var query TransactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := ledger.Filter{
		UserID: userID,
		Limit:  query.PerPage,
		Offset: (query.Page - 1) * query.PerPage,
	}
	if query.AccountID != "" {
		accountID, err := uuid.Parse(query.AccountID)
		if err != nil {
			RespondBadRequest(c, "Invalid account ID")
			return
		}
		filter.AccountID = &accountID
	}
	if query.DateFrom != "" {
		from, err := period.ParseDate(query.DateFrom)
		if err != nil {
			RespondBadRequest(c, "date_from must be YYYY-MM-DD")
			return
		}
		filter.From = &from
	}
	if query.DateTo != "" {
		to, err := period.ParseDate(query.DateTo)
		if err != nil {
			RespondBadRequest(c, "date_to must be YYYY-MM-DD")
			return
		}
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}

	rows, err := h.ledgerService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list transactions")
		return
	}

	RespondOK(c, mapTransactionsToResponse(rows))
}

// GetByID retrieves one of the caller's transactions, 404 when missing or owned by someone else
func (h *TransactionHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "transaction")
	if !ok {
		return
	}

	row, err := h.ledgerService.GetTransaction(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to get transaction")
		return
	}

	RespondOK(c, mapTransactionToResponse(row))
}

func (h *TransactionHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "transaction")
	if !ok {
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	categoryID, err := parseOptionalUUID(req.CategoryID)
	if err != nil {
		RespondBadRequest(c, "Invalid category ID")
		return
	}

	row, err := h.ledgerService.UpdateTransaction(c.Request.Context(), id, userID, &shared.TransactionUpdate{
		CategoryID:    categoryID,
		Description:   req.Description,
		AmountMinor:   req.AmountMinor,
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to update transaction")
		return
	}

	RespondOK(c, mapTransactionToResponse(row))
}

// Delete removes the transaction; either leg of a transfer removes the pair
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "transaction")
	if !ok {
		return
	}

	deleted, err := h.ledgerService.DeleteTransaction(c.Request.Context(), id, userID, middleware.GetCorrelationID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to delete transaction")
		return
	}
	if !deleted {
		RespondNotFound(c, "Transaction not found")
		return
	}

	RespondNoContent(c)
}

func mapTransactionsToResponse(rows []*ledger.Transaction) []TransactionResponse {
	response := make([]TransactionResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, mapTransactionToResponse(row))
	}
	return response
}

// mapTransactionToResponse maps a ledger row to a transaction response DTO
func mapTransactionToResponse(row *ledger.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:          row.ID.String(),
		Kind:        string(row.Kind()),
		AccountID:   row.AccountID.String(),
		AmountMinor: row.AmountMinor,
		Currency:    row.Currency,
		OccurredAt:  formatTime(row.OccurredAt),
		Description: row.Description,
		CreatedAt:   formatTime(row.CreatedAt),
	}
	if row.CategoryID != nil {
		id := row.CategoryID.String()
		response.CategoryID = &id
	}
	if row.TransferGroupID != nil {
		id := row.TransferGroupID.String()
		response.TransferGroupID = &id
	}
	return response
}
