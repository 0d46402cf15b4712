package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moneyflow-ledger/internal/api_gateway/service"
	"github.com/moneyflow-ledger/internal/domain/account"
)

// AccountHandler handles HTTP requests for the account registry and derived balances
type AccountHandler struct {
	accountService service.AccountService
	ledgerService  service.LedgerService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService, ledgerService service.LedgerService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		ledgerService:  ledgerService,
		logger:         logger,
	}
}

// Create registers a new account. The currency is fixed from here on.
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.CreateAccount(c.Request.Context(), req.Name, req.Type, req.Currency, req.CardNumber)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create account")
		return
	}

	RespondCreated(c, acc)
}

func (h *AccountHandler) List(c *gin.Context) {
	var query AccountListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), query.ActiveOnly)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list accounts")
		return
	}

	RespondOK(c, accounts)
}

// GetByID retrieves an account by its ID, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "account")
	if !ok {
		return
	}

	acc, err := h.accountService.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to get account")
		return
	}

	RespondOK(c, acc)
}

func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "account")
	if !ok {
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.UpdateAccount(c.Request.Context(), id, account.Patch{
		Name:       req.Name,
		Type:       req.Type,
		CardNumber: req.CardNumber,
		IsActive:   req.IsActive,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to update account")
		return
	}

	RespondOK(c, acc)
}

// Deactivate soft-deletes the account; its history stays in the ledger
func (h *AccountHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "account")
	if !ok {
		return
	}

	acc, err := h.accountService.DeactivateAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to deactivate account")
		return
	}

	RespondOK(c, acc)
}

// Delete hard-deletes the account; 409 while transactions still reference it
func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "account")
	if !ok {
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Failed to delete account")
		return
	}

	RespondNoContent(c)
}

// Balance derives the caller's balance on one account
func (h *AccountHandler) Balance(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "account")
	if !ok {
		return
	}

	var query BalanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	acc, err := h.accountService.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to get account")
		return
	}
	currency := acc.Currency
	if query.Currency != "" {
		if currency, err = account.NormalizeCurrency(query.Currency); err != nil {
			respondError(c, h.logger, err, "Invalid currency")
			return
		}
	}

	balance, err := h.ledgerService.GetAccountBalance(c.Request.Context(), id, currency, userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to compute account balance")
		return
	}

	RespondOK(c, BalanceResponse{
		AccountID:    id.String(),
		Currency:     currency,
		BalanceMinor: balance,
	})
}

// TotalBalance sums the caller's balances over every active account in one currency
func (h *AccountHandler) TotalBalance(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var query BalanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if query.Currency == "" {
		RespondBadRequest(c, "currency is required")
		return
	}

	balance, err := h.ledgerService.GetTotalBalance(c.Request.Context(), query.Currency, userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to compute total balance")
		return
	}

	RespondOK(c, BalanceResponse{
		Currency:     strings.ToUpper(query.Currency),
		BalanceMinor: balance,
	})
}

// formatTime renders timestamps the same way across every handler
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
