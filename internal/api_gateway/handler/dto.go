package handler

import "time"

// CreateAccountRequest represents a request to register a new account
type CreateAccountRequest struct {
	Name       string  `json:"name" binding:"required"`
	Type       string  `json:"type"`
	Currency   string  `json:"currency" binding:"required,len=3"`
	CardNumber *string `json:"card_number,omitempty"`
}

// UpdateAccountRequest carries the mutable account fields; currency is not accepted
type UpdateAccountRequest struct {
	Name       *string `json:"name,omitempty"`
	Type       *string `json:"type,omitempty"`
	CardNumber *string `json:"card_number,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

// AccountListQuery filters the account listing
type AccountListQuery struct {
	ActiveOnly bool `form:"active_only"`
}

// BalanceQuery selects the currency of a derived balance
type BalanceQuery struct {
	Currency string `form:"currency" binding:"omitempty,len=3"`
}

// BalanceResponse represents a derived balance in API responses
type BalanceResponse struct {
	AccountID    string `json:"account_id,omitempty"`
	Currency     string `json:"currency"`
	BalanceMinor int64  `json:"balance_minor"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name     string  `json:"name" binding:"required"`
	Type     string  `json:"type" binding:"required,oneof=income expense"`
	ParentID *string `json:"parent_id,omitempty" binding:"omitempty,uuid"`
}

// UpdateCategoryRequest carries the mutable category fields
type UpdateCategoryRequest struct {
	Name     *string `json:"name,omitempty"`
	Type     *string `json:"type,omitempty"`
	ParentID *string `json:"parent_id,omitempty" binding:"omitempty,uuid"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// CategoryListQuery filters the category listing
type CategoryListQuery struct {
	Type       string `form:"type" binding:"omitempty,oneof=income expense"`
	ActiveOnly bool   `form:"active_only"`
}

// CreateTransactionRequest records an income, an expense or a transfer.
// ToAccountID is required for transfers and rejected otherwise by the ledger.
type CreateTransactionRequest struct {
	Kind        string     `json:"kind" binding:"required"`
	AccountID   string     `json:"account_id" binding:"required,uuid"`
	ToAccountID *string    `json:"to_account_id,omitempty" binding:"omitempty,uuid"`
	CategoryID  *string    `json:"category_id,omitempty" binding:"omitempty,uuid"`
	AmountMinor int64      `json:"amount_minor"`
	Currency    string     `json:"currency,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
	Description *string    `json:"description,omitempty"`
}

// UpdateTransactionRequest patches category, description or amount
type UpdateTransactionRequest struct {
	CategoryID  *string `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Description *string `json:"description,omitempty"`
	AmountMinor *int64  `json:"amount_minor,omitempty"`
}

// TransactionListQuery filters the transaction listing. Dates are YYYY-MM-DD and date_to is inclusive.
type TransactionListQuery struct {
	AccountID string `form:"account_id" binding:"omitempty,uuid"`
	DateFrom  string `form:"date_from"`
	DateTo    string `form:"date_to"`
	PaginationParams
}

// TransactionResponse represents a ledger row in API responses
type TransactionResponse struct {
	ID              string  `json:"id"`
	Kind            string  `json:"kind"`
	AccountID       string  `json:"account_id"`
	CategoryID      *string `json:"category_id,omitempty"`
	AmountMinor     int64   `json:"amount_minor"`
	Currency        string  `json:"currency"`
	OccurredAt      string  `json:"occurred_at"`
	Description     *string `json:"description,omitempty"`
	TransferGroupID *string `json:"transfer_group_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// DashboardQuery selects the window of a dashboard view.
// BaseDate anchors the period and defaults to today; Limit applies to category rankings only.
type DashboardQuery struct {
	Period   string `form:"period,default=month"`
	BaseDate string `form:"base_date"`
	Currency string `form:"currency"`
	Limit    *int   `form:"limit" binding:"omitempty,min=1,max=50"`
}

// ActivityResponse represents one activity feed entry
type ActivityResponse struct {
	EventID         string  `json:"event_id"`
	Type            string  `json:"type"`
	TransactionID   string  `json:"transaction_id"`
	AccountID       string  `json:"account_id"`
	Kind            string  `json:"kind"`
	AmountMinor     int64   `json:"amount_minor"`
	Currency        string  `json:"currency"`
	Description     *string `json:"description,omitempty"`
	TransferGroupID *string `json:"transfer_group_id,omitempty"`
	OccurredAt      string  `json:"occurred_at"`
	RecordedAt      string  `json:"recorded_at"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}
