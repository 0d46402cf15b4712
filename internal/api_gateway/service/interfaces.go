package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/moneyflow-ledger/internal/domain/account"
	"github.com/moneyflow-ledger/internal/domain/activity"
	"github.com/moneyflow-ledger/internal/domain/category"
	"github.com/moneyflow-ledger/internal/domain/ledger"
	"github.com/moneyflow-ledger/internal/domain/report"
	"github.com/moneyflow-ledger/internal/domain/shared"
)

// AccountService defines the interface for account registry operations
type AccountService interface {
	CreateAccount(ctx context.Context, name, accountType, currency string, cardNumber *string) (*account.Account, error)

	// GetAccount returns ErrAccountNotFound if the account doesn't exist
	GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error)
	ListAccounts(ctx context.Context, activeOnly bool) ([]*account.Account, error)

	// UpdateAccount applies the patch; the currency of an account never changes
	UpdateAccount(ctx context.Context, id uuid.UUID, patch account.Patch) (*account.Account, error)
	DeactivateAccount(ctx context.Context, id uuid.UUID) (*account.Account, error)

	// DeleteAccount hard-deletes the account. Returns ErrAccountInUse while transactions reference it.
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

// CategoryService defines the interface for category registry operations
type CategoryService interface {
	CreateCategory(ctx context.Context, name, categoryType string, parentID *uuid.UUID) (*category.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*category.Category, error)
	ListCategories(ctx context.Context, filter category.Filter) ([]*category.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, patch category.Patch) (*category.Category, error)
	DeactivateCategory(ctx context.Context, id uuid.UUID) (*category.Category, error)
}

// LedgerService defines the interface for recording and querying money movements
type LedgerService interface {
	RecordIncome(ctx context.Context, request *shared.PostingRequest) (*ledger.Transaction, error)
	RecordExpense(ctx context.Context, request *shared.PostingRequest) (*ledger.Transaction, error)

	// RecordTransfer returns the outgoing and incoming legs
	RecordTransfer(ctx context.Context, request *shared.TransferRequest) ([]*ledger.Transaction, error)

	// Record dispatches on the request kind and returns every row it wrote
	Record(ctx context.Context, request *shared.RecordRequest) ([]*ledger.Transaction, error)

	GetTransaction(ctx context.Context, id, userID uuid.UUID) (*ledger.Transaction, error)
	UpdateTransaction(ctx context.Context, id, userID uuid.UUID, update *shared.TransactionUpdate) (*ledger.Transaction, error)

	// DeleteTransaction removes the row, and its sibling when it is a transfer leg
	DeleteTransaction(ctx context.Context, id, userID uuid.UUID, correlationID string) (bool, error)

	ListTransactions(ctx context.Context, filter ledger.Filter) ([]*ledger.Transaction, error)
	GetAccountBalance(ctx context.Context, accountID uuid.UUID, currency string, userID uuid.UUID) (int64, error)
	GetTotalBalance(ctx context.Context, currency string, userID uuid.UUID) (int64, error)
}

// ReportQuery selects the period and currency of a dashboard view.
// A zero Anchor means today; an empty Currency means the configured default.
type ReportQuery struct {
	Period   string
	Anchor   time.Time
	Currency string
}

// Overview bundles every dashboard card for one window
type Overview struct {
	Summary           *report.Summary           `json:"summary"`
	Trends            *report.Trends            `json:"trends"`
	ExpenseCategories *report.CategoryBreakdown `json:"expense_categories"`
	IncomeCategories  *report.CategoryBreakdown `json:"income_categories"`
}

// ReportService defines the interface for dashboard aggregates
type ReportService interface {
	Summary(ctx context.Context, userID uuid.UUID, query ReportQuery) (*report.Summary, error)
	Trends(ctx context.Context, userID uuid.UUID, query ReportQuery) (*report.Trends, error)
	ExpenseCategories(ctx context.Context, userID uuid.UUID, query ReportQuery, limit int) (*report.CategoryBreakdown, error)
	IncomeCategories(ctx context.Context, userID uuid.UUID, query ReportQuery, limit int) (*report.CategoryBreakdown, error)
	Overview(ctx context.Context, userID uuid.UUID, query ReportQuery, limit int) (*Overview, error)
}

// ActivityService defines the interface for reading the projected activity feed
type ActivityService interface {
	// ListActivity returns one page of events, newest first, and the total count
	ListActivity(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*activity.Event, int64, error)
}
