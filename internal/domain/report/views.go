// Package report turns a slice of posted transactions into dashboard views.
// Every builder classifies rows by ledger.DeriveKind only; a category's current type is never consulted.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/moneyflow-ledger/internal/domain/period"
)

// Direction selects which side of the flow a category breakdown ranks
type Direction string

const (
	DirectionExpense Direction = "expense"
	DirectionIncome  Direction = "income"
)

const (
	DefaultCategoryLimit = 5
	MaxCategoryLimit     = 50
)

// Window is the traceability header carried by every view
type Window struct {
	Period   period.Kind `json:"period"`
	DateFrom string      `json:"date_from"`
	DateTo   string      `json:"date_to"`
	Currency string      `json:"currency"`
}

// Summary is the dashboard card view
type Summary struct {
	Window
	IncomeMinor  int64 `json:"income_minor"`
	ExpenseMinor int64 `json:"expense_minor"`
	NetFlowMinor int64 `json:"net_flow_minor"`
	// AccountsBalanceMinor is a point-in-time total, not bounded by the window
	AccountsBalanceMinor int64 `json:"accounts_balance_minor"`
}

// TrendPoint is one non-empty bucket of a trend line
type TrendPoint struct {
	BucketStart  time.Time `json:"bucket_start"`
	Label        string    `json:"label"`
	IncomeMinor  int64     `json:"income_minor"`
	ExpenseMinor int64     `json:"expense_minor"`
}

// Trends is the ordered trend line view
type Trends struct {
	Window
	Granularity period.Bucket `json:"granularity"`
	Points      []TrendPoint  `json:"points"`
}

// CategoryEntry is one ranked category in a breakdown
type CategoryEntry struct {
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name"`
	AmountMinor int64     `json:"amount_minor"`
	Share       float64   `json:"share"`
}

// CategoryBreakdown ranks categories by absolute total.
// TotalMinor covers every matching category, including those cut by the limit.
type CategoryBreakdown struct {
	Window
	Direction  Direction       `json:"direction"`
	TotalMinor int64           `json:"total_minor"`
	Categories []CategoryEntry `json:"categories"`
}

// NewWindow builds the view header for a resolved range
func NewWindow(r period.Range, currency string) Window {
	return Window{
		Period:   r.Kind,
		DateFrom: r.DateFrom(),
		DateTo:   r.DateTo(),
		Currency: currency,
	}
}

// NormalizeLimit applies the default for non-positive limits and caps the rest
func NormalizeLimit(limit, defaultLimit int) int {
	if defaultLimit <= 0 || defaultLimit > MaxCategoryLimit {
		defaultLimit = DefaultCategoryLimit
	}
	if limit <= 0 {
		return defaultLimit
	}
	if limit > MaxCategoryLimit {
		return MaxCategoryLimit
	}
	return limit
}
