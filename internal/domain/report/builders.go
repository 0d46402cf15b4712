package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moneyflow-ledger/internal/domain/ledger"
	"github.com/moneyflow-ledger/internal/domain/period"
)

const (
	dayLabelLayout   = "02.01"
	monthLabelLayout = "Jan"
)

// BuildSummary sums income and expense flow inside the range
func BuildSummary(r period.Range, currency string, rows []*ledger.Transaction, accountsBalanceMinor int64) Summary {
	s := Summary{
		Window:               NewWindow(r, currency),
		AccountsBalanceMinor: accountsBalanceMinor,
	}

	for _, row := range rows {
		if !inScope(r, currency, row) {
			continue
		}
		switch row.Kind() {
		case ledger.KindIncome:
			s.IncomeMinor += row.AmountMinor
		case ledger.KindExpense:
			s.ExpenseMinor += -row.AmountMinor
		}
	}
	s.NetFlowMinor = s.IncomeMinor - s.ExpenseMinor

	return s
}

// BuildTrends buckets flow by day or by month depending on the period kind.
// Buckets without rows are omitted and points are ordered by bucket start.
func BuildTrends(r period.Range, currency string, rows []*ledger.Transaction) Trends {
	granularity := period.Granularity(r.Kind)
	buckets := make(map[time.Time]*TrendPoint)

	for _, row := range rows {
		if !inScope(r, currency, row) {
			continue
		}
		kind := row.Kind()
		if kind == ledger.KindTransfer {
			continue
		}

		start := bucketStart(row.OccurredAt, granularity)
		point, ok := buckets[start]
		if !ok {
			point = &TrendPoint{BucketStart: start, Label: bucketLabel(start, granularity)}
			buckets[start] = point
		}
		if kind == ledger.KindIncome {
			point.IncomeMinor += row.AmountMinor
		} else {
			point.ExpenseMinor += -row.AmountMinor
		}
	}

	points := make([]TrendPoint, 0, len(buckets))
	for _, p := range buckets {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].BucketStart.Before(points[j].BucketStart)
	})

	return Trends{
		Window:      NewWindow(r, currency),
		Granularity: granularity,
		Points:      points,
	}
}

// BuildCategoryBreakdown ranks categorized rows of one direction by absolute total and keeps the top limit.
// Shares are relative to the total over all matching categories, not just the returned ones.
func BuildCategoryBreakdown(
	r period.Range,
	currency string,
	direction Direction,
	rows []*ledger.Transaction,
	names map[uuid.UUID]string,
	limit int,
) CategoryBreakdown {
	view := CategoryBreakdown{
		Window:     NewWindow(r, currency),
		Direction:  direction,
		Categories: []CategoryEntry{},
	}

	want := ledger.KindExpense
	if direction == DirectionIncome {
		want = ledger.KindIncome
	}

	totals := make(map[uuid.UUID]int64)
	for _, row := range rows {
		if row.CategoryID == nil || !inScope(r, currency, row) || row.Kind() != want {
			continue
		}
		amount := row.AmountMinor
		if amount < 0 {
			amount = -amount
		}
		totals[*row.CategoryID] += amount
		view.TotalMinor += amount
	}

	if view.TotalMinor == 0 {
		return view
	}

	entries := make([]CategoryEntry, 0, len(totals))
	for id, amount := range totals {
		entries = append(entries, CategoryEntry{CategoryID: id, Name: names[id], AmountMinor: amount})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AmountMinor != entries[j].AmountMinor {
			return entries[i].AmountMinor > entries[j].AmountMinor
		}
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].CategoryID.String() < entries[j].CategoryID.String()
	})

	limit = NormalizeLimit(limit, DefaultCategoryLimit)
	if len(entries) > limit {
		entries = entries[:limit]
	}

	total := decimal.NewFromInt(view.TotalMinor)
	for i := range entries {
		entries[i].Share = decimal.NewFromInt(entries[i].AmountMinor).Div(total).InexactFloat64()
	}
	view.Categories = entries

	return view
}

func inScope(r period.Range, currency string, row *ledger.Transaction) bool {
	return row.Currency == currency && r.Contains(row.OccurredAt)
}

func bucketStart(t time.Time, granularity period.Bucket) time.Time {
	t = t.UTC()
	if granularity == period.BucketMonth {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func bucketLabel(start time.Time, granularity period.Bucket) string {
	if granularity == period.BucketMonth {
		return start.Format(monthLabelLayout)
	}
	return start.Format(dayLabelLayout)
}
