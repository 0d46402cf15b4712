package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/moneyflow-ledger/internal/config"
	"github.com/moneyflow-ledger/internal/domain/account"
	"github.com/moneyflow-ledger/internal/domain/category"
	"github.com/moneyflow-ledger/internal/domain/ledger"
	"github.com/moneyflow-ledger/internal/domain/period"
	"github.com/moneyflow-ledger/internal/domain/report"
)

const fallbackCurrency = "RUB"

// ReportServiceImpl implements ReportService: it fetches flow rows and hands them to the view builders
type ReportServiceImpl struct {
	ledgerRepo      ledger.Repository
	categoryRepo    category.Repository
	defaultCurrency string
	defaultLimit    int
	now             func() time.Time
	logger          *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(
	ledgerRepo ledger.Repository,
	categoryRepo category.Repository,
	cfg *config.ReportingConfig,
	logger *slog.Logger,
) ReportService {
	defaultCurrency := strings.ToUpper(strings.TrimSpace(cfg.DefaultCurrency))
	if defaultCurrency == "" {
		defaultCurrency = fallbackCurrency
	}

	return &ReportServiceImpl{
		ledgerRepo:      ledgerRepo,
		categoryRepo:    categoryRepo,
		defaultCurrency: defaultCurrency,
		defaultLimit:    report.NormalizeLimit(cfg.DefaultCategoryLimit, report.DefaultCategoryLimit),
		now:             time.Now,
		logger:          logger,
	}
}

func (s *ReportServiceImpl) Summary(ctx context.Context, userID uuid.UUID, query ReportQuery) (*report.Summary, error) {
	r, currency, err := s.window(query)
	if err != nil {
		return nil, err
	}

	rows, err := s.flows(ctx, userID, r, currency)
	if err != nil {
		return nil, err
	}

	balance, err := s.ledgerRepo.SumActiveAccounts(ctx, currency, userID)
	if err != nil {
		return nil, err
	}

	view := report.BuildSummary(r, currency, rows, balance)
	return &view, nil
}

func (s *ReportServiceImpl) Trends(ctx context.Context, userID uuid.UUID, query ReportQuery) (*report.Trends, error) {
	r, currency, err := s.window(query)
	if err != nil {
		return nil, err
	}

	rows, err := s.flows(ctx, userID, r, currency)
	if err != nil {
		return nil, err
	}

	view := report.BuildTrends(r, currency, rows)
	return &view, nil
}

func (s *ReportServiceImpl) ExpenseCategories(ctx context.Context, userID uuid.UUID, query ReportQuery, limit int) (*report.CategoryBreakdown, error) {
	return s.categories(ctx, userID, query, report.DirectionExpense, limit)
}

func (s *ReportServiceImpl) IncomeCategories(ctx context.Context, userID uuid.UUID, query ReportQuery, limit int) (*report.CategoryBreakdown, error) {
	return s.categories(ctx, userID, query, report.DirectionIncome, limit)
}

// Overview loads the flow rows and the balance concurrently, then builds every card from the same snapshot
func (s *ReportServiceImpl) Overview(ctx context.Context, userID uuid.UUID, query ReportQuery, limit int) (*Overview, error) {
	r, currency, err := s.window(query)
	if err != nil {
		return nil, err
	}

	var (
		rows    []*ledger.Transaction
		balance int64
		names   map[uuid.UUID]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.flows(gctx, userID, r, currency)
		if err != nil {
			return err
		}
		names, err = s.categoryNames(gctx, rows)
		return err
	})
	g.Go(func() error {
		var err error
		balance, err = s.ledgerRepo.SumActiveAccounts(gctx, currency, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to load dashboard overview", "user_id", userID, "error", err)
		return nil, err
	}

	limit = report.NormalizeLimit(limit, s.defaultLimit)
	summary := report.BuildSummary(r, currency, rows, balance)
	trends := report.BuildTrends(r, currency, rows)
	expenses := report.BuildCategoryBreakdown(r, currency, report.DirectionExpense, rows, names, limit)
	incomes := report.BuildCategoryBreakdown(r, currency, report.DirectionIncome, rows, names, limit)

	return &Overview{
		Summary:           &summary,
		Trends:            &trends,
		ExpenseCategories: &expenses,
		IncomeCategories:  &incomes,
	}, nil
}

func (s *ReportServiceImpl) categories(
	ctx context.Context,
	userID uuid.UUID,
	query ReportQuery,
	direction report.Direction,
	limit int,
) (*report.CategoryBreakdown, error) {
	r, currency, err := s.window(query)
	if err != nil {
		return nil, err
	}

	rows, err := s.flows(ctx, userID, r, currency)
	if err != nil {
		return nil, err
	}

	names, err := s.categoryNames(ctx, rows)
	if err != nil {
		return nil, err
	}

	view := report.BuildCategoryBreakdown(r, currency, direction, rows, names, report.NormalizeLimit(limit, s.defaultLimit))
	return &view, nil
}

// window resolves the period around the anchor (today when unset) and the currency
func (s *ReportServiceImpl) window(query ReportQuery) (period.Range, string, error) {
	anchor := query.Anchor
	if anchor.IsZero() {
		anchor = s.now().UTC()
	}

	r, err := period.Resolve(query.Period, anchor)
	if err != nil {
		return period.Range{}, "", err
	}

	currency := s.defaultCurrency
	if strings.TrimSpace(query.Currency) != "" {
		if currency, err = account.NormalizeCurrency(query.Currency); err != nil {
			return period.Range{}, "", err
		}
	}
	return r, currency, nil
}

func (s *ReportServiceImpl) flows(ctx context.Context, userID uuid.UUID, r period.Range, currency string) ([]*ledger.Transaction, error) {
	from, to := r.Bounds()
	return s.ledgerRepo.ListFlows(ctx, ledger.FlowFilter{
		UserID:   userID,
		Currency: currency,
		From:     from,
		To:       to,
	})
}

// categoryNames looks up display names for every category referenced by rows.
// Categories deleted since posting keep an empty name.
func (s *ReportServiceImpl) categoryNames(ctx context.Context, rows []*ledger.Transaction) (map[uuid.UUID]string, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, row := range rows {
		if row.CategoryID == nil {
			continue
		}
		if _, ok := seen[*row.CategoryID]; ok {
			continue
		}
		seen[*row.CategoryID] = struct{}{}
		ids = append(ids, *row.CategoryID)
	}

	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	categories, err := s.categoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id, c := range categories {
		names[id] = c.Name
	}
	return names, nil
}
