package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/moneyflow-ledger/internal/domain/account"
	"github.com/moneyflow-ledger/internal/domain/activity"
	"github.com/moneyflow-ledger/internal/domain/category"
	"github.com/moneyflow-ledger/internal/domain/ledger"
	"github.com/moneyflow-ledger/internal/domain/outbox"
	"github.com/moneyflow-ledger/internal/domain/shared"
	"github.com/moneyflow-ledger/internal/logger"
	"github.com/moneyflow-ledger/internal/platform/persistence"
)

// LedgerServiceImpl implements LedgerService. Every write commits its rows and their
// outbox events in one database transaction.
type LedgerServiceImpl struct {
	txRunner     persistence.TxRunner
	accountRepo  account.Repository
	categoryRepo category.Repository
	ledgerRepo   ledger.Repository
	outboxRepo   outbox.Repository
	logger       *slog.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	txRunner persistence.TxRunner,
	accountRepo account.Repository,
	categoryRepo category.Repository,
	ledgerRepo ledger.Repository,
	outboxRepo outbox.Repository,
	logger *slog.Logger,
) LedgerService {
	return &LedgerServiceImpl{
		txRunner:     txRunner,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		ledgerRepo:   ledgerRepo,
		outboxRepo:   outboxRepo,
		logger:       logger,
	}
}

func (s *LedgerServiceImpl) RecordIncome(ctx context.Context, request *shared.PostingRequest) (*ledger.Transaction, error) {
	return s.recordPosting(ctx, request, ledger.NewIncome)
}

func (s *LedgerServiceImpl) RecordExpense(ctx context.Context, request *shared.PostingRequest) (*ledger.Transaction, error) {
	return s.recordPosting(ctx, request, ledger.NewExpense)
}

func (s *LedgerServiceImpl) recordPosting(
	ctx context.Context,
	request *shared.PostingRequest,
	build func(ledger.Posting) (*ledger.Transaction, error),
) (*ledger.Transaction, error) {
	log := logger.WithCorrelation(s.logger, request.CorrelationID)

	if request.AmountMinor <= 0 {
		return nil, ledger.ErrInvalidAmount
	}

	acc, err := s.activeAccount(ctx, request.AccountID, "")
	if err != nil {
		return nil, err
	}

	currency, err := resolveCurrency(request.Currency, acc.Currency)
	if err != nil {
		return nil, err
	}

	if request.CategoryID != nil {
		if err := s.activeCategory(ctx, *request.CategoryID); err != nil {
			return nil, err
		}
	}

	row, err := build(ledger.Posting{
		UserID:      request.UserID,
		AccountID:   acc.ID,
		CategoryID:  request.CategoryID,
		AmountMinor: request.AmountMinor,
		Currency:    currency,
		OccurredAt:  timeOrZero(request.OccurredAt),
		Description: normalizeDescription(request.Description),
	})
	if err != nil {
		return nil, err
	}

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return s.insertRows(ctx, tx, request.CorrelationID, row)
	})
	if err != nil {
		log.Error("Failed to record transaction", "account_id", acc.ID, "error", err)
		return nil, err
	}

	log.Info("Transaction recorded",
		"transaction_id", row.ID,
		"account_id", row.AccountID,
		"kind", row.Kind(),
		"amount_minor", row.AmountMinor,
	)
	return row, nil
}

// RecordTransfer writes both legs atomically; a failure on either leaves no trace of the other
func (s *LedgerServiceImpl) RecordTransfer(ctx context.Context, request *shared.TransferRequest) ([]*ledger.Transaction, error) {
	log := logger.WithCorrelation(s.logger, request.CorrelationID)

	if request.AmountMinor <= 0 {
		return nil, ledger.ErrInvalidAmount
	}
	if request.FromAccountID == request.ToAccountID {
		return nil, ledger.ErrSameAccountTransfer
	}

	from, err := s.activeAccount(ctx, request.FromAccountID, "from")
	if err != nil {
		return nil, err
	}
	to, err := s.activeAccount(ctx, request.ToAccountID, "to")
	if err != nil {
		return nil, err
	}

	if from.Currency != to.Currency {
		return nil, ledger.ErrCurrencyMismatch
	}
	currency, err := resolveCurrency(request.Currency, from.Currency)
	if err != nil {
		return nil, err
	}

	outgoing, incoming, err := ledger.NewTransferPair(ledger.Posting{
		UserID:      request.UserID,
		AccountID:   from.ID,
		AmountMinor: request.AmountMinor,
		Currency:    currency,
		OccurredAt:  timeOrZero(request.OccurredAt),
		Description: normalizeDescription(request.Description),
	}, to.ID)
	if err != nil {
		return nil, err
	}

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return s.insertRows(ctx, tx, request.CorrelationID, outgoing, incoming)
	})
	if err != nil {
		log.Error("Failed to record transfer",
			"from_account_id", from.ID,
			"to_account_id", to.ID,
			"error", err,
		)
		return nil, err
	}

	log.Info("Transfer recorded",
		"transfer_group_id", outgoing.ID,
		"from_account_id", from.ID,
		"to_account_id", to.ID,
		"amount_minor", request.AmountMinor,
	)
	return []*ledger.Transaction{outgoing, incoming}, nil
}

func (s *LedgerServiceImpl) Record(ctx context.Context, request *shared.RecordRequest) ([]*ledger.Transaction, error) {
	kind, err := ledger.ParseKind(request.Kind)
	if err != nil {
		return nil, err
	}

	if kind == ledger.KindTransfer {
		if request.ToAccountID == nil {
			return nil, ledger.ErrMissingDestination
		}
		if request.CategoryID != nil {
			return nil, ledger.ErrCategoryOnTransfer
		}
		return s.RecordTransfer(ctx, &shared.TransferRequest{
			UserID:        request.UserID,
			FromAccountID: request.AccountID,
			ToAccountID:   *request.ToAccountID,
			AmountMinor:   request.AmountMinor,
			Currency:      request.Currency,
			OccurredAt:    request.OccurredAt,
			Description:   request.Description,
			CorrelationID: request.CorrelationID,
		})
	}

	posting := &shared.PostingRequest{
		UserID:        request.UserID,
		AccountID:     request.AccountID,
		CategoryID:    request.CategoryID,
		AmountMinor:   request.AmountMinor,
		Currency:      request.Currency,
		OccurredAt:    request.OccurredAt,
		Description:   request.Description,
		CorrelationID: request.CorrelationID,
	}

	var row *ledger.Transaction
	if kind == ledger.KindIncome {
		row, err = s.RecordIncome(ctx, posting)
	} else {
		row, err = s.RecordExpense(ctx, posting)
	}
	if err != nil {
		return nil, err
	}
	return []*ledger.Transaction{row}, nil
}

func (s *LedgerServiceImpl) GetTransaction(ctx context.Context, id, userID uuid.UUID) (*ledger.Transaction, error) {
	return s.ledgerRepo.GetByID(ctx, id, userID)
}

// UpdateTransaction changes category, description or amount. The amount keeps the row's polarity,
// and on a transfer leg both legs are rewritten so the group still sums to zero.
func (s *LedgerServiceImpl) UpdateTransaction(ctx context.Context, id, userID uuid.UUID, update *shared.TransactionUpdate) (*ledger.Transaction, error) {
	log := logger.WithCorrelation(s.logger, update.CorrelationID)

	row, err := s.ledgerRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if update.CategoryID != nil {
		if row.IsTransfer() {
			return nil, ledger.ErrCategoryOnTransfer
		}
		if err := s.activeCategory(ctx, *update.CategoryID); err != nil {
			return nil, err
		}
		categoryID := *update.CategoryID
		row.CategoryID = &categoryID
	}

	if update.Description != nil {
		row.Description = normalizeDescription(update.Description)
	}

	if update.AmountMinor != nil {
		if err := row.Resign(*update.AmountMinor); err != nil {
			return nil, err
		}
	}

	rows := []*ledger.Transaction{row}
	if row.IsTransfer() && (update.AmountMinor != nil || update.Description != nil) {
		siblings, err := s.transferSiblings(ctx, row, userID)
		if err != nil {
			return nil, err
		}
		for _, sibling := range siblings {
			if update.AmountMinor != nil {
				if err := sibling.Resign(*update.AmountMinor); err != nil {
					return nil, err
				}
			}
			sibling.Description = row.Description
			rows = append(rows, sibling)
		}
	}

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		txRepo := s.ledgerRepo.WithTx(tx)
		for _, r := range rows {
			if err := txRepo.UpdateDetails(ctx, r); err != nil {
				return err
			}
			if err := s.appendEvent(ctx, tx, shared.EventTypeTransactionUpdated, r, update.CorrelationID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to update transaction", "transaction_id", id, "error", err)
		return nil, err
	}

	log.Info("Transaction updated", "transaction_id", id, "rows", len(rows))
	return row, nil
}

// DeleteTransaction reports false when the row is unknown or owned by someone else.
// Deleting either leg of a transfer deletes the whole group.
func (s *LedgerServiceImpl) DeleteTransaction(ctx context.Context, id, userID uuid.UUID, correlationID string) (bool, error) {
	log := logger.WithCorrelation(s.logger, correlationID)

	row, err := s.ledgerRepo.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ledger.ErrTransactionNotFound{}) {
			return false, nil
		}
		return false, err
	}

	rows := []*ledger.Transaction{row}
	if row.IsTransfer() {
		siblings, err := s.transferSiblings(ctx, row, userID)
		if err != nil {
			return false, err
		}
		rows = append(rows, siblings...)
	}

	deleted := false
	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		txRepo := s.ledgerRepo.WithTx(tx)
		if row.IsTransfer() {
			n, err := txRepo.DeleteTransferGroup(ctx, *row.TransferGroupID, userID)
			if err != nil {
				return err
			}
			deleted = n > 0
		} else {
			ok, err := txRepo.Delete(ctx, row.ID, userID)
			if err != nil {
				return err
			}
			deleted = ok
		}
		if !deleted {
			return nil
		}
		for _, r := range rows {
			if err := s.appendEvent(ctx, tx, shared.EventTypeTransactionDeleted, r, correlationID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to delete transaction", "transaction_id", id, "error", err)
		return false, err
	}

	if deleted {
		log.Info("Transaction deleted", "transaction_id", id, "rows", len(rows))
	}
	return deleted, nil
}

func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, filter ledger.Filter) ([]*ledger.Transaction, error) {
	return s.ledgerRepo.List(ctx, filter)
}

// GetAccountBalance sums the account's rows in the currency; no rows is a zero balance
func (s *LedgerServiceImpl) GetAccountBalance(ctx context.Context, accountID uuid.UUID, currency string, userID uuid.UUID) (int64, error) {
	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return 0, err
	}

	code := acc.Currency
	if strings.TrimSpace(currency) != "" {
		if code, err = account.NormalizeCurrency(currency); err != nil {
			return 0, err
		}
	}

	return s.ledgerRepo.SumByAccount(ctx, accountID, code, userID)
}

func (s *LedgerServiceImpl) GetTotalBalance(ctx context.Context, currency string, userID uuid.UUID) (int64, error) {
	code, err := account.NormalizeCurrency(currency)
	if err != nil {
		return 0, err
	}
	return s.ledgerRepo.SumActiveAccounts(ctx, code, userID)
}

func (s *LedgerServiceImpl) insertRows(ctx context.Context, tx pgx.Tx, correlationID string, rows ...*ledger.Transaction) error {
	txRepo := s.ledgerRepo.WithTx(tx)
	for _, row := range rows {
		if err := txRepo.Create(ctx, row); err != nil {
			return err
		}
		if err := s.appendEvent(ctx, tx, shared.EventTypeTransactionRecorded, row, correlationID); err != nil {
			return err
		}
	}
	return nil
}

func (s *LedgerServiceImpl) appendEvent(ctx context.Context, tx pgx.Tx, eventType shared.EventType, row *ledger.Transaction, correlationID string) error {
	message, err := outbox.NewMessage(activity.NewEvent(eventType, row, correlationID))
	if err != nil {
		return fmt.Errorf("failed to build outbox message: %w", err)
	}
	return s.outboxRepo.WithTx(tx).Create(ctx, message)
}

// transferSiblings returns the other legs of row's transfer group
func (s *LedgerServiceImpl) transferSiblings(ctx context.Context, row *ledger.Transaction, userID uuid.UUID) ([]*ledger.Transaction, error) {
	legs, err := s.ledgerRepo.GetByTransferGroup(ctx, *row.TransferGroupID, userID)
	if err != nil {
		return nil, err
	}
	siblings := make([]*ledger.Transaction, 0, len(legs))
	for _, leg := range legs {
		if leg.ID != row.ID {
			siblings = append(siblings, leg)
		}
	}
	return siblings, nil
}

// activeAccount treats an inactive account exactly like a missing one
func (s *LedgerServiceImpl) activeAccount(ctx context.Context, id uuid.UUID, side string) (*account.Account, error) {
	acc, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			return nil, account.ErrAccountNotFound{AccountID: id, Side: side}
		}
		return nil, err
	}
	if !acc.IsActive {
		return nil, account.ErrAccountNotFound{AccountID: id, Side: side}
	}
	return acc, nil
}

func (s *LedgerServiceImpl) activeCategory(ctx context.Context, id uuid.UUID) error {
	c, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !c.IsActive {
		return category.ErrCategoryNotFound{CategoryID: id}
	}
	return nil
}

// resolveCurrency defaults to the account currency and rejects any other code
func resolveCurrency(requested, accountCurrency string) (string, error) {
	if strings.TrimSpace(requested) == "" {
		return accountCurrency, nil
	}
	code, err := account.NormalizeCurrency(requested)
	if err != nil {
		return "", err
	}
	if code != accountCurrency {
		return "", ledger.ErrCurrencyMismatch
	}
	return code, nil
}

func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}
