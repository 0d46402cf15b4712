package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/moneyflow-ledger/internal/domain/account"
	"github.com/moneyflow-ledger/internal/domain/category"
	"github.com/moneyflow-ledger/internal/domain/ledger"
	"github.com/moneyflow-ledger/internal/domain/outbox"
	"github.com/moneyflow-ledger/internal/domain/shared"
)

type ledgerFixture struct {
	runner     *fakeTxRunner
	accounts   *MockAccountRepository
	categories *MockCategoryRepository
	ledger     *MockLedgerRepository
	outbox     *MockOutboxRepository
	svc        LedgerService
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		runner:     &fakeTxRunner{},
		accounts:   new(MockAccountRepository),
		categories: new(MockCategoryRepository),
		ledger:     new(MockLedgerRepository),
		outbox:     new(MockOutboxRepository),
	}
	f.svc = NewLedgerService(f.runner, f.accounts, f.categories, f.ledger, f.outbox, slog.Default())
	return f
}

func (f *ledgerFixture) assertExpectations(t *testing.T) {
	f.accounts.AssertExpectations(t)
	f.categories.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
	f.outbox.AssertExpectations(t)
}

func eventOfType(eventType shared.EventType) interface{} {
	return mock.MatchedBy(func(m *outbox.Message) bool {
		return m.EventType == eventType && m.Status == shared.OutboxStatusPending
	})
}

func int64Ptr(v int64) *int64 { return &v }

func TestLedgerService_RecordIncome(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("StoresPositiveAmountWithEvent", func(t *testing.T) {
		f := newLedgerFixture()
		acc := newActiveAccount("RUB")
		salary := newActiveCategory("Salary", category.TypeIncome)

		f.accounts.On("GetByID", mock.Anything, acc.ID).Return(acc, nil).Once()
		f.categories.On("GetByID", mock.Anything, salary.ID).Return(salary, nil).Once()
		f.ledger.On("Create", mock.Anything, mock.MatchedBy(func(tx *ledger.Transaction) bool {
			return tx.AmountMinor == 150000 && tx.Currency == "RUB" && tx.UserID == userID && *tx.CategoryID == salary.ID
		})).Return(nil).Once()
		f.outbox.On("Create", mock.Anything, eventOfType(shared.EventTypeTransactionRecorded)).Return(nil).Once()

		row, err := f.svc.RecordIncome(ctx, &shared.PostingRequest{
			UserID:        userID,
			AccountID:     acc.ID,
			CategoryID:    &salary.ID,
			AmountMinor:   150000,
			CorrelationID: "corr-1",
		})

		require.NoError(t, err)
		assert.Equal(t, ledger.KindIncome, row.Kind())
		assert.Equal(t, 1, f.runner.commits)
		f.assertExpectations(t)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		for _, amount := range []int64{0, -10} {
			f := newLedgerFixture()
			_, err := f.svc.RecordIncome(ctx, &shared.PostingRequest{UserID: userID, AccountID: uuid.New(), AmountMinor: amount})
			assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
			assert.Zero(t, f.runner.calls)
		}
	})

	t.Run("InactiveAccount", func(t *testing.T) {
		f := newLedgerFixture()
		acc := newActiveAccount("RUB")
		acc.IsActive = false
		f.accounts.On("GetByID", mock.Anything, acc.ID).Return(acc, nil).Once()

		_, err := f.svc.RecordIncome(ctx, &shared.PostingRequest{UserID: userID, AccountID: acc.ID, AmountMinor: 100})

		assert.ErrorIs(t, err, account.ErrAccountNotFound{AccountID: acc.ID})
		assert.Zero(t, f.runner.calls)
	})

	t.Run("MissingAccount", func(t *testing.T) {
		f := newLedgerFixture()
		id := uuid.New()
		f.accounts.On("GetByID", mock.Anything, id).Return(nil, account.ErrAccountNotFound{AccountID: id}).Once()

		_, err := f.svc.RecordIncome(ctx, &shared.PostingRequest{UserID: userID, AccountID: id, AmountMinor: 100})

		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
	})

	t.Run("InactiveCategory", func(t *testing.T) {
		f := newLedgerFixture()
		acc := newActiveAccount("RUB")
		archived := newActiveCategory("Old", category.TypeIncome)
		archived.IsActive = false

		f.accounts.On("GetByID", mock.Anything, acc.ID).Return(acc, nil).Once()
		f.categories.On("GetByID", mock.Anything, archived.ID).Return(archived, nil).Once()

		_, err := f.svc.RecordIncome(ctx, &shared.PostingRequest{UserID: userID, AccountID: acc.ID, CategoryID: &archived.ID, AmountMinor: 100})

		assert.ErrorIs(t, err, category.ErrCategoryNotFound{CategoryID: archived.ID})
		assert.Zero(t, f.runner.calls)
	})

	t.Run("CurrencyMismatch", func(t *testing.T) {
		f := newLedgerFixture()
		acc := newActiveAccount("RUB")
		f.accounts.On("GetByID", mock.Anything, acc.ID).Return(acc, nil).Once()

		_, err := f.svc.RecordIncome(ctx, &shared.PostingRequest{UserID: userID, AccountID: acc.ID, AmountMinor: 100, Currency: "usd"})

		assert.ErrorIs(t, err, ledger.ErrCurrencyMismatch)
	})
}

func TestLedgerService_RecordExpense(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	userID := uuid.New()
	acc := newActiveAccount("RUB")
	occurredAt := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	f.accounts.On("GetByID", mock.Anything, acc.ID).Return(acc, nil).Once()
	f.ledger.On("Create", mock.Anything, mock.MatchedBy(func(tx *ledger.Transaction) bool {
		return tx.AmountMinor == -3000 && tx.Currency == "RUB" && tx.OccurredAt.Equal(occurredAt) && tx.Description != nil && *tx.Description == "Lunch"
	})).Return(nil).Once()
	f.outbox.On("Create", mock.Anything, eventOfType(shared.EventTypeTransactionRecorded)).Return(nil).Once()

	row, err := f.svc.RecordExpense(ctx, &shared.PostingRequest{
		UserID:      userID,
		AccountID:   acc.ID,
		AmountMinor: 3000,
		Currency:    "RUB",
		OccurredAt:  &occurredAt,
		Description: strPtr("  Lunch "),
	})

	require.NoError(t, err)
	assert.Equal(t, ledger.KindExpense, row.Kind())
	f.assertExpectations(t)
}

func TestLedgerService_RecordTransfer(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("WritesBalancedPairAtomically", func(t *testing.T) {
		f := newLedgerFixture()
		from := newActiveAccount("RUB")
		to := newActiveAccount("RUB")

		f.accounts.On("GetByID", mock.Anything, from.ID).Return(from, nil).Once()
		f.accounts.On("GetByID", mock.Anything, to.ID).Return(to, nil).Once()
		f.ledger.On("Create", mock.Anything, mock.AnythingOfType("*ledger.Transaction")).Return(nil).Twice()
		f.outbox.On("Create", mock.Anything, eventOfType(shared.EventTypeTransactionRecorded)).Return(nil).Twice()

		legs, err := f.svc.RecordTransfer(ctx, &shared.TransferRequest{
			UserID:        userID,
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			AmountMinor:   50000,
		})

		require.NoError(t, err)
		require.Len(t, legs, 2)
		assert.Equal(t, int64(-50000), legs[0].AmountMinor)
		assert.Equal(t, from.ID, legs[0].AccountID)
		assert.Equal(t, int64(50000), legs[1].AmountMinor)
		assert.Equal(t, to.ID, legs[1].AccountID)
		assert.Equal(t, legs[0].ID, *legs[0].TransferGroupID)
		assert.Equal(t, *legs[0].TransferGroupID, *legs[1].TransferGroupID)
		assert.Zero(t, legs[0].AmountMinor+legs[1].AmountMinor)
		assert.Equal(t, 1, f.runner.calls)
		assert.Equal(t, 1, f.runner.commits)
		f.assertExpectations(t)
	})

	t.Run("SecondLegFailureCommitsNothing", func(t *testing.T) {
		f := newLedgerFixture()
		from := newActiveAccount("RUB")
		to := newActiveAccount("RUB")
		writeErr := errors.New("insert failed")

		f.accounts.On("GetByID", mock.Anything, from.ID).Return(from, nil).Once()
		f.accounts.On("GetByID", mock.Anything, to.ID).Return(to, nil).Once()
		f.ledger.On("Create", mock.Anything, mock.MatchedBy(func(tx *ledger.Transaction) bool { return tx.AmountMinor < 0 })).Return(nil).Once()
		f.ledger.On("Create", mock.Anything, mock.MatchedBy(func(tx *ledger.Transaction) bool { return tx.AmountMinor > 0 })).Return(writeErr).Once()
		f.outbox.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		legs, err := f.svc.RecordTransfer(ctx, &shared.TransferRequest{
			UserID: userID, FromAccountID: from.ID, ToAccountID: to.ID, AmountMinor: 100,
		})

		assert.ErrorIs(t, err, writeErr)
		assert.Nil(t, legs)
		assert.Equal(t, 0, f.runner.commits)
	})

	t.Run("MissingDestinationNamesSide", func(t *testing.T) {
		f := newLedgerFixture()
		from := newActiveAccount("RUB")
		toID := uuid.New()

		f.accounts.On("GetByID", mock.Anything, from.ID).Return(from, nil).Once()
		f.accounts.On("GetByID", mock.Anything, toID).Return(nil, account.ErrAccountNotFound{AccountID: toID}).Once()

		_, err := f.svc.RecordTransfer(ctx, &shared.TransferRequest{
			UserID: userID, FromAccountID: from.ID, ToAccountID: toID, AmountMinor: 100,
		})

		var notFound account.ErrAccountNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "to", notFound.Side)
		assert.Equal(t, toID, notFound.AccountID)
		assert.Zero(t, f.runner.calls)
	})

	t.Run("MissingSourceNamesSide", func(t *testing.T) {
		f := newLedgerFixture()
		fromID := uuid.New()

		f.accounts.On("GetByID", mock.Anything, fromID).Return(nil, account.ErrAccountNotFound{AccountID: fromID}).Once()

		_, err := f.svc.RecordTransfer(ctx, &shared.TransferRequest{
			UserID: userID, FromAccountID: fromID, ToAccountID: uuid.New(), AmountMinor: 100,
		})

		var notFound account.ErrAccountNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "from", notFound.Side)
	})

	t.Run("SameAccount", func(t *testing.T) {
		f := newLedgerFixture()
		id := uuid.New()

		_, err := f.svc.RecordTransfer(ctx, &shared.TransferRequest{UserID: userID, FromAccountID: id, ToAccountID: id, AmountMinor: 100})

		assert.ErrorIs(t, err, ledger.ErrSameAccountTransfer)
	})

	t.Run("CrossCurrency", func(t *testing.T) {
		f := newLedgerFixture()
		from := newActiveAccount("RUB")
		to := newActiveAccount("USD")

		f.accounts.On("GetByID", mock.Anything, from.ID).Return(from, nil).Once()
		f.accounts.On("GetByID", mock.Anything, to.ID).Return(to, nil).Once()

		_, err := f.svc.RecordTransfer(ctx, &shared.TransferRequest{UserID: userID, FromAccountID: from.ID, ToAccountID: to.ID, AmountMinor: 100})

		assert.ErrorIs(t, err, ledger.ErrCurrencyMismatch)
	})
}

func TestLedgerService_Record(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("UnknownKind", func(t *testing.T) {
		f := newLedgerFixture()
		_, err := f.svc.Record(ctx, &shared.RecordRequest{Kind: "refund", UserID: userID, AmountMinor: 100})
		assert.ErrorIs(t, err, ledger.ErrInvalidKind)
	})

	t.Run("TransferWithoutDestination", func(t *testing.T) {
		f := newLedgerFixture()
		_, err := f.svc.Record(ctx, &shared.RecordRequest{Kind: "transfer", UserID: userID, AccountID: uuid.New(), AmountMinor: 100})
		assert.ErrorIs(t, err, ledger.ErrMissingDestination)
	})

	t.Run("TransferWithCategory", func(t *testing.T) {
		f := newLedgerFixture()
		to := uuid.New()
		cat := uuid.New()
		_, err := f.svc.Record(ctx, &shared.RecordRequest{Kind: "transfer", UserID: userID, AccountID: uuid.New(), ToAccountID: &to, CategoryID: &cat, AmountMinor: 100})
		assert.ErrorIs(t, err, ledger.ErrInvalidKind)
	})

	t.Run("ExpenseDispatch", func(t *testing.T) {
		f := newLedgerFixture()
		acc := newActiveAccount("RUB")

		f.accounts.On("GetByID", mock.Anything, acc.ID).Return(acc, nil).Once()
		f.ledger.On("Create", mock.Anything, mock.MatchedBy(func(tx *ledger.Transaction) bool { return tx.AmountMinor == -700 })).Return(nil).Once()
		f.outbox.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		rows, err := f.svc.Record(ctx, &shared.RecordRequest{Kind: "Expense", UserID: userID, AccountID: acc.ID, AmountMinor: 700})

		require.NoError(t, err)
		require.Len(t, rows, 1)
		f.assertExpectations(t)
	})
}

func TestLedgerService_UpdateTransaction(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("AmountKeepsExpensePolarity", func(t *testing.T) {
		f := newLedgerFixture()
		row := &ledger.Transaction{ID: uuid.New(), UserID: userID, AccountID: uuid.New(), AmountMinor: -3000, Currency: "RUB"}

		f.ledger.On("GetByID", mock.Anything, row.ID, userID).Return(row, nil).Once()
		f.ledger.On("UpdateDetails", mock.Anything, mock.MatchedBy(func(tx *ledger.Transaction) bool { return tx.AmountMinor == -4500 })).Return(nil).Once()
		f.outbox.On("Create", mock.Anything, eventOfType(shared.EventTypeTransactionUpdated)).Return(nil).Once()

		updated, err := f.svc.UpdateTransaction(ctx, row.ID, userID, &shared.TransactionUpdate{AmountMinor: int64Ptr(4500)})

		require.NoError(t, err)
		assert.Equal(t, int64(-4500), updated.AmountMinor)
		f.assertExpectations(t)
	})

	t.Run("TransferAmountRewritesBothLegs", func(t *testing.T) {
		f := newLedgerFixture()
		groupID := uuid.New()
		out := &ledger.Transaction{ID: groupID, UserID: userID, AmountMinor: -500, TransferGroupID: &groupID}
		in := &ledger.Transaction{ID: uuid.New(), UserID: userID, AmountMinor: 500, TransferGroupID: &groupID}

		f.ledger.On("GetByID", mock.Anything, in.ID, userID).Return(in, nil).Once()
		f.ledger.On("GetByTransferGroup", mock.Anything, groupID, userID).Return([]*ledger.Transaction{out, in}, nil).Once()
		f.ledger.On("UpdateDetails", mock.Anything, in).Return(nil).Once()
		f.ledger.On("UpdateDetails", mock.Anything, out).Return(nil).Once()
		f.outbox.On("Create", mock.Anything, eventOfType(shared.EventTypeTransactionUpdated)).Return(nil).Twice()

		_, err := f.svc.UpdateTransaction(ctx, in.ID, userID, &shared.TransactionUpdate{AmountMinor: int64Ptr(-800)})

		require.NoError(t, err)
		assert.Equal(t, int64(800), in.AmountMinor)
		assert.Equal(t, int64(-800), out.AmountMinor)
		assert.Equal(t, 1, f.runner.commits)
		f.assertExpectations(t)
	})

	t.Run("CategoryOnTransferRejected", func(t *testing.T) {
		f := newLedgerFixture()
		groupID := uuid.New()
		leg := &ledger.Transaction{ID: groupID, UserID: userID, AmountMinor: -500, TransferGroupID: &groupID}
		categoryID := uuid.New()

		f.ledger.On("GetByID", mock.Anything, leg.ID, userID).Return(leg, nil).Once()

		_, err := f.svc.UpdateTransaction(ctx, leg.ID, userID, &shared.TransactionUpdate{CategoryID: &categoryID})

		assert.ErrorIs(t, err, ledger.ErrInvalidKind)
		assert.Zero(t, f.runner.calls)
	})

	t.Run("ZeroAmountRejected", func(t *testing.T) {
		f := newLedgerFixture()
		row := &ledger.Transaction{ID: uuid.New(), UserID: userID, AmountMinor: 100}
		f.ledger.On("GetByID", mock.Anything, row.ID, userID).Return(row, nil).Once()

		_, err := f.svc.UpdateTransaction(ctx, row.ID, userID, &shared.TransactionUpdate{AmountMinor: int64Ptr(0)})

		assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
	})

	t.Run("NotOwnedIsNotFound", func(t *testing.T) {
		f := newLedgerFixture()
		id := uuid.New()
		f.ledger.On("GetByID", mock.Anything, id, userID).Return(nil, ledger.ErrTransactionNotFound{TransactionID: id}).Once()

		_, err := f.svc.UpdateTransaction(ctx, id, userID, &shared.TransactionUpdate{Description: strPtr("x")})

		assert.ErrorIs(t, err, ledger.ErrTransactionNotFound{})
	})
}

func TestLedgerService_DeleteTransaction(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("UnknownReturnsFalse", func(t *testing.T) {
		f := newLedgerFixture()
		id := uuid.New()
		f.ledger.On("GetByID", mock.Anything, id, userID).Return(nil, ledger.ErrTransactionNotFound{TransactionID: id}).Once()

		deleted, err := f.svc.DeleteTransaction(ctx, id, userID, "")

		assert.NoError(t, err)
		assert.False(t, deleted)
		assert.Zero(t, f.runner.calls)
	})

	t.Run("SingleRow", func(t *testing.T) {
		f := newLedgerFixture()
		row := &ledger.Transaction{ID: uuid.New(), UserID: userID, AmountMinor: -100}

		f.ledger.On("GetByID", mock.Anything, row.ID, userID).Return(row, nil).Once()
		f.ledger.On("Delete", mock.Anything, row.ID, userID).Return(true, nil).Once()
		f.outbox.On("Create", mock.Anything, eventOfType(shared.EventTypeTransactionDeleted)).Return(nil).Once()

		deleted, err := f.svc.DeleteTransaction(ctx, row.ID, userID, "corr")

		require.NoError(t, err)
		assert.True(t, deleted)
		f.assertExpectations(t)
	})

	t.Run("TransferLegCascades", func(t *testing.T) {
		f := newLedgerFixture()
		groupID := uuid.New()
		out := &ledger.Transaction{ID: groupID, UserID: userID, AmountMinor: -500, TransferGroupID: &groupID}
		in := &ledger.Transaction{ID: uuid.New(), UserID: userID, AmountMinor: 500, TransferGroupID: &groupID}

		f.ledger.On("GetByID", mock.Anything, out.ID, userID).Return(out, nil).Once()
		f.ledger.On("GetByTransferGroup", mock.Anything, groupID, userID).Return([]*ledger.Transaction{out, in}, nil).Once()
		f.ledger.On("DeleteTransferGroup", mock.Anything, groupID, userID).Return(int64(2), nil).Once()
		f.outbox.On("Create", mock.Anything, eventOfType(shared.EventTypeTransactionDeleted)).Return(nil).Twice()

		deleted, err := f.svc.DeleteTransaction(ctx, out.ID, userID, "")

		require.NoError(t, err)
		assert.True(t, deleted)
		f.ledger.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})
}

func TestLedgerService_Balances(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("AccountBalanceDefaultsToAccountCurrency", func(t *testing.T) {
		f := newLedgerFixture()
		acc := newActiveAccount("RUB")
		f.accounts.On("GetByID", mock.Anything, acc.ID).Return(acc, nil).Once()
		f.ledger.On("SumByAccount", mock.Anything, acc.ID, "RUB", userID).Return(int64(0), nil).Once()

		balance, err := f.svc.GetAccountBalance(ctx, acc.ID, "", userID)

		require.NoError(t, err)
		assert.Zero(t, balance)
	})

	t.Run("TotalBalance", func(t *testing.T) {
		f := newLedgerFixture()
		f.ledger.On("SumActiveAccounts", mock.Anything, "USD", userID).Return(int64(12500), nil).Once()

		balance, err := f.svc.GetTotalBalance(ctx, "usd", userID)

		require.NoError(t, err)
		assert.Equal(t, int64(12500), balance)
	})

	t.Run("TotalBalanceRejectsBadCurrency", func(t *testing.T) {
		f := newLedgerFixture()
		_, err := f.svc.GetTotalBalance(ctx, "rubles", userID)
		assert.ErrorIs(t, err, account.ErrInvalidCurrencyFormat)
	})
}
