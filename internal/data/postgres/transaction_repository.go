package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/moneyflow-ledger/internal/domain/ledger"
	"github.com/moneyflow-ledger/internal/platform/persistence"
)

const transactionColumns = `id, user_id, account_id, category_id, amount_minor, currency, occurred_at, description, transfer_group_id, created_at`

// TransactionRepository implements the ledger.Repository interface for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction log repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction.
// Both legs of a transfer are written through the same bound repository.
func (r *TransactionRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create appends a row to the transaction log
func (r *TransactionRepository) Create(ctx context.Context, t *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier.Exec(ctx, query,
		t.ID,
		t.UserID,
		t.AccountID,
		t.CategoryID,
		t.AmountMinor,
		t.Currency,
		t.OccurredAt,
		t.Description,
		t.TransferGroupID,
		t.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create transaction",
			"transaction_id", t.ID.String(),
			"account_id", t.AccountID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction owned by userID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*ledger.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`

	t, err := scanTransaction(r.querier.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get transaction", "transaction_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return t, nil
}

// GetByTransferGroup returns both legs of a transfer, outgoing leg first
func (r *TransactionRepository) GetByTransferGroup(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) ([]*ledger.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transfer_group_id = $1 AND user_id = $2
		ORDER BY amount_minor ASC
	`

	rows, err := r.querier.Query(ctx, query, groupID, userID)
	if err != nil {
		r.logger.Error("Failed to get transfer legs", "transfer_group_id", groupID.String(), "error", err)
		return nil, fmt.Errorf("failed to get transfer legs: %w", err)
	}
	return r.collect(rows)
}

// UpdateDetails rewrites category, description and amount of an owned row
func (r *TransactionRepository) UpdateDetails(ctx context.Context, t *ledger.Transaction) error {
	query := `
		UPDATE transactions
		SET category_id = $1, description = $2, amount_minor = $3
		WHERE id = $4 AND user_id = $5
	`

	result, err := r.querier.Exec(ctx, query, t.CategoryID, t.Description, t.AmountMinor, t.ID, t.UserID)
	if err != nil {
		r.logger.Error("Failed to update transaction", "transaction_id", t.ID.String(), "error", err)
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound{TransactionID: t.ID}
	}

	return nil
}

// Delete removes an owned row and reports whether it existed
func (r *TransactionRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) (bool, error) {
	result, err := r.querier.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete transaction", "transaction_id", id.String(), "error", err)
		return false, fmt.Errorf("failed to delete transaction: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// DeleteTransferGroup removes every leg of a transfer and returns the number of rows removed
func (r *TransactionRepository) DeleteTransferGroup(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (int64, error) {
	result, err := r.querier.Exec(ctx,
		`DELETE FROM transactions WHERE transfer_group_id = $1 AND user_id = $2`,
		groupID, userID,
	)
	if err != nil {
		r.logger.Error("Failed to delete transfer legs", "transfer_group_id", groupID.String(), "error", err)
		return 0, fmt.Errorf("failed to delete transfer legs: %w", err)
	}

	return result.RowsAffected(), nil
}

// List returns a page of the user's transactions, newest first
func (r *TransactionRepository) List(ctx context.Context, filter ledger.Filter) ([]*ledger.Transaction, error) {
	args := []interface{}{filter.UserID}
	conditions := []string{"user_id = $1"}

	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		conditions = append(conditions, fmt.Sprintf("account_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("occurred_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("occurred_at < $%d", len(args)))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(conditions, " AND ") +
		` ORDER BY occurred_at DESC, created_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list transactions", "user_id", filter.UserID.String(), "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return r.collect(rows)
}

// ListFlows returns the non-transfer rows of one currency inside [From, To)
func (r *TransactionRepository) ListFlows(ctx context.Context, filter ledger.FlowFilter) ([]*ledger.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		  AND currency = $2
		  AND occurred_at >= $3
		  AND occurred_at < $4
		  AND transfer_group_id IS NULL
		ORDER BY occurred_at ASC
	`

	rows, err := r.querier.Query(ctx, query, filter.UserID, filter.Currency, filter.From, filter.To)
	if err != nil {
		r.logger.Error("Failed to list flow transactions",
			"user_id", filter.UserID.String(),
			"currency", filter.Currency,
			"error", err,
		)
		return nil, fmt.Errorf("failed to list flow transactions: %w", err)
	}
	return r.collect(rows)
}

// SumByAccount computes an account balance from the log; no rows sum to zero
func (r *TransactionRepository) SumByAccount(ctx context.Context, accountID uuid.UUID, currency string, userID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount_minor), 0)::BIGINT
		FROM transactions
		WHERE account_id = $1 AND currency = $2 AND user_id = $3
	`

	var total int64
	if err := r.querier.QueryRow(ctx, query, accountID, currency, userID).Scan(&total); err != nil {
		r.logger.Error("Failed to sum account balance", "account_id", accountID.String(), "error", err)
		return 0, fmt.Errorf("failed to sum account balance: %w", err)
	}

	return total, nil
}

// SumActiveAccounts computes the balance across all active accounts of the currency, transfers included
func (r *TransactionRepository) SumActiveAccounts(ctx context.Context, currency string, userID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(t.amount_minor), 0)::BIGINT
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.is_active = TRUE
		  AND a.currency = $1
		  AND t.currency = $1
		  AND t.user_id = $2
	`

	var total int64
	if err := r.querier.QueryRow(ctx, query, currency, userID).Scan(&total); err != nil {
		r.logger.Error("Failed to sum active account balances", "currency", currency, "error", err)
		return 0, fmt.Errorf("failed to sum active account balances: %w", err)
	}

	return total, nil
}

func (r *TransactionRepository) collect(rows pgx.Rows) ([]*ledger.Transaction, error) {
	defer rows.Close()

	transactions := []*ledger.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			r.logger.Error("Failed to scan transaction", "error", err)
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over transactions", "error", err)
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}

	return transactions, nil
}

func scanTransaction(row pgx.Row) (*ledger.Transaction, error) {
	var t ledger.Transaction
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.AccountID,
		&t.CategoryID,
		&t.AmountMinor,
		&t.Currency,
		&t.OccurredAt,
		&t.Description,
		&t.TransferGroupID,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
