package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/moneyflow-ledger/internal/domain/category"
	"github.com/moneyflow-ledger/internal/platform/persistence"
)

const categoryColumns = `id, name, type, parent_id, is_active`

// CategoryRepository implements the category.Repository interface for PostgreSQL
type CategoryRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewCategoryRepository creates a new PostgreSQL category repository
func NewCategoryRepository(logger *slog.Logger, db *persistence.PostgresDB) category.Repository {
	return &CategoryRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new category
func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (id, name, type, parent_id, is_active)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.querier.Exec(ctx, query, c.ID, c.Name, c.Type, c.ParentID, c.IsActive)
	if err != nil {
		if persistence.IsForeignKeyViolation(err) && c.ParentID != nil {
			return category.ErrCategoryNotFound{CategoryID: *c.ParentID}
		}
		r.logger.Error("Failed to create category", "error", err)
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByID retrieves a category regardless of its active flag
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrCategoryNotFound{CategoryID: id}
		}
		r.logger.Error("Failed to get category", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return c, nil
}

// GetByIDs resolves a set of categories in one round trip; unknown ids are simply absent from the map
func (r *CategoryRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*category.Category, error) {
	result := make(map[uuid.UUID]*category.Category, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ANY($1)`

	rows, err := r.querier.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error("Failed to get categories", "count", len(ids), "error", err)
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			r.logger.Error("Failed to scan category", "error", err)
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		result[c.ID] = c
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over categories", "error", err)
		return nil, fmt.Errorf("error iterating over categories: %w", err)
	}

	return result, nil
}

// List returns categories ordered by name
func (r *CategoryRepository) List(ctx context.Context, filter category.Filter) ([]*category.Category, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Type != nil {
		args = append(args, *filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}

	query := `SELECT ` + categoryColumns + ` FROM categories`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list categories", "error", err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*category.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			r.logger.Error("Failed to scan category", "error", err)
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over categories", "error", err)
		return nil, fmt.Errorf("error iterating over categories: %w", err)
	}

	return categories, nil
}

// Update persists every mutable category field
func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	query := `
		UPDATE categories
		SET name = $1, type = $2, parent_id = $3, is_active = $4
		WHERE id = $5
	`

	result, err := r.querier.Exec(ctx, query, c.Name, c.Type, c.ParentID, c.IsActive, c.ID)
	if err != nil {
		if persistence.IsForeignKeyViolation(err) && c.ParentID != nil {
			return category.ErrCategoryNotFound{CategoryID: *c.ParentID}
		}
		r.logger.Error("Failed to update category", "id", c.ID.String(), "error", err)
		return fmt.Errorf("failed to update category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return category.ErrCategoryNotFound{CategoryID: c.ID}
	}

	return nil
}

func scanCategory(row pgx.Row) (*category.Category, error) {
	var c category.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Type, &c.ParentID, &c.IsActive); err != nil {
		return nil, err
	}
	return &c, nil
}
