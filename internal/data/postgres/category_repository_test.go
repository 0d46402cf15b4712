package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneyflow-ledger/internal/domain/category"
)

var categoryRowColumns = []string{"id", "name", "type", "parent_id", "is_active"}

func TestCategoryRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &CategoryRepository{querier: mock, logger: newTestLogger()}
	parentID := uuid.New()
	c := &category.Category{ID: uuid.New(), Name: "Food", Type: category.TypeExpense, ParentID: &parentID, IsActive: true}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(quoted("INSERT INTO categories")).
			WithArgs(c.ID, c.Name, c.Type, c.ParentID, c.IsActive).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, repo.Create(ctx, c))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown parent", func(t *testing.T) {
		mock.ExpectExec(quoted("INSERT INTO categories")).
			WithArgs(c.ID, c.Name, c.Type, c.ParentID, c.IsActive).
			WillReturnError(&pgconn.PgError{Code: "23503"})

		err := repo.Create(ctx, c)
		assert.ErrorIs(t, err, category.ErrCategoryNotFound{CategoryID: parentID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategoryRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &CategoryRepository{querier: mock, logger: newTestLogger()}
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		rows := pgxmock.NewRows(categoryRowColumns).AddRow(id, "Salary", category.TypeIncome, nil, true)
		mock.ExpectQuery(quoted("FROM categories WHERE id = $1")).WithArgs(id).WillReturnRows(rows)

		c, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Salary", c.Name)
		assert.Equal(t, category.TypeIncome, c.Type)
		assert.Nil(t, c.ParentID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(quoted("FROM categories WHERE id = $1")).WithArgs(id).WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, category.ErrCategoryNotFound{CategoryID: id})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategoryRepository_GetByIDs(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &CategoryRepository{querier: mock, logger: newTestLogger()}

	t.Run("empty input skips query", func(t *testing.T) {
		result, err := repo.GetByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps by id", func(t *testing.T) {
		a, b := uuid.New(), uuid.New()
		rows := pgxmock.NewRows(categoryRowColumns).
			AddRow(a, "Food", category.TypeExpense, nil, true).
			AddRow(b, "Taxi", category.TypeExpense, nil, false)
		mock.ExpectQuery(quoted("WHERE id = ANY($1)")).WithArgs([]uuid.UUID{a, b}).WillReturnRows(rows)

		result, err := repo.GetByIDs(ctx, []uuid.UUID{a, b})
		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "Food", result[a].Name)
		assert.Equal(t, "Taxi", result[b].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategoryRepository_List(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &CategoryRepository{querier: mock, logger: newTestLogger()}

	t.Run("type and active filter", func(t *testing.T) {
		expense := category.TypeExpense
		rows := pgxmock.NewRows(categoryRowColumns).AddRow(uuid.New(), "Food", category.TypeExpense, nil, true)
		mock.ExpectQuery(quoted("FROM categories WHERE type = $1 AND is_active = TRUE ORDER BY name")).
			WithArgs(expense).
			WillReturnRows(rows)

		categories, err := repo.List(ctx, category.Filter{Type: &expense, ActiveOnly: true})
		require.NoError(t, err)
		assert.Len(t, categories, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(quoted("FROM categories ORDER BY name")).WillReturnError(errors.New("down"))

		_, err := repo.List(ctx, category.Filter{})
		assert.ErrorContains(t, err, "failed to list categories")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategoryRepository_Update(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &CategoryRepository{querier: mock, logger: newTestLogger()}
	c := &category.Category{ID: uuid.New(), Name: "Food", Type: category.TypeIncome, IsActive: false}

	mock.ExpectExec(quoted("UPDATE categories")).
		WithArgs(c.Name, c.Type, c.ParentID, c.IsActive, c.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.Update(ctx, c)
	assert.ErrorIs(t, err, category.ErrCategoryNotFound{CategoryID: c.ID})
	assert.NoError(t, mock.ExpectationsWereMet())
}
