package category

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows List results
type Filter struct {
	Type       *Type
	ActiveOnly bool
}

// Repository defines category persistence operations
type Repository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Category, error)
	List(ctx context.Context, filter Filter) ([]*Category, error)
	Update(ctx context.Context, category *Category) error
}

// ErrCategoryNotFound indicates a missing category, or an inactive one where activity is required
type ErrCategoryNotFound struct {
	CategoryID uuid.UUID
}

func (e ErrCategoryNotFound) Error() string {
	return "category not found: " + e.CategoryID.String()
}

// Is matches any ErrCategoryNotFound when the target carries no category ID
func (e ErrCategoryNotFound) Is(target error) bool {
	t, ok := target.(ErrCategoryNotFound)
	if !ok {
		return false
	}
	if t.CategoryID == uuid.Nil {
		return true
	}
	return e.CategoryID == t.CategoryID
}
