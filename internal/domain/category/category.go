// Package category holds the income/expense category registry model.
package category

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Type classifies a category as income or expense. It is a labelling aid only:
// aggregates always classify transactions by their own sign.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

var (
	ErrEmptyName           = errors.New("category name cannot be empty")
	ErrInvalidCategoryType = errors.New("category type must be 'income' or 'expense'")
	ErrSelfParent          = errors.New("category cannot be its own parent")
)

// ParseType validates a raw category type
func ParseType(raw string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeIncome:
		return TypeIncome, nil
	case TypeExpense:
		return TypeExpense, nil
	default:
		return "", ErrInvalidCategoryType
	}
}

// Category is a node in a (possibly chained) self-referential hierarchy
type Category struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Type     Type       `json:"type"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	IsActive bool       `json:"is_active"`
}

// NewCategory creates an active category
func NewCategory(name string, categoryType string, parentID *uuid.UUID) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	t, err := ParseType(categoryType)
	if err != nil {
		return nil, err
	}
	return &Category{
		ID:       uuid.New(),
		Name:     name,
		Type:     t,
		ParentID: parentID,
		IsActive: true,
	}, nil
}

// Patch carries the mutable category fields; nil means "leave unchanged"
type Patch struct {
	Name     *string
	Type     *string
	ParentID *uuid.UUID
	IsActive *bool
}

// Apply updates the category in place
func (c *Category) Apply(p Patch) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return ErrEmptyName
		}
		c.Name = name
	}
	if p.Type != nil {
		t, err := ParseType(*p.Type)
		if err != nil {
			return err
		}
		c.Type = t
	}
	if p.ParentID != nil {
		if *p.ParentID == c.ID {
			return ErrSelfParent
		}
		parent := *p.ParentID
		c.ParentID = &parent
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	return nil
}
