package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/moneyflow-ledger/internal/domain/category"
)

// CategoryServiceImpl implements the CategoryService interface
type CategoryServiceImpl struct {
	categoryRepo category.Repository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo category.Repository) CategoryService {
	return &CategoryServiceImpl{
		categoryRepo: categoryRepo,
	}
}

// CreateCategory stores a new category; a parent that does not exist yields ErrCategoryNotFound
func (s *CategoryServiceImpl) CreateCategory(ctx context.Context, name, categoryType string, parentID *uuid.UUID) (*category.Category, error) {
	c, err := category.NewCategory(name, categoryType, parentID)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryServiceImpl) GetCategory(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *CategoryServiceImpl) ListCategories(ctx context.Context, filter category.Filter) ([]*category.Category, error) {
	return s.categoryRepo.List(ctx, filter)
}

// UpdateCategory applies the patch. Posted transactions are never reclassified by a type change.
func (s *CategoryServiceImpl) UpdateCategory(ctx context.Context, id uuid.UUID, patch category.Patch) (*category.Category, error) {
	c, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryServiceImpl) DeactivateCategory(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	inactive := false
	return s.UpdateCategory(ctx, id, category.Patch{IsActive: &inactive})
}
