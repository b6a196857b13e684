package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

// CategoryService handles category management. Uniqueness is per
// (user, name, type); deleting a category never touches historical
// transactions, which only hold a name/icon snapshot.
type CategoryService interface {
	List(ctx context.Context, userID uuid.UUID, categoryType model.TransactionType) ([]model.Category, error)
	Create(ctx context.Context, userID uuid.UUID, name, icon string, categoryType model.TransactionType) (*model.Category, error)
	Delete(ctx context.Context, userID uuid.UUID, name string, categoryType model.TransactionType) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, userID uuid.UUID, categoryType model.TransactionType) ([]model.Category, error) {
	return s.repo.List(ctx, userID, categoryType)
}

func (s *categoryService) Create(ctx context.Context, userID uuid.UUID, name, icon string, categoryType model.TransactionType) (*model.Category, error) {
	existing, err := s.repo.FindByNameAndType(ctx, userID, name, categoryType)
	if err == nil && existing != nil {
		return nil, apperrors.ErrCategoryExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check category existence: %w", err)
	}

	category := &model.Category{
		UserID: userID,
		Name:   name,
		Icon:   icon,
		Type:   categoryType,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, userID uuid.UUID, name string, categoryType model.TransactionType) error {
	affected, err := s.repo.DeleteByNameAndType(ctx, userID, name, categoryType)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
