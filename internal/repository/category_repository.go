package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fintrack/internal/model"
)

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByName(ctx context.Context, userID uuid.UUID, name string) (*model.Category, error)
	FindByNameAndType(ctx context.Context, userID uuid.UUID, name string, categoryType model.TransactionType) (*model.Category, error)
	List(ctx context.Context, userID uuid.UUID, categoryType model.TransactionType) ([]model.Category, error)
	DeleteByNameAndType(ctx context.Context, userID uuid.UUID, name string, categoryType model.TransactionType) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository builds a GORM-backed repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) FindByName(ctx context.Context, userID uuid.UUID, name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByNameAndType(ctx context.Context, userID uuid.UUID, name string, categoryType model.TransactionType) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ? AND type = ?", userID, name, categoryType).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns the user's categories ordered by name. When categoryType is
// empty, categories of both types are returned.
func (r *categoryRepository) List(ctx context.Context, userID uuid.UUID, categoryType model.TransactionType) ([]model.Category, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if categoryType != "" {
		q = q.Where("type = ?", categoryType)
	}

	var categories []model.Category
	if err := q.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) DeleteByNameAndType(ctx context.Context, userID uuid.UUID, name string, categoryType model.TransactionType) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ? AND type = ?", userID, name, categoryType).
		Delete(&model.Category{})
	return res.RowsAffected, res.Error
}
