package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fintrack/internal/model"
)

// UserSettingsRepository defines settings persistence operations.
type UserSettingsRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.UserSettings, error)
	Create(ctx context.Context, settings *model.UserSettings) error
	Update(ctx context.Context, settings *model.UserSettings) error
}

type userSettingsRepository struct {
	db *gorm.DB
}

// NewUserSettingsRepository builds a GORM-backed repository.
func NewUserSettingsRepository(db *gorm.DB) UserSettingsRepository {
	return &userSettingsRepository{db: db}
}

func (r *userSettingsRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.UserSettings, error) {
	var settings model.UserSettings
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *userSettingsRepository) Create(ctx context.Context, settings *model.UserSettings) error {
	return r.db.WithContext(ctx).Create(settings).Error
}

func (r *userSettingsRepository) Update(ctx context.Context, settings *model.UserSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
