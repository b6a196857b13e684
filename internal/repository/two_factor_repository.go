package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fintrack/internal/model"
)

// TwoFactorRepository persists two-factor tokens and confirmations.
type TwoFactorRepository interface {
	FindTokenByEmail(ctx context.Context, email string) (*model.TwoFactorToken, error)
	DeleteTokensByEmail(ctx context.Context, email string) error
	CreateToken(ctx context.Context, token *model.TwoFactorToken) error
	DeleteToken(ctx context.Context, id uuid.UUID) error

	DeleteConfirmationByUserID(ctx context.Context, userID uuid.UUID) error
	CreateConfirmation(ctx context.Context, confirmation *model.TwoFactorConfirmation) error
}

type twoFactorRepository struct {
	db *gorm.DB
}

// NewTwoFactorRepository builds a GORM-backed repository.
func NewTwoFactorRepository(db *gorm.DB) TwoFactorRepository {
	return &twoFactorRepository{db: db}
}

func (r *twoFactorRepository) FindTokenByEmail(ctx context.Context, email string) (*model.TwoFactorToken, error) {
	var token model.TwoFactorToken
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *twoFactorRepository) DeleteTokensByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&model.TwoFactorToken{}).Error
}

func (r *twoFactorRepository) CreateToken(ctx context.Context, token *model.TwoFactorToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *twoFactorRepository) DeleteToken(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TwoFactorToken{}).Error
}

func (r *twoFactorRepository) DeleteConfirmationByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.TwoFactorConfirmation{}).Error
}

func (r *twoFactorRepository) CreateConfirmation(ctx context.Context, confirmation *model.TwoFactorConfirmation) error {
	return r.db.WithContext(ctx).Create(confirmation).Error
}
