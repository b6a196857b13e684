package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fintrack/internal/model"
)

// VerificationTokenRepository persists email verification tokens.
type VerificationTokenRepository interface {
	FindByToken(ctx context.Context, token string) (*model.VerificationToken, error)
	DeleteByEmail(ctx context.Context, email string) error
	Create(ctx context.Context, token *model.VerificationToken) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type verificationTokenRepository struct {
	db *gorm.DB
}

// NewVerificationTokenRepository builds a GORM-backed repository.
func NewVerificationTokenRepository(db *gorm.DB) VerificationTokenRepository {
	return &verificationTokenRepository{db: db}
}

func (r *verificationTokenRepository) FindByToken(ctx context.Context, token string) (*model.VerificationToken, error) {
	var row model.VerificationToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *verificationTokenRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&model.VerificationToken{}).Error
}

func (r *verificationTokenRepository) Create(ctx context.Context, token *model.VerificationToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *verificationTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.VerificationToken{}).Error
}
