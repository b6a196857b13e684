package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/model"
)

// TypeSum is one row of a per-type aggregate query.
type TypeSum struct {
	Type  model.TransactionType `json:"type"`
	Total decimal.Decimal       `json:"total"`
}

// CategorySum is one row of a per-category aggregate query.
type CategorySum struct {
	Type         model.TransactionType `json:"type"`
	Category     string                `json:"category"`
	CategoryIcon string                `json:"category_icon"`
	Total        decimal.Decimal       `json:"total"`
}

// TransactionRepository defines ledger persistence operations.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *model.Transaction) error
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Transaction, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	ListByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.Transaction, error)
	SumByType(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]TypeSum, error)
	SumByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]CategorySum, error)
	// WithTransaction runs fn inside one database transaction, handing it
	// ledger and rollup repositories bound to that transaction. Any error
	// rolls back every write fn performed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, txRepo TransactionRepository, historyRepo HistoryRepository) error) error
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository builds a GORM-backed repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *model.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&transaction).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Transaction{}).Error
}

func (r *transactionRepository) ListByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.Transaction, error) {
	var transactions []model.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *transactionRepository) SumByType(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]TypeSum, error) {
	var sums []TypeSum
	if err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Group("type").
		Scan(&sums).Error; err != nil {
		return nil, err
	}
	return sums, nil
}

func (r *transactionRepository) SumByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]CategorySum, error) {
	var sums []CategorySum
	if err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("type, category, category_icon, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Group("type, category, category_icon").
		Order("total DESC").
		Scan(&sums).Error; err != nil {
		return nil, err
	}
	return sums, nil
}

func (r *transactionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, txRepo TransactionRepository, historyRepo HistoryRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &transactionRepository{db: tx}, &historyRepository{db: tx})
	})
}
