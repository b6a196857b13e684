package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fintrack/internal/model"
)

// HistoryRepository maintains the month and year rollup rows. Upserts are
// expressed as a single INSERT ... ON DUPLICATE KEY UPDATE so concurrent
// writers on the same key are serialized by the database, not by application
// locks.
type HistoryRepository interface {
	UpsertMonth(ctx context.Context, userID uuid.UUID, year, month, day int, income, expense decimal.Decimal) error
	UpsertYear(ctx context.Context, userID uuid.UUID, year, month int, income, expense decimal.Decimal) error
	DecrementMonth(ctx context.Context, userID uuid.UUID, year, month, day int, txType model.TransactionType, amount decimal.Decimal) error
	DecrementYear(ctx context.Context, userID uuid.UUID, year, month int, txType model.TransactionType, amount decimal.Decimal) error
	FindMonth(ctx context.Context, userID uuid.UUID, year, month, day int) (*model.MonthHistory, error)
	FindYear(ctx context.Context, userID uuid.UUID, year, month int) (*model.YearHistory, error)
	ListMonth(ctx context.Context, userID uuid.UUID, year, month int) ([]model.MonthHistory, error)
	ListYear(ctx context.Context, userID uuid.UUID, year int) ([]model.YearHistory, error)
	DistinctYears(ctx context.Context, userID uuid.UUID) ([]int, error)
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository builds a GORM-backed repository.
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func incrementAssignments(income, expense decimal.Decimal) clause.Set {
	return clause.Assignments(map[string]interface{}{
		"income":  gorm.Expr("income + ?", income),
		"expense": gorm.Expr("expense + ?", expense),
	})
}

func (r *historyRepository) UpsertMonth(ctx context.Context, userID uuid.UUID, year, month, day int, income, expense decimal.Decimal) error {
	row := model.MonthHistory{
		UserID:  userID,
		Year:    year,
		Month:   month,
		Day:     day,
		Income:  income,
		Expense: expense,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "year"}, {Name: "month"}, {Name: "day"},
		},
		DoUpdates: incrementAssignments(income, expense),
	}).Create(&row).Error
}

func (r *historyRepository) UpsertYear(ctx context.Context, userID uuid.UUID, year, month int, income, expense decimal.Decimal) error {
	row := model.YearHistory{
		UserID:  userID,
		Year:    year,
		Month:   month,
		Income:  income,
		Expense: expense,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "year"}, {Name: "month"},
		},
		DoUpdates: incrementAssignments(income, expense),
	}).Create(&row).Error
}

// decrementColumn picks the rollup field matching the transaction type. Only
// that field is touched; there is no floor at zero.
func decrementColumn(txType model.TransactionType, amount decimal.Decimal) map[string]interface{} {
	column := "expense"
	if txType == model.TransactionTypeIncome {
		column = "income"
	}
	return map[string]interface{}{
		column: gorm.Expr(column+" - ?", amount),
	}
}

func (r *historyRepository) DecrementMonth(ctx context.Context, userID uuid.UUID, year, month, day int, txType model.TransactionType, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.MonthHistory{}).
		Where("user_id = ? AND year = ? AND month = ? AND day = ?", userID, year, month, day).
		UpdateColumns(decrementColumn(txType, amount)).Error
}

func (r *historyRepository) DecrementYear(ctx context.Context, userID uuid.UUID, year, month int, txType model.TransactionType, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.YearHistory{}).
		Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		UpdateColumns(decrementColumn(txType, amount)).Error
}

func (r *historyRepository) FindMonth(ctx context.Context, userID uuid.UUID, year, month, day int) (*model.MonthHistory, error) {
	var row model.MonthHistory
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND year = ? AND month = ? AND day = ?", userID, year, month, day).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *historyRepository) FindYear(ctx context.Context, userID uuid.UUID, year, month int) (*model.YearHistory, error) {
	var row model.YearHistory
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *historyRepository) ListMonth(ctx context.Context, userID uuid.UUID, year, month int) ([]model.MonthHistory, error) {
	var rows []model.MonthHistory
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		Order("day ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *historyRepository) ListYear(ctx context.Context, userID uuid.UUID, year int) ([]model.YearHistory, error) {
	var rows []model.YearHistory
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND year = ?", userID, year).
		Order("month ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *historyRepository) DistinctYears(ctx context.Context, userID uuid.UUID) ([]int, error) {
	var years []int
	if err := r.db.WithContext(ctx).Model(&model.MonthHistory{}).
		Distinct("year").
		Where("user_id = ?", userID).
		Order("year ASC").
		Pluck("year", &years).Error; err != nil {
		return nil, err
	}
	return years, nil
}
