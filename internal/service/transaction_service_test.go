package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/model"
)

func newMockTransactionRepo() *MockTransactionRepository {
	return &MockTransactionRepository{History: new(MockHistoryRepository)}
}

func TestTransactionService_Create(t *testing.T) {
	userID := uuid.New()
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	t.Run("income of 100 raises both rollup income fields by 100", func(t *testing.T) {
		mockTxRepo := newMockTransactionRepo()
		mockCatRepo := new(MockCategoryRepository)

		mockCatRepo.On("FindByName", mock.Anything, userID, "Salary").Return(&model.Category{
			UserID: userID,
			Name:   "Salary",
			Icon:   "💰",
			Type:   model.TransactionTypeIncome,
		}, nil)
		mockTxRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockTxRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Transaction")).Return(nil)
		mockTxRepo.History.On("UpsertMonth", mock.Anything, userID, 2024, 3, 5, decimal.NewFromInt(100), decimal.Zero).Return(nil)
		mockTxRepo.History.On("UpsertYear", mock.Anything, userID, 2024, 3, decimal.NewFromInt(100), decimal.Zero).Return(nil)

		service := NewTransactionService(mockTxRepo, mockCatRepo, new(MockUserSettingsRepository), nil)
		transaction, err := service.Create(context.Background(), userID, CreateTransactionInput{
			Amount:      decimal.NewFromInt(100),
			Type:        model.TransactionTypeIncome,
			Category:    "Salary",
			Date:        date,
			Description: "March salary",
		})

		assert.NoError(t, err)
		assert.NotNil(t, transaction)
		assert.Equal(t, "Salary", transaction.Category)
		assert.Equal(t, "💰", transaction.CategoryIcon)
		mockTxRepo.AssertExpectations(t)
		mockTxRepo.History.AssertExpectations(t)
		mockCatRepo.AssertExpectations(t)
	})

	t.Run("expense of 50 raises only the expense fields", func(t *testing.T) {
		expenseDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
		mockTxRepo := newMockTransactionRepo()
		mockCatRepo := new(MockCategoryRepository)

		mockCatRepo.On("FindByName", mock.Anything, userID, "Groceries").Return(&model.Category{
			UserID: userID,
			Name:   "Groceries",
			Type:   model.TransactionTypeExpense,
		}, nil)
		mockTxRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockTxRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Transaction")).Return(nil)
		mockTxRepo.History.On("UpsertMonth", mock.Anything, userID, 2024, 1, 10, decimal.Zero, decimal.NewFromInt(50)).Return(nil)
		mockTxRepo.History.On("UpsertYear", mock.Anything, userID, 2024, 1, decimal.Zero, decimal.NewFromInt(50)).Return(nil)

		service := NewTransactionService(mockTxRepo, mockCatRepo, new(MockUserSettingsRepository), nil)
		_, err := service.Create(context.Background(), userID, CreateTransactionInput{
			Amount:   decimal.NewFromInt(50),
			Type:     model.TransactionTypeExpense,
			Category: "Groceries",
			Date:     expenseDate,
		})

		assert.NoError(t, err)
		mockTxRepo.History.AssertExpectations(t)
	})

	t.Run("unknown category", func(t *testing.T) {
		mockTxRepo := newMockTransactionRepo()
		mockCatRepo := new(MockCategoryRepository)
		mockCatRepo.On("FindByName", mock.Anything, userID, "Nope").Return(nil, gorm.ErrRecordNotFound)

		service := NewTransactionService(mockTxRepo, mockCatRepo, new(MockUserSettingsRepository), nil)
		_, err := service.Create(context.Background(), userID, CreateTransactionInput{
			Amount:   decimal.NewFromInt(10),
			Type:     model.TransactionTypeExpense,
			Category: "Nope",
			Date:     date,
		})

		assert.Equal(t, apperrors.ErrCategoryNotFound, err)
		mockTxRepo.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		service := NewTransactionService(newMockTransactionRepo(), new(MockCategoryRepository), new(MockUserSettingsRepository), nil)

		_, err := service.Create(context.Background(), userID, CreateTransactionInput{
			Amount:   decimal.Zero,
			Type:     model.TransactionTypeExpense,
			Category: "Groceries",
			Date:     date,
		})
		assert.Equal(t, apperrors.ErrInvalidAmount, err)

		_, err = service.Create(context.Background(), userID, CreateTransactionInput{
			Amount:   decimal.NewFromInt(-5),
			Type:     model.TransactionTypeExpense,
			Category: "Groceries",
			Date:     date,
		})
		assert.Equal(t, apperrors.ErrInvalidAmount, err)
	})

	t.Run("rollup failure rolls the whole unit back", func(t *testing.T) {
		mockTxRepo := newMockTransactionRepo()
		mockCatRepo := new(MockCategoryRepository)

		mockCatRepo.On("FindByName", mock.Anything, userID, "Salary").Return(&model.Category{
			UserID: userID,
			Name:   "Salary",
			Type:   model.TransactionTypeIncome,
		}, nil)
		mockTxRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockTxRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Transaction")).Return(nil)
		mockTxRepo.History.On("UpsertMonth", mock.Anything, userID, 2024, 3, 5, mock.Anything, mock.Anything).Return(gorm.ErrInvalidDB)

		service := NewTransactionService(mockTxRepo, mockCatRepo, new(MockUserSettingsRepository), nil)
		_, err := service.Create(context.Background(), userID, CreateTransactionInput{
			Amount:   decimal.NewFromInt(100),
			Type:     model.TransactionTypeIncome,
			Category: "Salary",
			Date:     date,
		})

		assert.Error(t, err)
		mockTxRepo.History.AssertNotCalled(t, "UpsertYear", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTransactionService_Delete(t *testing.T) {
	userID := uuid.New()
	transactionID := uuid.New()
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	t.Run("delete reverses only the matching rollup field", func(t *testing.T) {
		mockTxRepo := newMockTransactionRepo()
		mockTxRepo.On("FindByIDAndUser", mock.Anything, transactionID, userID).Return(&model.Transaction{
			ID:     transactionID,
			UserID: userID,
			Amount: decimal.NewFromInt(100),
			Type:   model.TransactionTypeIncome,
			Date:   date,
		}, nil)
		mockTxRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockTxRepo.On("Delete", mock.Anything, transactionID, userID).Return(nil)
		mockTxRepo.History.On("DecrementMonth", mock.Anything, userID, 2024, 3, 5, model.TransactionTypeIncome, decimal.NewFromInt(100)).Return(nil)
		mockTxRepo.History.On("DecrementYear", mock.Anything, userID, 2024, 3, model.TransactionTypeIncome, decimal.NewFromInt(100)).Return(nil)

		service := NewTransactionService(mockTxRepo, new(MockCategoryRepository), new(MockUserSettingsRepository), nil)
		err := service.Delete(context.Background(), userID, transactionID)

		assert.NoError(t, err)
		mockTxRepo.AssertExpectations(t)
		mockTxRepo.History.AssertExpectations(t)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		mockTxRepo := newMockTransactionRepo()
		mockTxRepo.On("FindByIDAndUser", mock.Anything, transactionID, userID).Return(nil, gorm.ErrRecordNotFound)

		service := NewTransactionService(mockTxRepo, new(MockCategoryRepository), new(MockUserSettingsRepository), nil)
		err := service.Delete(context.Background(), userID, transactionID)

		assert.Equal(t, apperrors.ErrTransactionNotFound, err)
		mockTxRepo.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
	})
}

func TestTransactionService_List(t *testing.T) {
	userID := uuid.New()
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	mockTxRepo := newMockTransactionRepo()
	mockSettingsRepo := new(MockUserSettingsRepository)

	mockSettingsRepo.On("FindByUserID", mock.Anything, userID).Return(&model.UserSettings{
		UserID:   userID,
		Currency: "EUR",
	}, nil)
	mockTxRepo.On("ListByDateRange", mock.Anything, userID, from, to).Return([]model.Transaction{
		{Amount: decimal.NewFromInt(100), Type: model.TransactionTypeIncome, Category: "Salary"},
		{Amount: decimal.RequireFromString("12.5"), Type: model.TransactionTypeExpense, Category: "Groceries"},
	}, nil)

	service := NewTransactionService(mockTxRepo, new(MockCategoryRepository), mockSettingsRepo, nil)
	views, err := service.List(context.Background(), userID, from, to)

	assert.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, "EUR 100.00", views[0].FormattedAmount)
	assert.Equal(t, "EUR 12.50", views[1].FormattedAmount)
}

func TestTransactionService_ImportCSV(t *testing.T) {
	userID := uuid.New()

	t.Run("negative amounts import as income, positive as expense", func(t *testing.T) {
		input := strings.Join([]string{
			"date,category,title,amount",
			"2024-03-05,Salary,March salary,-100.00",
			"2024-03-06,Groceries,Weekly shop,42.50",
		}, "\n")

		mockTxRepo := newMockTransactionRepo()
		mockCatRepo := new(MockCategoryRepository)

		mockCatRepo.On("FindByName", mock.Anything, userID, "Salary").Return(&model.Category{
			UserID: userID, Name: "Salary", Type: model.TransactionTypeIncome,
		}, nil)
		mockCatRepo.On("FindByName", mock.Anything, userID, "Groceries").Return(&model.Category{
			UserID: userID, Name: "Groceries", Type: model.TransactionTypeExpense,
		}, nil)

		mockTxRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockTxRepo.On("Create", mock.Anything, mock.MatchedBy(func(tr *model.Transaction) bool {
			// Stored amounts are absolute values.
			return tr.Amount.IsPositive()
		})).Return(nil)
		mockTxRepo.History.On("UpsertMonth", mock.Anything, userID, 2024, 3, 5, decimal.RequireFromString("100.00"), decimal.Zero).Return(nil)
		mockTxRepo.History.On("UpsertYear", mock.Anything, userID, 2024, 3, decimal.RequireFromString("100.00"), decimal.Zero).Return(nil)
		mockTxRepo.History.On("UpsertMonth", mock.Anything, userID, 2024, 3, 6, decimal.Zero, decimal.RequireFromString("42.50")).Return(nil)
		mockTxRepo.History.On("UpsertYear", mock.Anything, userID, 2024, 3, decimal.Zero, decimal.RequireFromString("42.50")).Return(nil)

		service := NewTransactionService(mockTxRepo, mockCatRepo, new(MockUserSettingsRepository), nil)
		result, err := service.ImportCSV(context.Background(), userID, strings.NewReader(input))

		assert.NoError(t, err)
		assert.Equal(t, 2, result.Imported)
		assert.Equal(t, 0, result.Failed)
		mockTxRepo.History.AssertExpectations(t)
	})

	t.Run("unknown category is created with an empty icon", func(t *testing.T) {
		input := "2024-03-05,Sidework,Consulting,-200\n"

		mockTxRepo := newMockTransactionRepo()
		mockCatRepo := new(MockCategoryRepository)

		mockCatRepo.On("FindByName", mock.Anything, userID, "Sidework").Return(nil, gorm.ErrRecordNotFound)
		mockCatRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Category) bool {
			return c.Name == "Sidework" && c.Icon == "" && c.Type == model.TransactionTypeIncome
		})).Return(nil)
		mockTxRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockTxRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Transaction")).Return(nil)
		mockTxRepo.History.On("UpsertMonth", mock.Anything, userID, 2024, 3, 5, mock.Anything, mock.Anything).Return(nil)
		mockTxRepo.History.On("UpsertYear", mock.Anything, userID, 2024, 3, mock.Anything, mock.Anything).Return(nil)

		service := NewTransactionService(mockTxRepo, mockCatRepo, new(MockUserSettingsRepository), nil)
		result, err := service.ImportCSV(context.Background(), userID, strings.NewReader(input))

		assert.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
		mockCatRepo.AssertExpectations(t)
	})

	t.Run("bad rows are skipped, good rows still land", func(t *testing.T) {
		input := strings.Join([]string{
			"date,category,title,amount",
			"not-a-date,Groceries,Broken row,10",
			"2024-03-06,Groceries,,10",
			"2024-03-06,Groceries,Zero row,0",
			"2024-03-06,Groceries,Good row,10",
		}, "\n")

		mockTxRepo := newMockTransactionRepo()
		mockCatRepo := new(MockCategoryRepository)

		mockCatRepo.On("FindByName", mock.Anything, userID, "Groceries").Return(&model.Category{
			UserID: userID, Name: "Groceries", Type: model.TransactionTypeExpense,
		}, nil)
		mockTxRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		mockTxRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Transaction")).Return(nil)
		mockTxRepo.History.On("UpsertMonth", mock.Anything, userID, 2024, 3, 6, mock.Anything, mock.Anything).Return(nil)
		mockTxRepo.History.On("UpsertYear", mock.Anything, userID, 2024, 3, mock.Anything, mock.Anything).Return(nil)

		service := NewTransactionService(mockTxRepo, mockCatRepo, new(MockUserSettingsRepository), nil)
		result, err := service.ImportCSV(context.Background(), userID, strings.NewReader(input))

		assert.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
		assert.Equal(t, 3, result.Failed)
	})
}

func TestTransactionService_ExportCSV(t *testing.T) {
	userID := uuid.New()
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	mockTxRepo := newMockTransactionRepo()
	mockTxRepo.On("ListByDateRange", mock.Anything, userID, from, to).Return([]model.Transaction{
		{
			Amount:      decimal.NewFromInt(100),
			Type:        model.TransactionTypeIncome,
			Category:    "Salary",
			Description: "March salary",
			Date:        time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			Amount:      decimal.RequireFromString("42.5"),
			Type:        model.TransactionTypeExpense,
			Category:    "Groceries",
			Description: "Weekly shop",
			Date:        time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
		},
	}, nil)

	service := NewTransactionService(mockTxRepo, new(MockCategoryRepository), new(MockUserSettingsRepository), nil)

	var buf bytes.Buffer
	err := service.ExportCSV(context.Background(), userID, from, to, &buf)

	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "date,category,title,amount", lines[0])
	// Income is exported negative so the file round-trips through import.
	assert.Equal(t, "2024-03-05,Salary,March salary,-100.00", lines[1])
	assert.Equal(t, "2024-03-06,Groceries,Weekly shop,42.50", lines[2])
}
