package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"fintrack/internal/model"
	"fintrack/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTwoFactorRepository is a mock implementation of TwoFactorRepository.
type MockTwoFactorRepository struct {
	mock.Mock
}

func (m *MockTwoFactorRepository) FindTokenByEmail(ctx context.Context, email string) (*model.TwoFactorToken, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TwoFactorToken), args.Error(1)
}

func (m *MockTwoFactorRepository) DeleteTokensByEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockTwoFactorRepository) CreateToken(ctx context.Context, token *model.TwoFactorToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTwoFactorRepository) DeleteToken(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTwoFactorRepository) DeleteConfirmationByUserID(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockTwoFactorRepository) CreateConfirmation(ctx context.Context, confirmation *model.TwoFactorConfirmation) error {
	args := m.Called(ctx, confirmation)
	return args.Error(0)
}

// MockVerificationTokenRepository is a mock implementation of VerificationTokenRepository.
type MockVerificationTokenRepository struct {
	mock.Mock
}

func (m *MockVerificationTokenRepository) FindByToken(ctx context.Context, token string) (*model.VerificationToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerificationToken), args.Error(1)
}

func (m *MockVerificationTokenRepository) DeleteByEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockVerificationTokenRepository) Create(ctx context.Context, token *model.VerificationToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockVerificationTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, userID uuid.UUID, name string) (*model.Category, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByNameAndType(ctx context.Context, userID uuid.UUID, name string, categoryType model.TransactionType) (*model.Category, error) {
	args := m.Called(ctx, userID, name, categoryType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context, userID uuid.UUID, categoryType model.TransactionType) ([]model.Category, error) {
	args := m.Called(ctx, userID, categoryType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) DeleteByNameAndType(ctx context.Context, userID uuid.UUID, name string, categoryType model.TransactionType) (int64, error) {
	args := m.Called(ctx, userID, name, categoryType)
	return args.Get(0).(int64), args.Error(1)
}

// MockHistoryRepository is a mock implementation of HistoryRepository.
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) UpsertMonth(ctx context.Context, userID uuid.UUID, year, month, day int, income, expense decimal.Decimal) error {
	args := m.Called(ctx, userID, year, month, day, income, expense)
	return args.Error(0)
}

func (m *MockHistoryRepository) UpsertYear(ctx context.Context, userID uuid.UUID, year, month int, income, expense decimal.Decimal) error {
	args := m.Called(ctx, userID, year, month, income, expense)
	return args.Error(0)
}

func (m *MockHistoryRepository) DecrementMonth(ctx context.Context, userID uuid.UUID, year, month, day int, txType model.TransactionType, amount decimal.Decimal) error {
	args := m.Called(ctx, userID, year, month, day, txType, amount)
	return args.Error(0)
}

func (m *MockHistoryRepository) DecrementYear(ctx context.Context, userID uuid.UUID, year, month int, txType model.TransactionType, amount decimal.Decimal) error {
	args := m.Called(ctx, userID, year, month, txType, amount)
	return args.Error(0)
}

func (m *MockHistoryRepository) FindMonth(ctx context.Context, userID uuid.UUID, year, month, day int) (*model.MonthHistory, error) {
	args := m.Called(ctx, userID, year, month, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MonthHistory), args.Error(1)
}

func (m *MockHistoryRepository) FindYear(ctx context.Context, userID uuid.UUID, year, month int) (*model.YearHistory, error) {
	args := m.Called(ctx, userID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.YearHistory), args.Error(1)
}

func (m *MockHistoryRepository) ListMonth(ctx context.Context, userID uuid.UUID, year, month int) ([]model.MonthHistory, error) {
	args := m.Called(ctx, userID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MonthHistory), args.Error(1)
}

func (m *MockHistoryRepository) ListYear(ctx context.Context, userID uuid.UUID, year int) ([]model.YearHistory, error) {
	args := m.Called(ctx, userID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.YearHistory), args.Error(1)
}

func (m *MockHistoryRepository) DistinctYears(ctx context.Context, userID uuid.UUID) ([]int, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
// WithTransaction runs the closure against the mock itself and the History
// field, so tests can assert the writes made inside the transaction.
type MockTransactionRepository struct {
	mock.Mock
	History *MockHistoryRepository
}

func (m *MockTransactionRepository) Create(ctx context.Context, transaction *model.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Transaction, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.Transaction, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumByType(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]repository.TypeSum, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.TypeSum), args.Error(1)
}

func (m *MockTransactionRepository) SumByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]repository.CategorySum, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CategorySum), args.Error(1)
}

func (m *MockTransactionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, txRepo repository.TransactionRepository, historyRepo repository.HistoryRepository) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m, m.History)
}

// MockUserSettingsRepository is a mock implementation of UserSettingsRepository.
type MockUserSettingsRepository struct {
	mock.Mock
}

func (m *MockUserSettingsRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.UserSettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSettings), args.Error(1)
}

func (m *MockUserSettingsRepository) Create(ctx context.Context, settings *model.UserSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockUserSettingsRepository) Update(ctx context.Context, settings *model.UserSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID string, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// MockMailer is a mock implementation of mail.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendTwoFactorCode(email, code string) error {
	args := m.Called(email, code)
	return args.Error(0)
}

func (m *MockMailer) SendVerificationLink(email, link string) error {
	args := m.Called(email, link)
	return args.Error(0)
}

// MockTwoFactorService is a mock implementation of TwoFactorService.
type MockTwoFactorService struct {
	mock.Mock
}

func (m *MockTwoFactorService) Issue(ctx context.Context, email string) (*model.TwoFactorToken, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TwoFactorToken), args.Error(1)
}

func (m *MockTwoFactorService) Validate(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *MockTwoFactorService) Confirm(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockVerificationSender is a mock implementation of verificationSender.
type MockVerificationSender struct {
	mock.Mock
}

func (m *MockVerificationSender) SendVerification(ctx context.Context, userID uuid.UUID, email string) error {
	args := m.Called(ctx, userID, email)
	return args.Error(0)
}
