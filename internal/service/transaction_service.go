package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

// CreateTransactionInput carries a validated transaction to be recorded.
type CreateTransactionInput struct {
	Amount      decimal.Decimal
	Type        model.TransactionType
	Category    string
	Date        time.Time
	Description string
}

// TransactionView is a ledger entry with the amount rendered in the user's
// currency.
type TransactionView struct {
	model.Transaction
	FormattedAmount string `json:"formatted_amount"`
}

// ImportResult summarizes a CSV import. Failed rows are skipped, not rolled
// back: the batch carries no cross-row atomicity.
type ImportResult struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}

// TransactionService is the ledger writer. Every create or delete keeps the
// month and year rollups in sync inside a single database transaction, so a
// partial ledger/rollup state is never observable.
type TransactionService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateTransactionInput) (*model.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]TransactionView, error)
	ImportCSV(ctx context.Context, userID uuid.UUID, r io.Reader) (*ImportResult, error)
	ExportCSV(ctx context.Context, userID uuid.UUID, from, to time.Time, w io.Writer) error
}

type transactionService struct {
	transactionRepo repository.TransactionRepository
	categoryRepo    repository.CategoryRepository
	settingsRepo    repository.UserSettingsRepository
	logger          *slog.Logger
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(
	transactionRepo repository.TransactionRepository,
	categoryRepo repository.CategoryRepository,
	settingsRepo repository.UserSettingsRepository,
	logger *slog.Logger,
) TransactionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &transactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		settingsRepo:    settingsRepo,
		logger:          logger,
	}
}

// splitAmount maps a typed amount onto the rollup's (income, expense) pair.
// The non-matching side is a zero increment.
func splitAmount(txType model.TransactionType, amount decimal.Decimal) (income, expense decimal.Decimal) {
	if txType == model.TransactionTypeIncome {
		return amount, decimal.Zero
	}
	return decimal.Zero, amount
}

func (s *transactionService) Create(ctx context.Context, userID uuid.UUID, input CreateTransactionInput) (*model.Transaction, error) {
	if !input.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	category, err := s.categoryRepo.FindByName(ctx, userID, input.Category)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	transaction, err := s.recordTransaction(ctx, userID, input, category)
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// recordTransaction runs the atomic unit: ledger insert plus both rollup
// upserts, all-or-nothing.
func (s *transactionService) recordTransaction(ctx context.Context, userID uuid.UUID, input CreateTransactionInput, category *model.Category) (*model.Transaction, error) {
	transaction := &model.Transaction{
		UserID:       userID,
		Amount:       input.Amount,
		Type:         input.Type,
		Category:     category.Name,
		CategoryIcon: category.Icon,
		Description:  input.Description,
		Date:         input.Date.UTC(),
	}

	income, expense := splitAmount(input.Type, input.Amount)
	date := transaction.Date

	err := s.transactionRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.TransactionRepository, historyRepo repository.HistoryRepository) error {
		if err := txRepo.Create(ctx, transaction); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		if err := historyRepo.UpsertMonth(ctx, userID, date.Year(), int(date.Month()), date.Day(), income, expense); err != nil {
			return fmt.Errorf("upsert month history: %w", err)
		}
		if err := historyRepo.UpsertYear(ctx, userID, date.Year(), int(date.Month()), income, expense); err != nil {
			return fmt.Errorf("upsert year history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

func (s *transactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	transaction, err := s.transactionRepo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrTransactionNotFound
		}
		return fmt.Errorf("find transaction: %w", err)
	}

	date := transaction.Date.UTC()
	return s.transactionRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.TransactionRepository, historyRepo repository.HistoryRepository) error {
		if err := txRepo.Delete(ctx, id, userID); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		if err := historyRepo.DecrementMonth(ctx, userID, date.Year(), int(date.Month()), date.Day(), transaction.Type, transaction.Amount); err != nil {
			return fmt.Errorf("decrement month history: %w", err)
		}
		if err := historyRepo.DecrementYear(ctx, userID, date.Year(), int(date.Month()), transaction.Type, transaction.Amount); err != nil {
			return fmt.Errorf("decrement year history: %w", err)
		}
		return nil
	})
}

func (s *transactionService) List(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]TransactionView, error) {
	currency := model.DefaultCurrency
	if settings, err := s.settingsRepo.FindByUserID(ctx, userID); err == nil {
		currency = settings.Currency
	}

	transactions, err := s.transactionRepo.ListByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	views := make([]TransactionView, 0, len(transactions))
	for _, t := range transactions {
		views = append(views, TransactionView{
			Transaction:     t,
			FormattedAmount: fmt.Sprintf("%s %s", currency, t.Amount.StringFixed(2)),
		})
	}
	return views, nil
}

// csvHeader is the import/export column layout.
var csvHeader = []string{"date", "category", "title", "amount"}

// ImportCSV replays the create unit per row. Negative amounts are income,
// non-negative are expense; the absolute value is stored. Unknown categories
// are created on the fly with an empty icon. A bad row is logged and skipped.
func (s *transactionService) ImportCSV(ctx context.Context, userID uuid.UUID, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)
	reader.TrimLeadingSpace = true

	result := &ImportResult{}
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			s.logger.Warn("skipping malformed csv row", "line", line, "error", err)
			result.Failed++
			continue
		}
		if line == 1 && strings.EqualFold(record[0], csvHeader[0]) {
			continue // header row
		}

		if err := s.importRow(ctx, userID, record); err != nil {
			s.logger.Warn("skipping csv row", "line", line, "title", record[2], "error", err)
			result.Failed++
			continue
		}
		result.Imported++
	}
	return result, nil
}

func (s *transactionService) importRow(ctx context.Context, userID uuid.UUID, record []string) error {
	date, err := parseCSVDate(record[0])
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", record[0], err)
	}

	title := strings.TrimSpace(record[2])
	if title == "" {
		return fmt.Errorf("empty title")
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(record[3]))
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", record[3], err)
	}

	txType := model.TransactionTypeExpense
	if amount.IsNegative() {
		txType = model.TransactionTypeIncome
	}
	amount = amount.Abs()
	if amount.IsZero() {
		return apperrors.ErrInvalidAmount
	}

	category, err := s.findOrCreateCategory(ctx, userID, strings.TrimSpace(record[1]), txType)
	if err != nil {
		return err
	}

	_, err = s.recordTransaction(ctx, userID, CreateTransactionInput{
		Amount:      amount,
		Type:        txType,
		Category:    category.Name,
		Date:        date,
		Description: title,
	}, category)
	return err
}

func (s *transactionService) findOrCreateCategory(ctx context.Context, userID uuid.UUID, name string, txType model.TransactionType) (*model.Category, error) {
	category, err := s.categoryRepo.FindByName(ctx, userID, name)
	if err == nil {
		return category, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("find category: %w", err)
	}

	category = &model.Category{
		UserID: userID,
		Name:   name,
		Type:   txType,
		Icon:   "",
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// ExportCSV writes the user's transactions in the import layout: income rows
// carry negative amounts so an export round-trips through ImportCSV.
func (s *transactionService) ExportCSV(ctx context.Context, userID uuid.UUID, from, to time.Time, w io.Writer) error {
	transactions, err := s.transactionRepo.ListByDateRange(ctx, userID, from, to)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range transactions {
		amount := t.Amount
		if t.Type == model.TransactionTypeIncome {
			amount = amount.Neg()
		}
		record := []string{
			t.Date.UTC().Format("2006-01-02"),
			t.Category,
			t.Description,
			amount.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func parseCSVDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format")
}
