package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/model"
	"fintrack/internal/repository"
)

// Timeframe selects the granularity of a history query.
type Timeframe string

const (
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// BalanceStats is the income/expense split over a date range.
type BalanceStats struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Balance returns income minus expense.
func (b BalanceStats) Balance() decimal.Decimal {
	return b.Income.Sub(b.Expense)
}

// HistoryPoint is one bucket of rollup data. Day is zero for year-timeframe
// points.
type HistoryPoint struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Day     int             `json:"day,omitempty"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// StatsService derives read-only aggregates from the ledger and its rollups.
type StatsService interface {
	Balance(ctx context.Context, userID uuid.UUID, from, to time.Time) (*BalanceStats, error)
	ByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]repository.CategorySum, error)
	HistoryPeriods(ctx context.Context, userID uuid.UUID) ([]int, error)
	HistoryData(ctx context.Context, userID uuid.UUID, timeframe Timeframe, year, month int) ([]HistoryPoint, error)
}

type statsService struct {
	transactionRepo repository.TransactionRepository
	historyRepo     repository.HistoryRepository
	now             func() time.Time
}

// NewStatsService creates a new statistics service.
func NewStatsService(transactionRepo repository.TransactionRepository, historyRepo repository.HistoryRepository) StatsService {
	return &statsService{
		transactionRepo: transactionRepo,
		historyRepo:     historyRepo,
		now:             time.Now,
	}
}

// Balance sums the ledger itself rather than the rollups, so it can answer
// arbitrary date ranges.
func (s *statsService) Balance(ctx context.Context, userID uuid.UUID, from, to time.Time) (*BalanceStats, error) {
	sums, err := s.transactionRepo.SumByType(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sum by type: %w", err)
	}

	stats := &BalanceStats{Income: decimal.Zero, Expense: decimal.Zero}
	for _, sum := range sums {
		switch sum.Type {
		case model.TransactionTypeIncome:
			stats.Income = sum.Total
		case model.TransactionTypeExpense:
			stats.Expense = sum.Total
		}
	}
	return stats, nil
}

func (s *statsService) ByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]repository.CategorySum, error) {
	return s.transactionRepo.SumByCategory(ctx, userID, from, to)
}

// HistoryPeriods lists the years that have any rollup data, oldest first. An
// empty ledger yields just the current year.
func (s *statsService) HistoryPeriods(ctx context.Context, userID uuid.UUID) ([]int, error) {
	years, err := s.historyRepo.DistinctYears(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list history years: %w", err)
	}
	if len(years) == 0 {
		return []int{s.now().Year()}, nil
	}
	return years, nil
}

// HistoryData returns one zero-filled point per day of the month, or per
// month of the year, overlaying whatever rollup rows exist.
func (s *statsService) HistoryData(ctx context.Context, userID uuid.UUID, timeframe Timeframe, year, month int) ([]HistoryPoint, error) {
	switch timeframe {
	case TimeframeMonth:
		return s.monthData(ctx, userID, year, month)
	case TimeframeYear:
		return s.yearData(ctx, userID, year)
	default:
		return nil, fmt.Errorf("unknown timeframe %q", timeframe)
	}
}

func (s *statsService) monthData(ctx context.Context, userID uuid.UUID, year, month int) ([]HistoryPoint, error) {
	rows, err := s.historyRepo.ListMonth(ctx, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("list month history: %w", err)
	}

	byDay := make(map[int]model.MonthHistory, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row
	}

	daysInMonth := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	points := make([]HistoryPoint, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		point := HistoryPoint{Year: year, Month: month, Day: day, Income: decimal.Zero, Expense: decimal.Zero}
		if row, ok := byDay[day]; ok {
			point.Income = row.Income
			point.Expense = row.Expense
		}
		points = append(points, point)
	}
	return points, nil
}

func (s *statsService) yearData(ctx context.Context, userID uuid.UUID, year int) ([]HistoryPoint, error) {
	rows, err := s.historyRepo.ListYear(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("list year history: %w", err)
	}

	byMonth := make(map[int]model.YearHistory, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row
	}

	points := make([]HistoryPoint, 0, 12)
	for month := 1; month <= 12; month++ {
		point := HistoryPoint{Year: year, Month: month, Income: decimal.Zero, Expense: decimal.Zero}
		if row, ok := byMonth[month]; ok {
			point.Income = row.Income
			point.Expense = row.Expense
		}
		points = append(points, point)
	}
	return points, nil
}
