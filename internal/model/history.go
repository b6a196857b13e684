package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthHistory is the per-day rollup of a user's ledger. It is maintained in
// lockstep with transaction writes inside the same database transaction.
type MonthHistory struct {
	UserID  uuid.UUID       `json:"user_id" gorm:"type:char(36);primaryKey"`
	Year    int             `json:"year" gorm:"primaryKey"`
	Month   int             `json:"month" gorm:"primaryKey"`
	Day     int             `json:"day" gorm:"primaryKey"`
	Income  decimal.Decimal `json:"income" gorm:"type:decimal(20,2);not null;default:0"`
	Expense decimal.Decimal `json:"expense" gorm:"type:decimal(20,2);not null;default:0"`
}

// TableName overrides the pluralized default.
func (MonthHistory) TableName() string { return "month_history" }

// YearHistory is the per-month rollup, maintained alongside MonthHistory.
type YearHistory struct {
	UserID  uuid.UUID       `json:"user_id" gorm:"type:char(36);primaryKey"`
	Year    int             `json:"year" gorm:"primaryKey"`
	Month   int             `json:"month" gorm:"primaryKey"`
	Income  decimal.Decimal `json:"income" gorm:"type:decimal(20,2);not null;default:0"`
	Expense decimal.Decimal `json:"expense" gorm:"type:decimal(20,2);not null;default:0"`
}

// TableName overrides the pluralized default.
func (YearHistory) TableName() string { return "year_history" }
