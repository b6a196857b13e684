package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is assigned when settings are created lazily.
const DefaultCurrency = "USD"

// UserSettings holds per-user display preferences.
type UserSettings struct {
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);primaryKey"`
	Currency  string    `json:"currency" gorm:"size:10;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
