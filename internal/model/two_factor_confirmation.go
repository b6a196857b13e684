package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TwoFactorConfirmation records that a user completed the two-factor step for
// their current login. A new confirmation replaces the previous one; rows
// never accumulate per user.
type TwoFactorConfirmation struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (c *TwoFactorConfirmation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
