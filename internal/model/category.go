package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a user-scoped label for transactions. No two categories of a
// user may share the same (name, type) pair.
type Category struct {
	ID        uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID       `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_category_user_name_type"`
	Name      string          `json:"name" gorm:"size:255;not null;uniqueIndex:idx_category_user_name_type"`
	Type      TransactionType `json:"type" gorm:"type:varchar(20);not null;uniqueIndex:idx_category_user_name_type"`
	Icon      string          `json:"icon" gorm:"size:64"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
