package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TwoFactorToken is a single-use emailed login code. At most one active token
// exists per email: issuing a new one removes any previous rows, and a
// successful validation consumes the row. Expired tokens are not swept in the
// background; they are replaced on reissue or rejected at validation.
type TwoFactorToken struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Email     string    `json:"email" gorm:"size:255;not null;index"`
	Token     string    `json:"-" gorm:"size:16;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (t *TwoFactorToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
