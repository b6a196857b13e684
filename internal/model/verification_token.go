package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationToken backs the email confirmation link sent at registration
// and on email changes. Like the two-factor token, issuing a new one for an
// email replaces any previous rows.
type VerificationToken struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Email     string    `json:"email" gorm:"size:255;not null;index"`
	Token     string    `json:"-" gorm:"size:64;not null;uniqueIndex"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (t *VerificationToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
