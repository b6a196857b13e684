package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered user of the finance application.
type User struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Name               string     `json:"name" gorm:"size:255;not null"`
	Email              string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash       string     `json:"-" gorm:"size:255"` // Empty for OAuth-only accounts; never expose in JSON
	EmailVerified      *time.Time `json:"email_verified,omitempty"`
	IsTwoFactorEnabled bool       `json:"is_two_factor_enabled" gorm:"default:false"`
	Role               string     `json:"role,omitempty" gorm:"size:50;default:'user'"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Relations
	Settings *UserSettings `json:"settings,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
