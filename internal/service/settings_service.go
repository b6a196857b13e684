package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	passwordvalidator "github.com/wagslane/go-password-validator"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/cache"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

const settingsCacheTTL = 5 * time.Minute

// AccountPatch carries the optional fields of an account settings update.
// Nil means "leave unchanged".
type AccountPatch struct {
	Name               *string
	Email              *string
	Password           *string
	NewPassword        *string
	IsTwoFactorEnabled *bool
}

// UpdateAccountResult reports what an account update did. When an email
// change was requested the new address is not applied yet; a verification
// link was sent instead and the change lands when the link is followed.
type UpdateAccountResult struct {
	User                  *model.User
	VerificationEmailSent bool
}

// verificationSender issues and emails address-confirmation tokens.
type verificationSender interface {
	SendVerification(ctx context.Context, userID uuid.UUID, email string) error
}

// SettingsService handles user preferences and account settings.
type SettingsService interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.UserSettings, error)
	UpdateCurrency(ctx context.Context, userID uuid.UUID, currency string) (*model.UserSettings, error)
	UpdateAccount(ctx context.Context, userID uuid.UUID, patch AccountPatch) (*UpdateAccountResult, error)
}

type settingsService struct {
	settingsRepo repository.UserSettingsRepository
	userRepo     repository.UserRepository
	verification verificationSender
	cache        *cache.Client
}

// NewSettingsService creates a new settings service.
func NewSettingsService(
	settingsRepo repository.UserSettingsRepository,
	userRepo repository.UserRepository,
	verification verificationSender,
	cache *cache.Client,
) SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		userRepo:     userRepo,
		verification: verification,
		cache:        cache,
	}
}

func (s *settingsService) cacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_settings:%s", userID.String())
}

// Get returns the user's settings, creating them with defaults on first
// access. Reads go through the cache; writes invalidate it.
func (s *settingsService) Get(ctx context.Context, userID uuid.UUID) (*model.UserSettings, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(userID)); data != nil {
		var cached model.UserSettings
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	settings, err := s.settingsRepo.FindByUserID(ctx, userID)
	if err == gorm.ErrRecordNotFound {
		settings = &model.UserSettings{UserID: userID, Currency: model.DefaultCurrency}
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, fmt.Errorf("create default settings: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("find settings: %w", err)
	}

	if payload, err := json.Marshal(settings); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(userID), payload, settingsCacheTTL)
	}
	return settings, nil
}

func (s *settingsService) UpdateCurrency(ctx context.Context, userID uuid.UUID, currency string) (*model.UserSettings, error) {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings.Currency = currency
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return settings, nil
}

// UpdateAccount applies a partial settings update. OAuth-only accounts
// (no password hash) cannot change email, password, or the two-factor flag.
func (s *settingsService) UpdateAccount(ctx context.Context, userID uuid.UUID, patch AccountPatch) (*UpdateAccountResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.PasswordHash == "" {
		patch.Email = nil
		patch.Password = nil
		patch.NewPassword = nil
		patch.IsTwoFactorEnabled = nil
	}

	if patch.Email != nil && *patch.Email != user.Email {
		existing, err := s.userRepo.FindByEmail(ctx, *patch.Email)
		if err == nil && existing != nil && existing.ID != userID {
			return nil, apperrors.ErrEmailInUse
		}
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("check email: %w", err)
		}

		if err := s.verification.SendVerification(ctx, userID, *patch.Email); err != nil {
			return nil, err
		}
		return &UpdateAccountResult{User: user, VerificationEmailSent: true}, nil
	}

	if patch.Password != nil && patch.NewPassword != nil {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*patch.Password)) != nil {
			return nil, apperrors.ErrInvalidCredentials
		}
		if err := passwordvalidator.Validate(*patch.NewPassword, minPasswordEntropy); err != nil {
			return nil, apperrors.ErrWeakPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.NewPassword), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.IsTwoFactorEnabled != nil {
		user.IsTwoFactorEnabled = *patch.IsTwoFactorEnabled
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &UpdateAccountResult{User: user}, nil
}
