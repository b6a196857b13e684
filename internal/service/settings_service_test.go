package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/model"
)

func TestSettingsService_Get(t *testing.T) {
	userID := uuid.New()

	t.Run("existing settings", func(t *testing.T) {
		mockSettingsRepo := new(MockUserSettingsRepository)
		mockSettingsRepo.On("FindByUserID", mock.Anything, userID).Return(&model.UserSettings{
			UserID:   userID,
			Currency: "EUR",
		}, nil)

		service := NewSettingsService(mockSettingsRepo, new(MockUserRepository), new(MockVerificationSender), nil)
		settings, err := service.Get(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, "EUR", settings.Currency)
	})

	t.Run("first access creates defaults", func(t *testing.T) {
		mockSettingsRepo := new(MockUserSettingsRepository)
		mockSettingsRepo.On("FindByUserID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
		mockSettingsRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *model.UserSettings) bool {
			return s.UserID == userID && s.Currency == model.DefaultCurrency
		})).Return(nil)

		service := NewSettingsService(mockSettingsRepo, new(MockUserRepository), new(MockVerificationSender), nil)
		settings, err := service.Get(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, model.DefaultCurrency, settings.Currency)
		mockSettingsRepo.AssertExpectations(t)
	})
}

func TestSettingsService_UpdateCurrency(t *testing.T) {
	userID := uuid.New()

	mockSettingsRepo := new(MockUserSettingsRepository)
	mockSettingsRepo.On("FindByUserID", mock.Anything, userID).Return(&model.UserSettings{
		UserID:   userID,
		Currency: "USD",
	}, nil)
	mockSettingsRepo.On("Update", mock.Anything, mock.MatchedBy(func(s *model.UserSettings) bool {
		return s.Currency == "GBP"
	})).Return(nil)

	service := NewSettingsService(mockSettingsRepo, new(MockUserRepository), new(MockVerificationSender), nil)
	settings, err := service.UpdateCurrency(context.Background(), userID, "GBP")

	assert.NoError(t, err)
	assert.Equal(t, "GBP", settings.Currency)
	mockSettingsRepo.AssertExpectations(t)
}

func TestSettingsService_UpdateAccount(t *testing.T) {
	userID := uuid.New()
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("old-password-123"), 10)

	passwordUser := func() *model.User {
		return &model.User{
			ID:           userID,
			Name:         "Old Name",
			Email:        "old@example.com",
			PasswordHash: string(hashedPassword),
		}
	}

	strPtr := func(s string) *string { return &s }
	boolPtr := func(b bool) *bool { return &b }

	t.Run("name and two-factor flag are applied directly", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockUserRepo.On("FindByID", mock.Anything, userID).Return(passwordUser(), nil)
		mockUserRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Name == "New Name" && u.IsTwoFactorEnabled
		})).Return(nil)

		service := NewSettingsService(new(MockUserSettingsRepository), mockUserRepo, new(MockVerificationSender), nil)
		result, err := service.UpdateAccount(context.Background(), userID, AccountPatch{
			Name:               strPtr("New Name"),
			IsTwoFactorEnabled: boolPtr(true),
		})

		assert.NoError(t, err)
		assert.False(t, result.VerificationEmailSent)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("email change sends verification instead of applying", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockSender := new(MockVerificationSender)
		mockUserRepo.On("FindByID", mock.Anything, userID).Return(passwordUser(), nil)
		mockUserRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockSender.On("SendVerification", mock.Anything, userID, "new@example.com").Return(nil)

		service := NewSettingsService(new(MockUserSettingsRepository), mockUserRepo, mockSender, nil)
		result, err := service.UpdateAccount(context.Background(), userID, AccountPatch{
			Email: strPtr("new@example.com"),
		})

		assert.NoError(t, err)
		assert.True(t, result.VerificationEmailSent)
		assert.Equal(t, "old@example.com", result.User.Email)
		mockUserRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		mockSender.AssertExpectations(t)
	})

	t.Run("email change to an address already in use", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockUserRepo.On("FindByID", mock.Anything, userID).Return(passwordUser(), nil)
		mockUserRepo.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{
			ID:    uuid.New(),
			Email: "taken@example.com",
		}, nil)

		service := NewSettingsService(new(MockUserSettingsRepository), mockUserRepo, new(MockVerificationSender), nil)
		_, err := service.UpdateAccount(context.Background(), userID, AccountPatch{
			Email: strPtr("taken@example.com"),
		})

		assert.Equal(t, apperrors.ErrEmailInUse, err)
	})

	t.Run("password change verifies the current password", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockUserRepo.On("FindByID", mock.Anything, userID).Return(passwordUser(), nil)
		mockUserRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct-horse-battery")) == nil
		})).Return(nil)

		service := NewSettingsService(new(MockUserSettingsRepository), mockUserRepo, new(MockVerificationSender), nil)
		_, err := service.UpdateAccount(context.Background(), userID, AccountPatch{
			Password:    strPtr("old-password-123"),
			NewPassword: strPtr("correct-horse-battery"),
		})

		assert.NoError(t, err)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockUserRepo.On("FindByID", mock.Anything, userID).Return(passwordUser(), nil)

		service := NewSettingsService(new(MockUserSettingsRepository), mockUserRepo, new(MockVerificationSender), nil)
		_, err := service.UpdateAccount(context.Background(), userID, AccountPatch{
			Password:    strPtr("wrong"),
			NewPassword: strPtr("correct-horse-battery"),
		})

		assert.Equal(t, apperrors.ErrInvalidCredentials, err)
	})

	t.Run("weak new password", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockUserRepo.On("FindByID", mock.Anything, userID).Return(passwordUser(), nil)

		service := NewSettingsService(new(MockUserSettingsRepository), mockUserRepo, new(MockVerificationSender), nil)
		_, err := service.UpdateAccount(context.Background(), userID, AccountPatch{
			Password:    strPtr("old-password-123"),
			NewPassword: strPtr("aaaa"),
		})

		assert.Equal(t, apperrors.ErrWeakPassword, err)
	})

	t.Run("oauth-only account can only change its name", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		oauthUser := passwordUser()
		oauthUser.PasswordHash = ""
		mockUserRepo.On("FindByID", mock.Anything, userID).Return(oauthUser, nil)
		mockUserRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Name == "New Name" && u.Email == "old@example.com" && !u.IsTwoFactorEnabled
		})).Return(nil)

		service := NewSettingsService(new(MockUserSettingsRepository), mockUserRepo, new(MockVerificationSender), nil)
		result, err := service.UpdateAccount(context.Background(), userID, AccountPatch{
			Name:               strPtr("New Name"),
			Email:              strPtr("new@example.com"),
			IsTwoFactorEnabled: boolPtr(true),
		})

		assert.NoError(t, err)
		assert.False(t, result.VerificationEmailSent)
		mockUserRepo.AssertExpectations(t)
	})
}
