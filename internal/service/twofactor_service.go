package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

// TwoFactorTokenTTL is how long an emailed login code stays valid.
const TwoFactorTokenTTL = 5 * time.Minute

// TwoFactorService manages emailed one-time login codes and the per-user
// confirmation that a login completed the two-factor step.
type TwoFactorService interface {
	// Issue replaces any outstanding token for the email with a fresh one.
	Issue(ctx context.Context, email string) (*model.TwoFactorToken, error)
	// Validate consumes the token on success. A wrong code is reported as
	// invalid even when the stored token is also expired; expiry is only
	// checked after the value matches.
	Validate(ctx context.Context, email, code string) error
	// Confirm replaces the user's previous confirmation with a new one.
	Confirm(ctx context.Context, userID uuid.UUID) error
}

type twoFactorService struct {
	repo repository.TwoFactorRepository
	now  func() time.Time
}

// NewTwoFactorService creates a two-factor service.
func NewTwoFactorService(repo repository.TwoFactorRepository) TwoFactorService {
	return &twoFactorService{repo: repo, now: time.Now}
}

func (s *twoFactorService) Issue(ctx context.Context, email string) (*model.TwoFactorToken, error) {
	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("generate two-factor code: %w", err)
	}

	// Delete-then-create keeps at most one active token per email.
	if err := s.repo.DeleteTokensByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("invalidate previous tokens: %w", err)
	}

	token := &model.TwoFactorToken{
		Email:     email,
		Token:     code,
		ExpiresAt: s.now().Add(TwoFactorTokenTTL),
	}
	if err := s.repo.CreateToken(ctx, token); err != nil {
		return nil, fmt.Errorf("create two-factor token: %w", err)
	}
	return token, nil
}

func (s *twoFactorService) Validate(ctx context.Context, email, code string) error {
	token, err := s.repo.FindTokenByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrInvalidCode
		}
		return fmt.Errorf("find two-factor token: %w", err)
	}

	if token.Token != code {
		return apperrors.ErrInvalidCode
	}

	if !s.now().Before(token.ExpiresAt) {
		return apperrors.ErrCodeExpired
	}

	// Single use: consume the token.
	if err := s.repo.DeleteToken(ctx, token.ID); err != nil {
		return fmt.Errorf("consume two-factor token: %w", err)
	}
	return nil
}

func (s *twoFactorService) Confirm(ctx context.Context, userID uuid.UUID) error {
	// Replace semantics: drop the old row first, no-op when absent.
	if err := s.repo.DeleteConfirmationByUserID(ctx, userID); err != nil {
		return fmt.Errorf("delete previous confirmation: %w", err)
	}
	if err := s.repo.CreateConfirmation(ctx, &model.TwoFactorConfirmation{UserID: userID}); err != nil {
		return fmt.Errorf("create confirmation: %w", err)
	}
	return nil
}

// generateCode returns a uniformly random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
