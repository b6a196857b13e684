package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	passwordvalidator "github.com/wagslane/go-password-validator"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/mail"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

const (
	bcryptCost = 10

	// minPasswordEntropy is the bar new passwords must clear, in bits.
	minPasswordEntropy = 50

	// verificationTokenTTL is how long email confirmation links stay valid.
	verificationTokenTTL = time.Hour
)

// LoginResult is the discriminated outcome of a successful Login call.
// Either TwoFactorRequired is set and no session exists yet, or the token
// pair is populated.
type LoginResult struct {
	TwoFactorRequired bool
	AccessToken       string
	RefreshToken      string
	User              *model.User
}

// AuthService handles registration, login and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password, code string) (*LoginResult, error)
	VerifyEmail(ctx context.Context, token string) error
	SendVerification(ctx context.Context, userID uuid.UUID, email string) error
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo         repository.UserRepository
	verificationRepo repository.VerificationTokenRepository
	twoFactor        TwoFactorService
	jwtService       *auth.JWTService
	tokenStore       auth.TokenStoreInterface
	mailer           mail.Mailer
	appURL           string
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	verificationRepo repository.VerificationTokenRepository,
	twoFactor TwoFactorService,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	mailer mail.Mailer,
	appURL string,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		twoFactor:        twoFactor,
		jwtService:       jwtService,
		tokenStore:       tokenStore,
		mailer:           mailer,
		appURL:           appURL,
	}
}

// Register creates a new user with a hashed password and emails a
// verification link.
func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailInUse
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	if err := passwordvalidator.Validate(password, minPasswordEntropy); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.SendVerification(ctx, user.ID, email); err != nil {
		return nil, err
	}
	return user, nil
}

// Login runs the credential and two-factor decision flow.
//
// When the account has two-factor enabled and no code is supplied, a fresh
// code is issued and emailed and the result carries TwoFactorRequired with no
// session. Business failures come back as sentinel errors; anything else is
// an infrastructure fault and propagates wrapped.
func (s *authService) Login(ctx context.Context, email, password, code string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUnknownUser
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	// OAuth-only accounts have no password to check against.
	if user.PasswordHash == "" {
		return nil, apperrors.ErrUnknownUser
	}

	passwordOK := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil

	if user.IsTwoFactorEnabled {
		// The password is checked before any code handling so a wrong
		// password always reads the same, with or without a code.
		if !passwordOK {
			return nil, apperrors.ErrInvalidCredentials
		}

		if code == "" {
			token, err := s.twoFactor.Issue(ctx, user.Email)
			if err != nil {
				return nil, err
			}
			if err := s.mailer.SendTwoFactorCode(user.Email, token.Token); err != nil {
				return nil, fmt.Errorf("send two-factor code: %w", err)
			}
			return &LoginResult{TwoFactorRequired: true}, nil
		}

		if err := s.twoFactor.Validate(ctx, user.Email, code); err != nil {
			return nil, err
		}
		if err := s.twoFactor.Confirm(ctx, user.ID); err != nil {
			return nil, err
		}
	} else if !passwordOK {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.establishSession(ctx, user)
}

func (s *authService) establishSession(ctx context.Context, user *model.User) (*LoginResult, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID.String(), user.Email, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// VerifyEmail consumes a verification token and marks the address confirmed.
// The token may carry a new address from a settings change; it is applied
// here, not when the change was requested.
func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	row, err := s.verificationRepo.FindByToken(ctx, token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrInvalidToken
		}
		return fmt.Errorf("find verification token: %w", err)
	}

	if !time.Now().Before(row.ExpiresAt) {
		return apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, row.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrInvalidToken
		}
		return fmt.Errorf("find user: %w", err)
	}

	now := time.Now()
	user.EmailVerified = &now
	user.Email = row.Email
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if err := s.verificationRepo.Delete(ctx, row.ID); err != nil {
		return fmt.Errorf("consume verification token: %w", err)
	}
	return nil
}

// SendVerification issues a fresh verification token for the email and mails
// the confirmation link. Reissuing replaces any outstanding token rows. The
// email may differ from the user's current address when confirming a change.
func (s *authService) SendVerification(ctx context.Context, userID uuid.UUID, email string) error {
	if err := s.verificationRepo.DeleteByEmail(ctx, email); err != nil {
		return fmt.Errorf("invalidate previous verification tokens: %w", err)
	}

	token := &model.VerificationToken{
		UserID:    userID,
		Email:     email,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(verificationTokenTTL),
	}
	if err := s.verificationRepo.Create(ctx, token); err != nil {
		return fmt.Errorf("create verification token: %w", err)
	}

	link := fmt.Sprintf("%s/api/auth/verify-email?token=%s", s.appURL, token.Token)
	if err := s.mailer.SendVerificationLink(email, link); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}
	if claims.ID == "" {
		return "", apperrors.ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", apperrors.ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(userID, claims.Email)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}
