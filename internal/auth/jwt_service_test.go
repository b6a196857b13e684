package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := service.GenerateAccessToken(userID, "test@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Empty(t, claims.ID)
}

func TestJWTService_RefreshTokenCarriesID(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := uuid.New()

	tokenID, token, err := service.GenerateRefreshToken(userID, "test@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenID)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, tokenID, claims.ID)

	extracted, err := service.ExtractTokenID(token)
	assert.NoError(t, err)
	assert.Equal(t, tokenID, extracted)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	service := NewJWTService("test-secret")
	other := NewJWTService("other-secret")
	userID := uuid.New()

	token, err := service.GenerateAccessToken(userID, "test@example.com")
	assert.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	service := NewJWTService("test-secret")

	_, err := service.ValidateToken("not-a-jwt")
	assert.Error(t, err)

	_, err = service.ExtractTokenID("not-a-jwt")
	assert.Error(t, err)
}

func TestJWTService_ExtractTokenIDRequiresJTI(t *testing.T) {
	service := NewJWTService("test-secret")

	// Access tokens carry no JTI so they cannot act as refresh tokens.
	token, err := service.GenerateAccessToken(uuid.New(), "test@example.com")
	assert.NoError(t, err)

	_, err = service.ExtractTokenID(token)
	assert.Error(t, err)
}
