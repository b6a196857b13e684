package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnknownUser is returned when no password-capable account exists for an email.
	ErrUnknownUser = errors.New("email is not registered")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidCode is returned when a two-factor code is missing or wrong.
	ErrInvalidCode = errors.New("invalid two-factor code")
	// ErrCodeExpired is returned when a correct two-factor code has expired.
	ErrCodeExpired = errors.New("two-factor code has expired")
	// ErrEmailInUse is returned when registering or switching to a taken email.
	ErrEmailInUse = errors.New("email already in use")
	// ErrWeakPassword is returned when a password fails the entropy check.
	ErrWeakPassword = errors.New("password is too weak")
	// ErrInvalidToken is returned for unknown verification tokens.
	ErrInvalidToken = errors.New("invalid verification token")
	// ErrTokenExpired is returned for expired verification tokens.
	ErrTokenExpired = errors.New("verification token has expired")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid or revoked.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrCategoryNotFound is returned when a referenced category does not exist.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryExists is returned on a duplicate (name, type) category.
	ErrCategoryExists = errors.New("category already exists")
	// ErrTransactionNotFound is returned when a transaction is absent or owned by someone else.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrUnauthorized is returned when the acting user cannot be resolved.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidAmount is returned when an amount is zero or negative.
	ErrInvalidAmount = errors.New("invalid amount")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unmapped is an
// opaque 500: internal details never reach the response body.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnknownUser):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNKNOWN_USER")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidCode):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CODE")
	case errors.Is(err, ErrCodeExpired):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "CODE_EXPIRED")
	case errors.Is(err, ErrEmailInUse):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_IN_USE")
	case errors.Is(err, ErrWeakPassword):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "WEAK_PASSWORD")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrTokenExpired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TOKEN_EXPIRED")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrCategoryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CATEGORY_NOT_FOUND")
	case errors.Is(err, ErrCategoryExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "CATEGORY_EXISTS")
	case errors.Is(err, ErrTransactionNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TRANSACTION_NOT_FOUND")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidAmount):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_AMOUNT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
