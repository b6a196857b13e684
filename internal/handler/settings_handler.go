package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/service"
)

// SettingsHandler handles user settings endpoints.
type SettingsHandler struct {
	settingsService service.SettingsService
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateCurrencyRequest represents a currency preference update.
type UpdateCurrencyRequest struct {
	Currency string `json:"currency" validate:"required,uppercase,len=3"`
}

// UpdateAccountRequest represents a partial account settings update.
// Password and NewPassword must be supplied together.
type UpdateAccountRequest struct {
	Name               *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email              *string `json:"email" validate:"omitempty,email"`
	Password           *string `json:"password" validate:"omitempty,min=6,required_with=NewPassword"`
	NewPassword        *string `json:"new_password" validate:"omitempty,min=6,required_with=Password"`
	IsTwoFactorEnabled *bool   `json:"is_two_factor_enabled"`
}

// UpdateAccountResponse reports the update outcome.
type UpdateAccountResponse struct {
	Message               string      `json:"message"`
	VerificationEmailSent bool        `json:"verification_email_sent,omitempty"`
	User                  *model.User `json:"user,omitempty"`
}

// Get godoc
// @Summary Get user settings, creating defaults on first access
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserSettings
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user-settings [get]
func (h *SettingsHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	settings, err := h.settingsService.Get(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, settings)
}

// UpdateCurrency godoc
// @Summary Update the preferred currency
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateCurrencyRequest true "Currency code"
// @Success 200 {object} model.UserSettings
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user-settings/currency [put]
func (h *SettingsHandler) UpdateCurrency(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req UpdateCurrencyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	settings, err := h.settingsService.UpdateCurrency(c.Request().Context(), userID, req.Currency)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, settings)
}

// UpdateAccount godoc
// @Summary Update account settings (name, email, password, 2FA)
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateAccountRequest true "Fields to change"
// @Success 200 {object} UpdateAccountResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /settings [patch]
func (h *SettingsHandler) UpdateAccount(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	result, err := h.settingsService.UpdateAccount(c.Request().Context(), userID, service.AccountPatch{
		Name:               req.Name,
		Email:              req.Email,
		Password:           req.Password,
		NewPassword:        req.NewPassword,
		IsTwoFactorEnabled: req.IsTwoFactorEnabled,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	message := "settings updated"
	if result.VerificationEmailSent {
		message = "verification email sent"
	}
	return c.JSON(http.StatusOK, UpdateAccountResponse{
		Message:               message,
		VerificationEmailSent: result.VerificationEmailSent,
		User:                  result.User,
	})
}
