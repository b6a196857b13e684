package handler

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"fintrack/internal/auth"
	"fintrack/internal/errors"
)

// currentUserID resolves the acting user from the JWT the middleware parsed.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "invalid token",
			Code:  "UNAUTHORIZED",
		})
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "invalid token claims",
			Code:  "UNAUTHORIZED",
		})
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "invalid token subject",
			Code:  "UNAUTHORIZED",
		})
	}
	return userID, nil
}

// parseDateRange reads from/to query params (YYYY-MM-DD or RFC3339). Missing
// values default to the current month.
func parseDateRange(c echo.Context) (from, to time.Time, err error) {
	now := time.Now().UTC()
	from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to = now

	if v := c.QueryParam("from"); v != "" {
		from, err = parseDate(v)
		if err != nil {
			return from, to, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid from date",
				Code:  "VALIDATION_ERROR",
			})
		}
	}
	if v := c.QueryParam("to"); v != "" {
		to, err = parseDate(v)
		if err != nil {
			return from, to, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid to date",
				Code:  "VALIDATION_ERROR",
			})
		}
		// Inclusive upper bound at day granularity.
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
