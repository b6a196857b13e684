package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"fintrack/internal/errors"
	"fintrack/internal/service"
)

// StatsHandler handles statistics endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// BalanceResponse represents the balance stats over a range.
type BalanceResponse struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

// Balance godoc
// @Summary Income/expense totals over a date range
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} BalanceResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /stats/balance [get]
func (h *StatsHandler) Balance(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		return err
	}

	stats, err := h.statsService.Balance(c.Request().Context(), userID, from, to)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, BalanceResponse{
		Income:  stats.Income.StringFixed(2),
		Expense: stats.Expense.StringFixed(2),
		Balance: stats.Balance().StringFixed(2),
	})
}

// Categories godoc
// @Summary Per-category totals over a date range
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} repository.CategorySum
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /stats/categories [get]
func (h *StatsHandler) Categories(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		return err
	}

	stats, err := h.statsService.ByCategory(c.Request().Context(), userID, from, to)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, stats)
}

// HistoryPeriods godoc
// @Summary Years with recorded history
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {array} int
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /history/periods [get]
func (h *StatsHandler) HistoryPeriods(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	periods, err := h.statsService.HistoryPeriods(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, periods)
}

// HistoryData godoc
// @Summary Rollup data points for a month or a year
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param timeframe query string true "month or year"
// @Param year query int true "Year"
// @Param month query int false "Month (1-12), required for month timeframe"
// @Success 200 {array} service.HistoryPoint
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /history/data [get]
func (h *StatsHandler) HistoryData(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	timeframe := service.Timeframe(c.QueryParam("timeframe"))
	if timeframe != service.TimeframeMonth && timeframe != service.TimeframeYear {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "timeframe must be month or year",
			Code:  "VALIDATION_ERROR",
		})
	}

	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid year",
			Code:  "VALIDATION_ERROR",
		})
	}

	month := 0
	if timeframe == service.TimeframeMonth {
		month, err = strconv.Atoi(c.QueryParam("month"))
		if err != nil || month < 1 || month > 12 {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid month",
				Code:  "VALIDATION_ERROR",
			})
		}
	}

	points, err := h.statsService.HistoryData(c.Request().Context(), userID, timeframe, year, month)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, points)
}
