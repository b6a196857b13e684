package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"fintrack/docs"
	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	transactionHandler *handler.TransactionHandler,
	categoryHandler *handler.CategoryHandler,
	statsHandler *handler.StatsHandler,
	settingsHandler *handler.SettingsHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/verify-email", authHandler.VerifyEmail)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:Authorization:Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return &auth.Claims{}
		},
	}))

	secured.GET("/me", func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		claims, _ := token.Claims.(*auth.Claims)
		return c.JSON(http.StatusOK, echo.Map{"user_id": claims.UserID, "email": claims.Email})
	})

	// Transaction routes
	secured.POST("/transactions", transactionHandler.Create)
	secured.GET("/transactions", transactionHandler.List)
	secured.DELETE("/transactions/:id", transactionHandler.Delete)
	secured.POST("/transactions/import", transactionHandler.Import)
	secured.GET("/transactions/export", transactionHandler.Export)

	// Category routes
	secured.GET("/categories", categoryHandler.List)
	secured.POST("/categories", categoryHandler.Create)
	secured.DELETE("/categories", categoryHandler.Delete)

	// Stats routes
	secured.GET("/stats/balance", statsHandler.Balance)
	secured.GET("/stats/categories", statsHandler.Categories)
	secured.GET("/history/periods", statsHandler.HistoryPeriods)
	secured.GET("/history/data", statsHandler.HistoryData)

	// Settings routes
	secured.GET("/user-settings", settingsHandler.Get)
	secured.PUT("/user-settings/currency", settingsHandler.UpdateCurrency)
	secured.PATCH("/settings", settingsHandler.UpdateAccount)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
