package main

import (
	"log"
	"net/http"
	"os"

	_ "fintrack/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/db"
	"fintrack/internal/handler"
	"fintrack/internal/mail"
	"fintrack/internal/model"
	"fintrack/internal/repository"
	"fintrack/internal/router"
	"fintrack/internal/service"
)

// @title Fintrack API
// @version 1.0
// @description Personal finance tracker API with transactions, categories, stats, and JWT authentication with optional 2FA.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Transaction{},
			&model.MonthHistory{},
			&model.YearHistory{},
			&model.Category{},
			&model.TwoFactorToken{},
			&model.TwoFactorConfirmation{},
			&model.VerificationToken{},
			&model.UserSettings{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.UserSettings{},
		&model.TwoFactorToken{},
		&model.TwoFactorConfirmation{},
		&model.VerificationToken{},
		&model.Category{},
		&model.Transaction{},
		&model.MonthHistory{},
		&model.YearHistory{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	settingsRepo := repository.NewUserSettingsRepository(gormDB)
	twoFactorRepo := repository.NewTwoFactorRepository(gormDB)
	verificationRepo := repository.NewVerificationTokenRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	transactionRepo := repository.NewTransactionRepository(gormDB)
	historyRepo := repository.NewHistoryRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	mailer := mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	// Initialize services
	twoFactorService := service.NewTwoFactorService(twoFactorRepo)
	authService := service.NewAuthService(userRepo, verificationRepo, twoFactorService, jwtService, tokenStore, mailer, cfg.AppURL)
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo, settingsRepo, nil)
	categoryService := service.NewCategoryService(categoryRepo)
	statsService := service.NewStatsService(transactionRepo, historyRepo)
	settingsService := service.NewSettingsService(settingsRepo, userRepo, authService, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	statsHandler := handler.NewStatsHandler(statsService)
	settingsHandler := handler.NewSettingsHandler(settingsService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		transactionHandler,
		categoryHandler,
		statsHandler,
		settingsHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
