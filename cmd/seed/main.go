package main

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/config"
	"fintrack/internal/db"
	"fintrack/internal/model"
)

const (
	demoEmail    = "demo@fintrack.local"
	demoPassword = "demo-password-123"
)

type seedCategory struct {
	Name string
	Icon string
	Type model.TransactionType
}

var defaultCategories = []seedCategory{
	{Name: "Salary", Icon: "💰", Type: model.TransactionTypeIncome},
	{Name: "Freelance", Icon: "💻", Type: model.TransactionTypeIncome},
	{Name: "Groceries", Icon: "🛒", Type: model.TransactionTypeExpense},
	{Name: "Rent", Icon: "🏠", Type: model.TransactionTypeExpense},
	{Name: "Transport", Icon: "🚌", Type: model.TransactionTypeExpense},
	{Name: "Entertainment", Icon: "🎬", Type: model.TransactionTypeExpense},
	{Name: "Health", Icon: "🩺", Type: model.TransactionTypeExpense},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.UserSettings{},
		&model.Category{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	user, err := seedDemoUser(gormDB)
	if err != nil {
		log.Fatalf("Failed to seed demo user: %v", err)
	}

	created, err := seedCategories(gormDB, user)
	if err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	log.Printf("Seed complete: user %s, %d categories created", user.Email, created)
}

func seedDemoUser(gormDB *gorm.DB) (*model.User, error) {
	var existing model.User
	err := gormDB.Where("email = ?", demoEmail).First(&existing).Error
	if err == nil {
		log.Printf("Demo user %s already exists, skipping", demoEmail)
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := model.User{
		Name:          "Demo User",
		Email:         demoEmail,
		PasswordHash:  string(hash),
		EmailVerified: &now,
	}
	if err := gormDB.Create(&user).Error; err != nil {
		return nil, err
	}

	settings := model.UserSettings{
		UserID:   user.ID,
		Currency: model.DefaultCurrency,
	}
	if err := gormDB.Create(&settings).Error; err != nil {
		return nil, err
	}

	log.Printf("Created demo user %s (password: %s)", demoEmail, demoPassword)
	return &user, nil
}

func seedCategories(gormDB *gorm.DB, user *model.User) (int, error) {
	created := 0
	for _, sc := range defaultCategories {
		var existing model.Category
		err := gormDB.Where("user_id = ? AND name = ? AND type = ?", user.ID, sc.Name, sc.Type).
			First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return created, err
		}

		category := model.Category{
			UserID: user.ID,
			Name:   sc.Name,
			Icon:   sc.Icon,
			Type:   sc.Type,
		}
		if err := gormDB.Create(&category).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
