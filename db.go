package main

import (
	"os"
	"strings"

	"github.com/a20ro/student-organizer-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

func initDB() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		logger.Fatal().Msg("DB_DSN is not set. This service requires a Postgres DSN in DB_DSN.")
	}
	var err error
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres database")
	}

	// Control schema migrations with env DB_AUTO_MIGRATE (default true).
	shouldMigrate := true
	if v := strings.ToLower(os.Getenv("DB_AUTO_MIGRATE")); v == "false" || v == "0" || v == "no" {
		shouldMigrate = false
	}
	if shouldMigrate {
		migrateAll()
	}
	seedDB()
}

// migrateAll migrates models individually so a failure on one doesn't block
// the others.
func migrateAll() {
	for _, m := range []any{
		&models.User{},
		&models.AccessToken{},
		&models.UserSession{},
		&models.PasswordReset{},
		&models.Semester{},
		&models.Course{},
		&models.Assessment{},
		&models.Note{},
		&models.Event{},
		&models.Transaction{},
		&models.RecurringTransaction{},
		&models.Budget{},
		&models.Goal{},
		&models.Task{},
		&models.Habit{},
		&models.HabitLog{},
		&models.FileAttachment{},
		&models.Announcement{},
		&models.AiSession{},
		&models.AiMessage{},
		&models.SystemLog{},
	} {
		if err := db.AutoMigrate(m); err != nil {
			logger.Warn().Err(err).Msgf("migration warning (%T)", m)
		}
	}
}

func seedDB() {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@studentorganizer.com"
	}
	var count int64
	db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "AdminPassword123!"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("failed to hash seed admin password")
		return
	}
	admin := models.User{
		Name:           "System Admin",
		Email:          email,
		HashedPassword: hashed,
		Role:           models.RoleSuperAdmin,
		Status:         models.StatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		logger.Error().Err(err).Msg("failed to seed admin user")
		return
	}
	logger.Info().Str("email", email).Msg("seeded super admin user")
}

// uploadBaseDir returns the base directory for attachment storage
// (configurable via UPLOAD_BASE env).
func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "uploads"
}
