package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/a20ro/student-organizer-backend/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("usage: go run ./cmd/create_admin <name> <email> <password> [super]")
		os.Exit(2)
	}
	name := os.Args[1]
	email := os.Args[2]
	password := os.Args[3]
	role := models.RoleAdmin
	if len(os.Args) > 4 && os.Args[4] == "super" {
		role = models.RoleSuperAdmin
	}

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	// promote instead of failing when the account already exists
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		if err := db.Model(&existing).Update("role", role).Error; err != nil {
			log.Fatalf("failed to promote user: %v", err)
		}
		fmt.Printf("promoted %s (id=%d) to %s\n", email, existing.ID, role)
		os.Exit(0)
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	user := models.User{
		Name:           name,
		Email:          email,
		HashedPassword: hpw,
		Role:           role,
		Status:         models.StatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created %s %s id=%d\n", role, email, user.ID)
}
