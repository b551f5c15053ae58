package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"admindesk/internal/config"
	"admindesk/internal/db"
	"admindesk/internal/model"
	"admindesk/internal/repository"
)

const bcryptCost = 10

func main() {
	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	if err := ensureAdmin(context.Background(), userRepo, cfg); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	log.Printf("Seeded admin: %s", cfg.AdminEmail)

	if err := db.Close(gormDB); err != nil {
		log.Printf("close database: %v", err)
	}
}

// ensureAdmin upserts the bootstrap ADMIN account: creates it when absent,
// promotes it when present with a lesser role.
func ensureAdmin(ctx context.Context, repo repository.UserRepository, cfg *config.Config) error {
	existing, err := repo.FindByEmail(ctx, cfg.AdminEmail)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if existing != nil {
		if existing.Role == model.RoleAdmin {
			log.Println("Admin already present, nothing to do")
			return nil
		}
		return repo.UpdateFields(ctx, existing.ID, map[string]interface{}{
			"role": model.RoleAdmin,
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcryptCost)
	if err != nil {
		return err
	}

	return repo.Create(ctx, &model.User{
		Email:        cfg.AdminEmail,
		Name:         cfg.AdminName,
		PasswordHash: string(hashed),
		Role:         model.RoleAdmin,
	})
}
