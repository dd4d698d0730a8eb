// Command createadmin provisions the bootstrap administrator account.
// It is idempotent: if an admin with the configured email already exists
// the command exits 0 without touching the database.
package main

import (
	"context"
	"os"

	"github.com/mobile-bio-lab/lab-service/internal/auth"
	"github.com/mobile-bio-lab/lab-service/internal/config"
	"github.com/mobile-bio-lab/lab-service/internal/models"
	"github.com/mobile-bio-lab/lab-service/internal/repositories/postgres"
	"github.com/mobile-bio-lab/lab-service/internal/utils"
	"github.com/mobile-bio-lab/lab-service/pkg"
)

func main() {
	logger := utils.NewDevelopmentLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Error("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
		os.Exit(1)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		logger.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	users := postgres.NewUserPostgreSQL(db)
	ctx := context.Background()

	exists, err := users.ExistsAdmin(ctx, cfg.AdminEmail)
	if err != nil {
		logger.Error("admin lookup failed", "error", err)
		os.Exit(1)
	}
	if exists {
		logger.Info("admin account already exists", "email", cfg.AdminEmail)
		os.Exit(0)
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		logger.Error("password hashing failed", "error", err)
		os.Exit(1)
	}

	admin := &models.User{
		FirstName:    cfg.AdminFirstName,
		LastName:     cfg.AdminLastName,
		StudentID:    "ADMIN001",
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Verified:     true,
	}

	if err := users.Create(ctx, admin); err != nil {
		logger.Error("admin creation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("admin account created", "email", cfg.AdminEmail, "id", admin.ID)
}
