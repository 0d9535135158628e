package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/infrastructure/store"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.SeedAdminPassword == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	repo, closeStore, err := store.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	svc := application.NewService(repo, nil, helpers.NewPasswordHasher(cfg.BcryptCost), nil, nil, logger)
	created, err := svc.EnsureAdmin(ctx, cfg.SeedAdminLogin, cfg.SeedAdminPassword, cfg.SeedAdminName)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if created {
		logger.WithField("login", cfg.SeedAdminLogin).Info("seeded admin user")
		return
	}
	logger.WithField("login", cfg.SeedAdminLogin).Info("admin login already present, nothing to do")
}
