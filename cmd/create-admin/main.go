package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"crm-leads/internal/adapters/persistence/models"
	"crm-leads/internal/adapters/persistence/repositories"
	"crm-leads/internal/config"
	"crm-leads/internal/pkg/logger"

	"go.uber.org/zap"
)

// create-admin provisions the default admin account in the configured MySQL
// database. Flags override the ADMIN_* environment values.
func main() {
	username := flag.String("username", "", "admin username (default ADMIN_USERNAME)")
	email := flag.String("email", "", "admin email (default ADMIN_EMAIL)")
	pass := flag.String("password", "", "admin password (default ADMIN_PASSWORD)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "crm-leads-create-admin")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	if cfg.Database.Driver != "mysql" {
		zlog.Fatal("create-admin needs DB_DRIVER=mysql", zap.String("driver", cfg.Database.Driver))
	}

	admin := cfg.Admin
	if *username != "" {
		admin.Username = *username
	}
	if *email != "" {
		admin.Email = *email
	}
	if *pass != "" {
		admin.Password = *pass
	}

	db, err := config.ConnectDatabase(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer config.CloseDatabase(db) //nolint:errcheck

	if err := models.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to auto migrate", zap.Error(err))
	}

	seeder := config.NewSeeder(repositories.NewAccountRepository(db), admin, zlog)
	account, err := seeder.SeedAdmin(context.Background())
	switch {
	case errors.Is(err, config.ErrAdminExists):
		zlog.Info("nothing to do", zap.String("username", admin.Username))
	case err != nil:
		zlog.Fatal("failed to create admin", zap.Error(err))
	default:
		zlog.Info("admin created",
			zap.String("id", account.ID),
			zap.String("username", account.Username),
			zap.String("email", account.Email),
		)
	}
}
