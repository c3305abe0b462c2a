package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm-leads/internal/adapters/http/middleware"
	"crm-leads/internal/adapters/http/routes"
	"crm-leads/internal/adapters/persistence/models"
	"crm-leads/internal/adapters/persistence/repositories"
	"crm-leads/internal/config"
	"crm-leads/internal/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	_ "crm-leads/docs" // Swagger docs
)

// @title Lead Management API
// @version 1.0
// @description Sales lead capture, reporting and account access API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@digitalbuddiess.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const denylistPruneSpec = "@every 10m"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "crm-leads")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	if !cfg.DotEnvLoaded {
		zlog.Debug("no .env file found, using process environment")
	}

	deps, cleanup, err := buildDependencies(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialise stores", zap.Error(err))
	}
	defer cleanup()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Lead Management API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg, zlog)

	// Setup routes
	routes.Setup(app, deps, cfg, zlog)

	// Graceful shutdown
	go gracefulShutdown(app, zlog)

	zlog.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("mode", cfg.AppMode),
		zap.String("driver", cfg.Database.Driver),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

// buildDependencies opens the lead and account stores and the token denylist.
// The returned cleanup releases whatever was opened.
func buildDependencies(cfg *config.Config, zlog *zap.Logger) (routes.Dependencies, func(), error) {
	var deps routes.Dependencies
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Database.Driver {
	case "memory":
		accounts := repositories.NewMemoryAccountRepository()
		deps.Leads = repositories.NewMemoryLeadRepository()
		deps.Accounts = accounts

		// nothing survives a restart, so the admin is provisioned every boot
		seeder := config.NewSeeder(accounts, cfg.Admin, zlog)
		if _, err := seeder.SeedAdmin(context.Background()); err != nil {
			zlog.Warn("failed to seed admin account", zap.Error(err))
		}
		zlog.Warn("using in-memory stores; data is lost on restart")

	default:
		db, err := config.ConnectDatabase(cfg, zlog)
		if err != nil {
			return deps, cleanup, err
		}
		closers = append(closers, func() {
			if err := config.CloseDatabase(db); err != nil {
				zlog.Error("failed to close database", zap.Error(err))
			}
		})

		// Auto migrate (creates tables if not exist)
		if err := models.AutoMigrate(db); err != nil {
			cleanup()
			return deps, func() {}, fmt.Errorf("auto migrate: %w", err)
		}
		zlog.Info("database migration completed")

		deps.Leads = repositories.NewLeadRepository(db)
		deps.Accounts = repositories.NewAccountRepository(db)
		deps.Ping = config.DatabasePinger(db)
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			_ = client.Close()
			cleanup()
			return deps, func() {}, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		closers = append(closers, func() { _ = client.Close() })
		deps.Denylist = repositories.NewRedisTokenDenylist(client)
		zlog.Info("token denylist backed by redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		denylist := repositories.NewMemoryTokenDenylist(zlog)
		if err := denylist.StartPruning(denylistPruneSpec); err != nil {
			cleanup()
			return deps, func() {}, err
		}
		closers = append(closers, denylist.Stop)
		deps.Denylist = denylist
	}

	return deps, cleanup, nil
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, zlog *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
	zlog.Info("server stopped gracefully")
}
