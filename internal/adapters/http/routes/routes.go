package routes

import (
	"crm-leads/internal/adapters/http/handlers"
	"crm-leads/internal/adapters/http/middleware"
	"crm-leads/internal/adapters/persistence/repositories"
	"crm-leads/internal/config"
	"crm-leads/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies are the stores the routes are wired to
type Dependencies struct {
	Leads    repositories.LeadRepository
	Accounts repositories.AccountRepository
	// Denylist is optional; without it logout only clears the cookie
	Denylist repositories.TokenDenylist
	Ping     handlers.Pinger

	AuthOptions []services.AuthOption
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps Dependencies, cfg *config.Config, log *zap.Logger) {
	// Initialize services
	leadService := services.NewLeadService(deps.Leads, log)
	authService := services.NewAuthService(deps.Accounts, deps.Denylist, cfg, log, deps.AuthOptions...)
	accountService := services.NewAccountService(deps.Accounts, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, deps.Ping)
	authHandler := handlers.NewAuthHandler(authService, cfg, log)
	leadHandler := handlers.NewLeadHandler(leadService, log)
	reportHandler := handlers.NewReportHandler(leadService, log)
	accountHandler := handlers.NewAccountHandler(accountService, log)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	requireAuth := middleware.AuthMiddleware(authService)

	setupAuthRoutes(apiV1.Group("/auth"), authHandler, requireAuth)
	setupLeadRoutes(apiV1, leadHandler, requireAuth)
	setupReportRoutes(apiV1.Group("/leads"), reportHandler, requireAuth)
	setupAccountRoutes(apiV1.Group("/accounts", requireAuth, middleware.AdminOnly()), accountHandler)
}

// setupAuthRoutes configures auth routes
func setupAuthRoutes(router fiber.Router, h *handlers.AuthHandler, requireAuth fiber.Handler) {
	router.Post("/register", middleware.AuthRateLimiter(), h.Register)
	router.Post("/login", middleware.AuthRateLimiter(), h.Login)
	router.Post("/logout", h.Logout)
	router.Get("/me", requireAuth, h.Me)
	router.Put("/password", requireAuth, h.ChangePassword)
}

// setupLeadRoutes configures lead routes; reads are public, writes need a credential
func setupLeadRoutes(router fiber.Router, h *handlers.LeadHandler, requireAuth fiber.Handler) {
	router.Get("/get-all-leads", h.GetAllLeads)
	router.Get("/get-client-lead/:id", h.GetLead)
	router.Get("/get-leads-by-employee-query", h.GetLeadsByEmployeeQuery)
	router.Get("/get-leads-by-employee/:employeeName", h.GetLeadsByEmployee)

	router.Post("/add-client-lead", requireAuth, h.CreateLead)
	router.Put("/update-client-lead/:id", requireAuth, h.UpdateLead)
	router.Delete("/delete-client-lead/:id", requireAuth, h.DeleteLead)
}

// setupReportRoutes configures dashboard and export routes
func setupReportRoutes(router fiber.Router, h *handlers.ReportHandler, requireAuth fiber.Handler) {
	router.Use(middleware.NoCacheHeaders())

	router.Get("/dashboard", h.Dashboard)
	router.Get("/export", requireAuth, middleware.ManagerOrAdmin(), h.Export)
}

// setupAccountRoutes configures account administration routes (Admin only)
func setupAccountRoutes(router fiber.Router, h *handlers.AccountHandler) {
	router.Get("/", h.ListAccounts)
	router.Put("/:id/role", h.SetRole)
	router.Delete("/:id", h.DeleteAccount)
}
