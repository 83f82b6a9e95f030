package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/api/http/handlers"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/auth"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Accounts       *handlers.AccountsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/sync", cfg.Auth.Sync)
	authGroup.Post("/register", cfg.Auth.Register)

	protected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/me", cfg.Accounts.Me)
	protected.Post("/me/sync", cfg.Auth.SyncMe)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin))
	admin.Get("/accounts/:id", cfg.Accounts.Get)
}
