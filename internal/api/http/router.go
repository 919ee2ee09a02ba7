package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ed-platform/account-service/internal/api/http/handlers"
	"github.com/ed-platform/account-service/internal/auth"
)

// PublicRoutes lists the endpoints exempt from authentication. The guard is
// constructed from this same list, so route registration and gating cannot
// drift apart.
func PublicRoutes() []string {
	return []string{
		"POST /auth/login",
		"GET /health/live",
		"GET /health/ready",
	}
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Users  *handlers.UsersHandler
	Groups *handlers.GroupsHandler
	Guard  *auth.Guard
}

// RegisterRoutes wires HTTP routes. The guard runs ahead of every route;
// anything not in the public set requires a valid bearer token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Guard.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/auth/login", cfg.Auth.Login)

	users := app.Group("/users")
	users.Get("/stats", cfg.Users.Stats)
	users.Get("/search/:identifier", cfg.Users.Search)
	users.Post("/bulk-action", cfg.Users.BulkAction)
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
	users.Post("/:id/lock", cfg.Users.Lock)
	users.Post("/:id/unlock", cfg.Users.Unlock)

	groups := app.Group("/groups")
	groups.Get("/stats", cfg.Groups.Stats)
	groups.Get("/group-id/:groupId", cfg.Groups.GetByGroupID)
	groups.Get("/search/:identifier", cfg.Groups.Search)
	groups.Get("/date-range", cfg.Groups.DateRange)
	groups.Get("/birthdays", cfg.Groups.Birthdays)
	groups.Get("/", cfg.Groups.List)
	groups.Post("/", cfg.Groups.Create)
	groups.Get("/:id", cfg.Groups.Get)
	groups.Patch("/:id", cfg.Groups.Update)
	groups.Delete("/:id", cfg.Groups.Delete)
}
