package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fleetdesk/fleetdesk/internal/api/http/handlers"
	"github.com/fleetdesk/fleetdesk/internal/auth"
	"github.com/fleetdesk/fleetdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	PublicTickets *handlers.PublicTicketsHandler
	Tickets       *handlers.TicketsHandler
	Owners        *handlers.OwnersHandler
	Vans          *handlers.VansHandler
	Categories    *handlers.CategoriesHandler
	AdminUsers    *handlers.AdminUsersHandler
	Session       *auth.SessionMiddleware

	// UploadsDir serves locally stored attachments when the local upload
	// provider is active. Empty disables the static route.
	UploadsDir string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.UploadsDir != "" {
		app.Static("/uploads", cfg.UploadsDir)
	}

	api := app.Group("/api")

	// Link-based access: no session required, the UUID token is the credential.
	api.Post("/tickets/create", cfg.PublicTickets.Create)
	public := api.Group("/tickets/public/:uuid")
	public.Get("/", cfg.PublicTickets.Get)
	public.Post("/comments", cfg.PublicTickets.AddComment)
	public.Put("/resolve", cfg.PublicTickets.Resolve)
	public.Post("/reopen", cfg.PublicTickets.Reopen)
	public.Post("/attachments", cfg.PublicTickets.UploadAttachment)

	api.Post("/auth/login", cfg.Auth.Login)
	api.Post("/auth/logout", cfg.Auth.Logout)

	staff := api.Group("", cfg.Session.Handle)
	staff.Get("/auth/me", cfg.Auth.Me)

	staff.Get("/tickets/unassigned", cfg.Tickets.ListUnassigned)
	staff.Get("/tickets/my-tickets", cfg.Tickets.ListMine)
	staff.Get("/tickets/:id", cfg.Tickets.Get)
	staff.Put("/tickets/:id/status", cfg.Tickets.UpdateStatus)
	staff.Post("/tickets/:id/comments", cfg.Tickets.AddComment)

	staff.Get("/owners", cfg.Owners.List)
	staff.Post("/owners", cfg.Owners.Create)
	staff.Get("/owners/:id", cfg.Owners.Get)
	staff.Put("/owners/:id", cfg.Owners.Update)
	staff.Get("/owners/:id/check-dependencies", cfg.Owners.CheckDependencies)
	staff.Delete("/owners/:id", cfg.Owners.Delete)

	staff.Get("/vans", cfg.Vans.List)
	staff.Post("/vans", cfg.Vans.Create)
	staff.Get("/vans/:id", cfg.Vans.Get)
	staff.Put("/vans/:id", cfg.Vans.Update)
	staff.Delete("/vans/:id", cfg.Vans.Delete)

	staff.Get("/categories", cfg.Categories.List)

	admin := staff.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Get("/roles", cfg.AdminUsers.ListRoles)
	admin.Get("/users", cfg.AdminUsers.List)
	admin.Post("/users", cfg.AdminUsers.Create)
	admin.Get("/users/:id", cfg.AdminUsers.Get)
	admin.Put("/users/:id", cfg.AdminUsers.Update)
	admin.Delete("/users/:id", cfg.AdminUsers.Delete)
	admin.Put("/users/:id/roles", cfg.AdminUsers.SetRoles)
	admin.Put("/users/:id/password", cfg.AdminUsers.SetPassword)
}
