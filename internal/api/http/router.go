package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/laundry-service/internal/api/http/handlers"
	"github.com/spec-kit/laundry-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Personal       *handlers.PersonalHandler
	Empresas       *handlers.EmpresasHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	tickets := protected.Group("/tickets")
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Post("/state", cfg.Tickets.BulkUpdateState)
	tickets.Get("/selection", cfg.Tickets.Selection)
	tickets.Post("/select-all", cfg.Tickets.ToggleSelectAll)
	tickets.Patch("/:id/state", cfg.Tickets.UpdateState)
	tickets.Post("/:id/select", cfg.Tickets.ToggleSelect)

	personal := protected.Group("/personal")
	personal.Get("", cfg.Personal.ListPersonal)
	personal.Post("", cfg.Personal.CreatePersonal)
	personal.Patch("/:id", cfg.Personal.UpdatePersonal)
	personal.Delete("/:id", cfg.Personal.DeletePersonal)

	empresas := protected.Group("/empresas")
	empresas.Get("", cfg.Empresas.ListEmpresas)
	empresas.Post("", cfg.Empresas.CreateEmpresa)
	empresas.Patch("/:id", cfg.Empresas.UpdateEmpresa)
	empresas.Delete("/:id", cfg.Empresas.DeleteEmpresa)

	statsGroup := protected.Group("/stats")
	statsGroup.Get("", cfg.Stats.Global)
	statsGroup.Get("/users", cfg.Stats.Users)
	statsGroup.Get("/users/:id", cfg.Stats.User)
	statsGroup.Get("/trends", cfg.Stats.Trends)
	statsGroup.Get("/export", cfg.Stats.Export)
}
