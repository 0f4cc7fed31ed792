package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/campus-safety/incident-service/internal/api/http/handlers"
	"github.com/campus-safety/incident-service/internal/auth"
	"github.com/campus-safety/incident-service/internal/domain"
	"github.com/campus-safety/incident-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Session        *handlers.SessionHandler
	Incidents      *handlers.IncidentsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	session := app.Group("/session")
	session.Post("/login", cfg.Session.Login)
	session.Post("/logout", cfg.Session.Logout)
	session.Get("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Session.Me)

	incidents := app.Group("/incidents", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	incidents.Post("", cfg.Incidents.Create)
	incidents.Get("", cfg.Incidents.List)
	incidents.Get("/mine", cfg.Incidents.Mine)
	incidents.Get("/stats", auth.RequireCapability(domain.CapabilityViewStats), cfg.Incidents.Stats)
	incidents.Get("/queue", auth.RequireCapability(domain.CapabilityViewStats), cfg.Incidents.Queue)
	incidents.Get("/ref/:reference", cfg.Incidents.GetByReference)
	incidents.Get("/:id", cfg.Incidents.Get)
	incidents.Get("/:id/history", auth.RequireCapability(domain.CapabilitySeeAllIncidents), cfg.Incidents.History)
	incidents.Patch("/:id/status", auth.RequireCapability(domain.CapabilityChangeStatus), cfg.Incidents.UpdateStatus)
	incidents.Patch("/:id/assignee", auth.RequireCapability(domain.CapabilityAssign), cfg.Incidents.Assign)

	app.Use(observability.NotFound)
}
