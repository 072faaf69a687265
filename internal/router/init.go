package router

import (
	"github.com/velizario/gemini-children-events-be/internal/container"
	handlers "github.com/velizario/gemini-children-events-be/internal/interface/http"
	"github.com/velizario/gemini-children-events-be/internal/interface/middleware"
	"github.com/velizario/gemini-children-events-be/internal/router/modules"
)

// InitModules builds the HTTP handlers from the container and adds every
// feature module to the registry. Call once during startup.
func InitModules(r *Registry, c *container.Container) {
	auth := middleware.Auth(c.Users)
	cfg := c.Config

	userHandler := handlers.NewUserHandler(c.Users, c.Logger, cfg.CookieDomain, cfg.CookieSecure)
	eventHandler := handlers.NewEventHandler(c.Events, c.Registrations, c.Logger)
	reviewHandler := handlers.NewReviewHandler(c.Reviews, c.Logger)
	organizerHandler := handlers.NewOrganizerHandler(c.Organizers, c.Logger)

	r.Add(modules.NewUserModule(userHandler, auth, c.Redis))
	r.Add(modules.NewEventModule(eventHandler, auth, c.Redis))
	r.Add(modules.NewReviewModule(reviewHandler, auth, c.Redis))
	r.Add(modules.NewOrganizerModule(organizerHandler, c.Redis))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
}
