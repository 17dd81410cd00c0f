package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go301/internal/handlers"
	"go301/internal/redirects"
)

// RegisterRoutes registers all application routes. The resolver is
// installed last so the management surface is never shadowed by a rule.
func (s *Server) RegisterRoutes(repo *redirects.Repository) {
	redirectHandler := handlers.NewRedirectHandler(repo)
	importHandler := handlers.NewImportHandler(repo)
	adminHandler := handlers.NewAdminHandler(repo)
	resolveHandler := handlers.NewResolveHandler(repo)

	// Management UI
	s.App.Get("/admin", adminHandler.Index)

	// Redirect CRUD API
	api := s.App.Group("/api/redirects")
	api.Get("/", redirectHandler.GetAll)
	api.Post("/", redirectHandler.Add)
	api.Put("/:id", redirectHandler.Update)
	api.Delete("/cache", redirectHandler.ClearCache)
	api.Delete("/:id", redirectHandler.Delete)
	api.Post("/import", importHandler.Upload)

	// Metrics
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Resolver - catch-all for everything the routes above did not claim
	s.App.Use(resolveHandler.Middleware)
}
