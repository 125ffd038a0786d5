package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"toxshield/internal/classifier"
	"toxshield/internal/coordinator"
	"toxshield/internal/handlers"
	"toxshield/internal/handlers/api"
	"toxshield/internal/middleware"
	"toxshield/internal/panel"
	"toxshield/internal/tabs"
)

// Deps are the components the routes are served from.
type Deps struct {
	Coordinator *coordinator.Coordinator
	Tabs        *tabs.Manager
	Panel       *panel.Panel
	Analyzer    classifier.Analyzer
	Endpoints   handlers.EndpointStatus
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(d Deps) {
	probeHandler := handlers.NewProbeHandler(d.Endpoints)
	panelHandler := handlers.NewPanelHandler(d.Panel, d.Endpoints)
	messageHandler := api.NewMessageHandler(d.Coordinator)
	tabHandler := api.NewTabHandler(d.Tabs)
	selectionHandler := api.NewSelectionHandler(d.Analyzer)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Message bus
	s.App.Post("/api/messages", middleware.TabOrigin, messageHandler.Send)

	// Host events
	s.App.Get("/api/tabs", tabHandler.List)
	s.App.Post("/api/tabs", tabHandler.Open)
	s.App.Get("/api/tabs/:id", tabHandler.Get)
	s.App.Put("/api/tabs/:id/content", tabHandler.Load)
	s.App.Post("/api/tabs/:id/activate", tabHandler.Activate)
	s.App.Post("/api/tabs/:id/analyze-now", tabHandler.AnalyzeNow)
	s.App.Delete("/api/tabs/:id", tabHandler.Close)

	// Context-menu analysis
	s.App.Post("/api/selection", selectionHandler.Analyze)

	// Panel
	s.App.Get("/panel", panelHandler.Show)
	s.App.Post("/panel/refresh", panelHandler.Refresh)
}
