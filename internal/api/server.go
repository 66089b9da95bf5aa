// Package api provides the HTTP API server and handlers for the shelflog application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelflog/shelflog-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	router   *chi.Mux
	api      huma.API
	services *Services
	store    store.Store
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, logger *slog.Logger) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		services: services,
		store:    st,
		logger:   logger,
	}

	s.setupMiddleware()

	config := huma.DefaultConfig("Shelflog API", "1.0.0")
	config.Info.Description = "Personal book tracking: plan, read, review."
	RegisterErrorHandler()
	s.api = humachi.New(s.router, config)

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "If-None-Match"},
		ExposedHeaders:   []string{"ETag", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(authMiddleware(s.services.Auth))
}

// setupRoutes registers all API routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerPlanRoutes()
	s.registerReadingRoutes()
	s.registerReviewRoutes()
	s.registerSearchRoutes()

	// Raw chi routes for streaming responses (CSV exports, cover images).
	// These bypass huma so the bytes go straight to the client.
	s.router.Get("/api/v1/export/plans.csv", s.handleExportPlans)
	s.router.Get("/api/v1/export/readings.csv", s.handleExportReadings)
	s.router.Get("/api/v1/export/reviews.csv", s.handleExportReviews)
	s.router.Get("/api/v1/books/{id}/cover", s.handleGetCover)
}
