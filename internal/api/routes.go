package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yegors/navlog/internal/config"
	"github.com/yegors/navlog/internal/extraction"
	"github.com/yegors/navlog/internal/release"
	"github.com/yegors/navlog/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(releaseService *release.Service, extractor extraction.Extractor, config *config.Config, logger *logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(releaseService, extractor, config, logger),
		middleware: NewMiddleware(logger),
		config:     config,
		logger:     logger.Named("api-router"),
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))

	// API routes
	router.Route("/api/v1", func(router chi.Router) {
		// Release routes
		router.Post("/release", r.handler.SubmitRelease)
		router.Post("/extract", r.handler.ExtractAndSubmit)

		// Navlog routes
		router.Get("/navlog", r.handler.GetNavlog)

		// Pilot entry routes
		router.Post("/takeoff", r.handler.SetActualTakeoff)
		router.Post("/waypoints/{index}/actual", r.handler.SetActualWaypoint)

		// Health check
		router.Get("/health", r.handler.GetHealth)

		// Configuration
		router.Get("/config", r.handler.GetConfig)
	})

	return router
}
