// Package api provides the HTTP API server and handlers for LevelUp.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/levelupapp/levelup-server/internal/ratelimit"
	"github.com/levelupapp/levelup-server/internal/sse"
	"github.com/levelupapp/levelup-server/internal/store"
)

// Options holds HTTP settings that are not services.
type Options struct {
	Version     string
	CORSOrigins []string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	repo       store.Repository
	services   *Services
	sseManager *sse.Manager
	sseHandler *sse.Handler
	limiter    *ratelimit.KeyedRateLimiter
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// A nil limiter disables rate limiting.
func NewServer(
	repo store.Repository,
	services *Services,
	sseManager *sse.Manager,
	limiter *ratelimit.KeyedRateLimiter,
	opts Options,
	logger *slog.Logger,
) *Server {
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	s := &Server{
		repo:       repo,
		services:   services,
		sseManager: sseManager,
		sseHandler: sse.NewHandler(sseManager, logger),
		limiter:    limiter,
		router:     chi.NewRouter(),
		logger:     logger,
	}

	// chi requires middleware before any route is mounted.
	s.setupMiddleware(opts.CORSOrigins)

	humaConfig := huma.DefaultConfig("LevelUp API", opts.Version)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler(logger)

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	}
}

func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerProfileRoutes()
	s.registerProgressRoutes()
	s.registerLeaderboardRoutes()

	// SSE stays on chi; huma operations can't hold a streaming response open.
	s.router.Get("/api/v1/events", s.sseHandler.ServeHTTP)
}
