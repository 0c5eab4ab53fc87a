package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/api/handlers"
	"github.com/pagewright/pagewright/internal/api/middleware"
	"github.com/pagewright/pagewright/internal/assistant"
	"github.com/pagewright/pagewright/internal/feedback"
	"github.com/pagewright/pagewright/internal/intelligence"
	"github.com/pagewright/pagewright/internal/observability"
	"github.com/pagewright/pagewright/internal/repository/postgres"
	rediscache "github.com/pagewright/pagewright/internal/repository/redis"
	"github.com/pagewright/pagewright/internal/services/export"
	"github.com/pagewright/pagewright/pkg/httputil"
)

// Router holds the HTTP router and its dependencies
type Router struct {
	chi.Router
	logger *zap.Logger
}

// RouterConfig contains configuration for the router. Everything except
// Engine and Logger is optional; missing pieces disable their routes or
// degrade them gracefully.
type RouterConfig struct {
	Engine      *intelligence.Engine
	Assistant   *assistant.Service
	Recorder    *feedback.Recorder
	Shares      *export.ShareService
	DB          *postgres.DB
	Repos       *postgres.Repositories
	Cache       *rediscache.Cache
	ResultCache *rediscache.ResultCache
	Metrics     *observability.Metrics
	Logger      *zap.Logger

	EnableCORS  bool
	CORSOrigins []string
	RateLimit   int
	Development bool

	// AsyncProvisioning marks that a durable workflow worker handles
	// template instantiation, turning those responses into 202s.
	AsyncProvisioning bool
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Base middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewRecoveryMiddleware(cfg.Logger).Handler)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Handler)
	r.Use(chimw.Timeout(60 * time.Second))

	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.HTTPMiddleware)
	}

	// CORS configuration
	if cfg.EnableCORS {
		origins := cfg.CORSOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Tenant-ID", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Rate limiting (if Redis is available)
	if cfg.Cache != nil && cfg.RateLimit > 0 {
		r.Use(middleware.NewRateLimitMiddleware(cfg.Cache, cfg.RateLimit, true).Handler)
	}

	// Health and metrics endpoints (no auth required)
	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(cfg.DB, cfg.Cache))
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth middleware for API routes
		authOpts := []middleware.AuthMiddlewareOption{
			middleware.WithDevMode(cfg.Development),
		}
		if cfg.Repos != nil {
			authOpts = append(authOpts, middleware.WithAPIKeyRepository(cfg.Repos.APIKeys))
		} else {
			authOpts = append(authOpts, middleware.WithSkipDBLookup(true))
		}
		if cfg.Cache != nil {
			authOpts = append(authOpts, middleware.WithCache(cfg.Cache))
		}
		r.Use(middleware.NewAuthMiddleware(authOpts...).Handler)

		// Initialize handlers
		promptHandler := handlers.NewPromptHandler(cfg.Engine, cfg.ResultCache, cfg.Metrics, cfg.Logger)
		componentHandler := handlers.NewComponentHandler(cfg.Engine, cfg.Metrics, cfg.Logger)
		workflowHandler := handlers.NewWorkflowHandler(cfg.Assistant, cfg.Engine, cfg.ResultCache, cfg.Metrics, cfg.Logger)
		templateHandler := handlers.NewTemplateHandler(cfg.Assistant, cfg.AsyncProvisioning, cfg.Logger)
		siteHandler := handlers.NewSiteHandler(cfg.Assistant, cfg.Metrics, cfg.Logger)

		r.Route("/prompts", func(r chi.Router) {
			r.Post("/analyze", promptHandler.Analyze)
			r.Post("/validate", promptHandler.Validate)
			r.Post("/variations", promptHandler.Variations)
			r.Post("/templates", promptHandler.MatchTemplates)
		})

		r.Route("/components", func(r chi.Router) {
			r.Post("/detect", componentHandler.Detect)
			r.Post("/generate", componentHandler.Generate)
			r.Get("/patterns", componentHandler.Patterns)
		})

		r.Route("/workflows", func(r chi.Router) {
			r.Post("/suggest", workflowHandler.Suggest)
			r.Post("/stage", workflowHandler.Stage)
			r.Post("/gaps", workflowHandler.Gaps)
		})

		r.Post("/templates/{id}/instantiate", templateHandler.Instantiate)
		r.Post("/sites/analyze", siteHandler.Analyze)

		if cfg.Recorder != nil {
			feedbackHandler := handlers.NewFeedbackHandler(cfg.Recorder, cfg.Metrics, cfg.Logger)
			r.With(middleware.RequireTenant).Post("/feedback", feedbackHandler.Create)
		}

		if cfg.Shares != nil {
			shareHandler := handlers.NewShareHandler(cfg.Shares, cfg.Metrics, cfg.Logger)
			r.With(middleware.RequireTenant).Post("/shares", shareHandler.Create)
			// Share links are the one public API surface
			r.Get("/shares/{code}", shareHandler.Resolve)
		}
	})

	return &Router{
		Router: r,
		logger: cfg.Logger,
	}
}

// healthHandler returns basic health status
func healthHandler(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "pagewright-api",
	})
}

// readyHandler checks if the optional backing stores are reachable. The
// engine itself is in-process and always ready.
func readyHandler(db *postgres.DB, cache *rediscache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]string)
		allHealthy := true

		if db != nil {
			if err := db.Health(r.Context()); err != nil {
				checks["database"] = "unhealthy: " + err.Error()
				allHealthy = false
			} else {
				checks["database"] = "healthy"
			}
		} else {
			checks["database"] = "not configured"
		}

		if cache != nil {
			if err := cache.Health(r.Context()); err != nil {
				checks["redis"] = "unhealthy: " + err.Error()
				allHealthy = false
			} else {
				checks["redis"] = "healthy"
			}
		} else {
			checks["redis"] = "not configured"
		}

		status := http.StatusOK
		statusText := "ready"
		if !allHealthy {
			status = http.StatusServiceUnavailable
			statusText = "not ready"
		}

		httputil.JSON(w, status, map[string]any{
			"status": statusText,
			"checks": checks,
		})
	}
}
