package api

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/AFNANSH552/nutrition-ai-agent/internal/agent"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/api/handler"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/cache"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
// dbHealth may be nil when running against the in-memory provider.
func NewRouter(pipeline *agent.Pipeline, provider agent.DataProvider, appCache *cache.Cache, cfg *config.Config, dbHealth func(ctx context.Context) error) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "Link", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(pipeline, provider, appCache, cfg, dbHealth)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Decision pipeline
		r.Post("/notifications/generate", h.GenerateNotifications)
		r.Get("/triggers/{userID}", h.GetTriggers)
		r.Post("/safety/test", h.TestSafety)
		r.Post("/evaluate", h.Evaluate)

		// Reference data
		r.Get("/users", h.ListUsers)
		r.Get("/users/{userID}", h.GetUser)
		r.Get("/foods", h.ListFoods)
		r.Get("/foods/{foodID}", h.GetFood)
		r.Get("/conditions", h.ListConditions)
		r.Get("/conditions/{condition}/nutrients", h.GetConditionNutrients)
		r.Get("/templates", h.ListTemplates)
	})

	return r
}
