// Package handler provides HTTP handlers for all API endpoints. The handlers
// are a thin caller around the pipeline: they parse parameters, invoke it,
// and serialize its output.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/AFNANSH552/nutrition-ai-agent/internal/agent"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/api/respond"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/cache"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/config"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pipeline *agent.Pipeline
	provider agent.DataProvider
	cache    *cache.Cache
	cfg      *config.Config

	// dbHealth is nil when the in-memory provider is active.
	dbHealth func(ctx context.Context) error
}

// New creates a Handler with shared dependencies.
func New(pipeline *agent.Pipeline, provider agent.DataProvider, c *cache.Cache, cfg *config.Config, dbHealth func(ctx context.Context) error) *Handler {
	return &Handler{
		pipeline: pipeline,
		provider: provider,
		cache:    c,
		cfg:      cfg,
		dbHealth: dbHealth,
	}
}

// writeDomainError maps pipeline errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, agent.ErrNotFound):
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, agent.ErrProviderUnavailable):
		respond.WriteError(w, http.StatusServiceUnavailable, "PROVIDER_UNAVAILABLE", err.Error())
	default:
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

// Root serves API info at /.
// @Summary API root info
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Nutrition Notification Agent API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	users, _ := h.provider.ListUserIDs(r.Context())
	foods, _ := h.provider.ListFoods(r.Context())
	templates, _ := h.provider.ListTemplates(r.Context())
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":           "healthy",
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"users_loaded":     len(users),
		"foods_loaded":     len(foods),
		"templates_loaded": len(templates),
		"safety_incidents": h.pipeline.SafetyIncidents(),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.dbHealth == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"database": "in-memory",
		})
		return
	}
	if err := h.dbHealth(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
