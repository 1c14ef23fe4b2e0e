package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AFNANSH552/nutrition-ai-agent/internal/agent"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/api/respond"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/cache"
)

// serveCached handles the cache/ETag dance for reference data endpoints.
// fetch is only invoked on a cache miss.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, fetch func() (interface{}, error)) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLReference, true)
		return
	}

	v, err := fetch()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	etag := h.cache.Set(key, data, cache.TTLReference)
	respond.WriteJSON(w, data, etag, cache.TTLReference, false)
}

// ListUsers returns all known user IDs.
// @Summary List user IDs
// @Tags reference
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "users:all", func() (interface{}, error) {
		ids, err := h.provider.ListUserIDs(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"users": ids, "count": len(ids)}, nil
	})
}

// GetUser returns a single user profile.
// @Summary Get user profile
// @Tags reference
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} agent.UserProfile
// @Failure 404 {object} respond.ErrorResponse
// @Router /users/{userID} [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.provider.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, user)
}

// ListFoods returns the food catalog, optionally filtered.
// @Summary List foods
// @Tags reference
// @Produce json
// @Param veg query bool false "Only vegetarian foods"
// @Param tag query string false "Filter by tag"
// @Success 200 {object} map[string]interface{}
// @Router /foods [get]
func (h *Handler) ListFoods(w http.ResponseWriter, r *http.Request) {
	vegOnly := r.URL.Query().Get("veg") == "true"
	tag := strings.ToLower(r.URL.Query().Get("tag"))

	key := "foods:all"
	if vegOnly || tag != "" {
		key = "foods:veg=" + r.URL.Query().Get("veg") + ":tag=" + tag
	}
	h.serveCached(w, r, key, func() (interface{}, error) {
		foods, err := h.provider.ListFoods(r.Context())
		if err != nil {
			return nil, err
		}
		filtered := make([]agent.FoodItem, 0, len(foods))
		for _, f := range foods {
			if vegOnly && !f.IsVeg {
				continue
			}
			if tag != "" && !hasTag(f, tag) {
				continue
			}
			filtered = append(filtered, f)
		}
		return map[string]interface{}{"foods": filtered, "count": len(filtered)}, nil
	})
}

// GetFood returns a single food item.
// @Summary Get food item
// @Tags reference
// @Produce json
// @Param foodID path string true "Food ID"
// @Success 200 {object} agent.FoodItem
// @Failure 404 {object} respond.ErrorResponse
// @Router /foods/{foodID} [get]
func (h *Handler) GetFood(w http.ResponseWriter, r *http.Request) {
	foodID := chi.URLParam(r, "foodID")
	foods, err := h.provider.ListFoods(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	for _, f := range foods {
		if f.ID == foodID {
			respond.WriteJSONObject(w, http.StatusOK, f)
			return
		}
	}
	respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "unknown food: "+foodID)
}

func hasTag(f agent.FoodItem, tag string) bool {
	for _, t := range f.Tags {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
}

// ListConditions returns all conditions with scoring weights.
// @Summary List health conditions
// @Tags reference
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /conditions [get]
func (h *Handler) ListConditions(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "conditions:all", func() (interface{}, error) {
		conditions, err := h.provider.ListConditions(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"conditions": conditions, "count": len(conditions)}, nil
	})
}

// GetConditionNutrients returns the nutrient weights for one condition.
// @Summary Nutrient weights for a condition
// @Tags reference
// @Produce json
// @Param condition path string true "Condition name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /conditions/{condition}/nutrients [get]
func (h *Handler) GetConditionNutrients(w http.ResponseWriter, r *http.Request) {
	condition := chi.URLParam(r, "condition")
	if unescaped, err := url.PathUnescape(condition); err == nil {
		condition = unescaped
	}
	weights, err := h.provider.GetConditionWeights(r.Context(), condition)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(weights) == 0 {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "unknown condition: "+condition)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"condition": condition,
		"nutrients": weights,
	})
}

// ListTemplates returns all message templates.
// @Summary List message templates
// @Tags reference
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /templates [get]
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "templates:all", func() (interface{}, error) {
		templates, err := h.provider.ListTemplates(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"templates": templates, "count": len(templates)}, nil
	})
}
