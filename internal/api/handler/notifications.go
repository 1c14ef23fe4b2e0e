package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AFNANSH552/nutrition-ai-agent/internal/agent"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/api/respond"
	"github.com/AFNANSH552/nutrition-ai-agent/internal/cache"
)

type generateRequest struct {
	UserID string `json:"user_id"`
	Now    string `json:"now,omitempty"`
}

type safetyRequest struct {
	UserID string `json:"user_id"`
	FoodID string `json:"food_id"`
}

type evaluateRequest struct {
	UserIDs []string `json:"user_ids,omitempty"`
	Start   string   `json:"start,omitempty"`
	Days    int      `json:"days,omitempty"`
	Hours   []int    `json:"hours,omitempty"`
}

// parseNow accepts an RFC3339 timestamp or defaults to the current time.
func parseNow(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

// GenerateNotifications runs the decision pipeline for one user.
// @Summary Generate notifications for a user
// @Description Runs trigger detection, candidate ranking, pacing checks and message composition for a single user at a given time.
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body generateRequest true "Generation request"
// @Success 200 {object} agent.Result
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /notifications/generate [post]
func (h *Handler) GenerateNotifications(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body: "+err.Error())
		return
	}
	if req.UserID == "" {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "user_id is required")
		return
	}
	now, err := parseNow(req.Now)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "now must be RFC3339: "+err.Error())
		return
	}

	result, err := h.pipeline.GenerateNotifications(r.Context(), req.UserID, now)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, result)
}

// GetTriggers reports which triggers are currently active for a user.
// @Summary Active triggers for a user
// @Tags notifications
// @Produce json
// @Param userID path string true "User ID"
// @Param now query string false "Evaluation time (RFC3339)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /triggers/{userID} [get]
func (h *Handler) GetTriggers(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	now, err := parseNow(r.URL.Query().Get("now"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "now must be RFC3339: "+err.Error())
		return
	}

	triggers, err := h.pipeline.ActiveTriggers(r.Context(), userID, now)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"user_id":  userID,
		"now":      now.UTC().Format(time.RFC3339),
		"triggers": triggers,
		"count":    len(triggers),
	})
}

// TestSafety checks one food against one user's dietary constraints.
// @Summary Test food safety for a user
// @Tags safety
// @Accept json
// @Produce json
// @Param request body safetyRequest true "Safety test request"
// @Success 200 {object} agent.SafetyReport
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /safety/test [post]
func (h *Handler) TestSafety(w http.ResponseWriter, r *http.Request) {
	var req safetyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body: "+err.Error())
		return
	}
	if req.UserID == "" || req.FoodID == "" {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "user_id and food_id are required")
		return
	}

	report, err := h.pipeline.TestSafety(r.Context(), req.UserID, req.FoodID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, report)
}

// Evaluate runs a multi-day simulation sweep over all users.
// @Summary Run evaluation sweep
// @Description Simulates the pipeline across several days and checkpoint hours for every user, and reports aggregate quality metrics.
// @Tags evaluation
// @Accept json
// @Produce json
// @Param request body evaluateRequest false "Evaluation options"
// @Success 200 {object} agent.EvaluationReport
// @Failure 400 {object} respond.ErrorResponse
// @Router /evaluate [post]
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body: "+err.Error())
			return
		}
	}

	opts := agent.EvaluateOptions{Days: req.Days, Hours: req.Hours}
	if req.Start != "" {
		start, err := time.Parse(time.RFC3339, req.Start)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "start must be RFC3339: "+err.Error())
			return
		}
		opts.Start = start
	}

	userIDs := req.UserIDs
	if len(userIDs) == 0 {
		var err error
		userIDs, err = h.provider.ListUserIDs(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
	}

	// Sweeps are expensive and append to the log; identical requests inside
	// the evaluation TTL are served from cache.
	key := fmt.Sprintf("evaluate:%s:%d:%v:%v", req.Start, req.Days, req.Hours, userIDs)
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLEvaluation, true)
		return
	}

	report, err := h.pipeline.Evaluate(r.Context(), userIDs, opts)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	etag := h.cache.Set(key, data, cache.TTLEvaluation)
	respond.WriteJSON(w, data, etag, cache.TTLEvaluation, false)
}
