// ABOUTME: HTTP handlers for the advisory endpoints
// ABOUTME: Parses target parameters and returns cost, strategy, timeline, and AI status

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/markalston/migration-advisor/middleware"
	"github.com/markalston/migration-advisor/models"
	"github.com/markalston/migration-advisor/services"
)

const (
	errBadRequest          = "bad-request"
	errSnapshotUnavailable = "snapshot-unavailable"
)

// parseTarget validates the provider and region of a request. Empty values
// stay empty so the stored preference applies.
func parseTarget(provider, region string) (models.TargetParameters, error) {
	var target models.TargetParameters
	if strings.TrimSpace(provider) != "" {
		p, ok := models.ParseProvider(provider)
		if !ok {
			return target, fmt.Errorf("unknown provider %q (want AWS, Azure, or GCP)", provider)
		}
		target.Provider = p
	}
	if region = strings.TrimSpace(region); region != "" {
		if err := services.ValidateRegion(region); err != nil {
			return target, err
		}
		target.Region = region
	}
	return target, nil
}

// engineFailed maps an engine error to a response.
func (h *Handler) engineFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNoTargetProvider) {
		h.writeError(w, errBadRequest, "provider is required when no cloud preference is stored", http.StatusBadRequest)
		return
	}
	var snapErr *services.SnapshotError
	if errors.As(err, &snapErr) {
		slog.Error("Inventory snapshot failed", "request_id", middleware.RequestID(r.Context()), "error", err)
		h.writeError(w, errSnapshotUnavailable, "Inventory store could not be read", http.StatusInternalServerError)
		return
	}
	slog.Error("Advisory engine failed", "request_id", middleware.RequestID(r.Context()), "error", err)
	h.writeError(w, "internal-error", "", http.StatusInternalServerError)
}

func (h *Handler) engineReady(w http.ResponseWriter) bool {
	if h.engine == nil {
		h.writeError(w, errSnapshotUnavailable, "Advisory engine not configured", http.StatusInternalServerError)
		return false
	}
	return true
}

// EstimateCost handles POST /cost-estimation.
func (h *Handler) EstimateCost(w http.ResponseWriter, r *http.Request) {
	if !h.engineReady(w) {
		return
	}
	var req models.CostRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.writeError(w, errBadRequest, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	target, err := parseTarget(req.Provider, req.Region)
	if err != nil {
		h.writeError(w, errBadRequest, err.Error(), http.StatusBadRequest)
		return
	}

	est, err := h.engine.EstimateCost(r.Context(), target)
	if err != nil {
		h.engineFailed(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, est)
}

// RecommendStrategy handles POST /migration-strategy.
func (h *Handler) RecommendStrategy(w http.ResponseWriter, r *http.Request) {
	if !h.engineReady(w) {
		return
	}
	var req models.StrategyRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.writeError(w, errBadRequest, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	target, err := parseTarget(req.Provider, req.Region)
	if err != nil {
		h.writeError(w, errBadRequest, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Complexity) != "" {
		level, ok := models.ParseLevel(req.Complexity)
		if !ok {
			h.writeError(w, errBadRequest, fmt.Sprintf("unknown complexity %q (want low, medium, or high)", req.Complexity), http.StatusBadRequest)
			return
		}
		target.ComplexityHint = level
	}

	st, err := h.engine.RecommendStrategy(r.Context(), target)
	if err != nil {
		h.engineFailed(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

// BuildTimeline handles POST /timeline.
func (h *Handler) BuildTimeline(w http.ResponseWriter, r *http.Request) {
	if !h.engineReady(w) {
		return
	}
	var req models.TimelineRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.writeError(w, errBadRequest, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	var start time.Time
	if s := strings.TrimSpace(req.StartDate); s != "" {
		parsed, err := time.Parse(models.DateLayout, s)
		if err != nil {
			h.writeError(w, errBadRequest, fmt.Sprintf("start_date %q must be YYYY-MM-DD", s), http.StatusBadRequest)
			return
		}
		start = parsed
	}

	tl, err := h.engine.BuildTimeline(r.Context(), start)
	if err != nil {
		h.engineFailed(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tl)
}

// AIStatus handles GET /ai-status.
func (h *Handler) AIStatus(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		h.writeJSON(w, http.StatusOK, models.AIStatus{
			FallbackMode: true,
			Message:      services.RuleMessage,
		})
		return
	}
	h.writeJSON(w, http.StatusOK, h.engine.Status())
}
