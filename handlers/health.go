// ABOUTME: HTTP handlers for health and inventory summary endpoints
// ABOUTME: Reports store reachability, AI availability, and snapshot counts

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/markalston/migration-advisor/models")

// Health returns API health status including store, AI, and vSphere status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:    "ok",
		Store:     "not_configured",
		VSphere:   "not_configured",
		Timestamp: time.Now().UTC(),
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			slog.Warn("Inventory store ping failed", "error", err)
			resp.Store = "unavailable"
			resp.Status = "degraded"
		} else {
			resp.Store = "ok"
		}
	}
	if h.engine != nil {
		resp.AIEnabled = h.engine.Status().AIEnabled
	}
	if h.vsphere != nil {
		resp.VSphere = "configured"
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// InventorySummary returns counts and totals for the current snapshot.
func (h *Handler) InventorySummary(w http.ResponseWriter, r *http.Request) {
	if h.inventory == nil {
		h.writeError(w, errSnapshotUnavailable, "Inventory store not configured", http.StatusInternalServerError)
		return
	}

	snap, err := h.inventory.Snapshot(r.Context(), models.TargetParameters{})
	if err != nil {
		h.engineFailed(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, snap.Summarize())
}
