// ABOUTME: HTTP handlers for vSphere discovery preview and import
// ABOUTME: Caches discovery results and coalesces concurrent vCenter sessions

package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/markalston/migration-advisor/middleware"
	"github.com/markalston/migration-advisor/models"
	"github.com/markalston/migration-advisor/services"
	"github.com/markalston/migration-advisor/store"
)

const (
	vsphereCacheKey  = "vsphere:servers"
	vsphereTimeout   = 60 * time.Second
	vsphereNotConfig = "vSphere not configured. Set VSPHERE_HOST, VSPHERE_USERNAME, VSPHERE_PASSWORD, and VSPHERE_DATACENTER environment variables."
)

// VSpherePreview lists the servers an import would write.
type VSpherePreview struct {
	Servers   []models.Server `json:"servers"`
	Count     int             `json:"count"`
	Cached    bool            `json:"cached"`
	Timestamp time.Time       `json:"timestamp"`
}

// discoverServers runs one vCenter session. Concurrent callers share it.
func (h *Handler) discoverServers(ctx context.Context) ([]store.ServerRow, error) {
	v, err, shared := h.vsphereSF.Do("discover", func() (interface{}, error) {
		// Detached so one caller hanging up does not fail the others.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), vsphereTimeout)
		defer cancel()

		if err := h.vsphere.Connect(ctx); err != nil {
			return nil, fmt.Errorf("connecting to vSphere: %w", err)
		}
		defer h.vsphere.Disconnect(ctx)

		rows, err := h.vsphere.DiscoverServers(ctx)
		if err != nil {
			return nil, fmt.Errorf("discovering servers: %w", err)
		}
		if h.cache != nil {
			h.cache.SetWithTTL(vsphereCacheKey, rows, h.vsphereTTL())
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("vSphere discovery shared with concurrent request")
	}
	return v.([]store.ServerRow), nil
}

func (h *Handler) vsphereTTL() time.Duration {
	if h.cfg == nil {
		return 5 * time.Minute
	}
	return time.Duration(h.cfg.VSphereCacheTTL) * time.Second
}

func previewOf(rows []store.ServerRow, cached bool) VSpherePreview {
	snap := services.Project(&store.Inventory{Servers: rows}, models.TargetParameters{})
	return VSpherePreview{
		Servers:   snap.Servers,
		Count:     len(snap.Servers),
		Cached:    cached,
		Timestamp: time.Now().UTC(),
	}
}

// VSphereServers handles GET /inventory/vsphere.
func (h *Handler) VSphereServers(w http.ResponseWriter, r *http.Request) {
	if h.vsphere == nil {
		h.writeError(w, vsphereNotConfig, "", http.StatusServiceUnavailable)
		return
	}

	if h.cache != nil {
		if cached, found := h.cache.Get(vsphereCacheKey); found {
			slog.Debug("vSphere discovery cache hit")
			h.writeJSON(w, http.StatusOK, previewOf(cached.([]store.ServerRow), true))
			return
		}
	}

	rows, err := h.discoverServers(r.Context())
	if err != nil {
		slog.Error("vSphere discovery failed", "request_id", middleware.RequestID(r.Context()), "error", err)
		h.writeError(w, "Infrastructure service temporarily unavailable", err.Error(), http.StatusServiceUnavailable)
		return
	}

	h.writeJSON(w, http.StatusOK, previewOf(rows, false))
}

// ImportVSphere handles POST /inventory/vsphere/import. Discovery always
// runs fresh so the import reflects vCenter at the time of the call.
func (h *Handler) ImportVSphere(w http.ResponseWriter, r *http.Request) {
	if h.vsphere == nil {
		h.writeError(w, vsphereNotConfig, "", http.StatusServiceUnavailable)
		return
	}
	if h.store == nil {
		h.writeError(w, errSnapshotUnavailable, "Inventory store not configured", http.StatusInternalServerError)
		return
	}

	v, err, _ := h.vsphereSF.Do("import", func() (interface{}, error) {
		rows, err := h.discoverServers(r.Context())
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), vsphereTimeout)
		defer cancel()
		return services.ImportServers(ctx, h.store, rows)
	})
	if err != nil {
		slog.Error("vSphere import failed", "request_id", middleware.RequestID(r.Context()), "error", err)
		h.writeError(w, "vSphere import failed", err.Error(), http.StatusBadGateway)
		return
	}

	if h.cache != nil {
		h.cache.Clear(vsphereCacheKey)
	}
	h.writeJSON(w, http.StatusOK, v.(models.ImportResult))
}
