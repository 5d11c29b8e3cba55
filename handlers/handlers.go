// ABOUTME: HTTP handlers for the migration advisor API
// ABOUTME: Holds shared dependencies and JSON request/response helpers

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/markalston/migration-advisor/cache"
	"github.com/markalston/migration-advisor/config"
	"github.com/markalston/migration-advisor/models"
	"github.com/markalston/migration-advisor/services"
	"github.com/markalston/migration-advisor/store"
)

// maxRequestBodySize limits JSON request bodies to 1MB
const maxRequestBodySize = 1 << 20

// Engine produces advisory artifacts. *services.Advisor implements it.
type Engine interface {
	EstimateCost(ctx context.Context, target models.TargetParameters) (models.CostEstimate, error)
	RecommendStrategy(ctx context.Context, target models.TargetParameters) (models.MigrationStrategy, error)
	BuildTimeline(ctx context.Context, start time.Time) (models.Timeline, error)
	Status() models.AIStatus
}

// InventoryStore is the subset of *store.Store the handlers touch directly.
type InventoryStore interface {
	Ping(ctx context.Context) error
	UpsertServer(ctx context.Context, r store.ServerRow) error
}

// VSphereSource discovers servers from vCenter. *services.VSphereClient implements it.
type VSphereSource interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	DiscoverServers(ctx context.Context) ([]store.ServerRow, error)
}

type Handler struct {
	cfg       *config.Config
	cache     *cache.Cache
	engine    Engine
	inventory services.Snapshotter
	store     InventoryStore
	vsphere   VSphereSource
	vsphereSF singleflight.Group
}

// NewHandler wires the handlers. Any dependency may be nil; the affected
// endpoints then report the dependency as unavailable.
func NewHandler(cfg *config.Config, cache *cache.Cache, engine Engine, inventory services.Snapshotter, db InventoryStore) *Handler {
	h := &Handler{
		cfg:       cfg,
		cache:     cache,
		engine:    engine,
		inventory: inventory,
		store:     db,
	}

	// vSphere client is optional
	if cfg != nil && cfg.VSphereConfigured() {
		h.vsphere = services.VSphereClientFromEnv(
			cfg.VSphereHost,
			cfg.VSphereUsername,
			cfg.VSpherePassword,
			cfg.VSphereDatacenter,
			cfg.VSphereInsecure,
		)
	}

	return h
}

// writeJSON writes a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// writeError writes a JSON error response.
func (h *Handler) writeError(w http.ResponseWriter, message, details string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Error:   message,
		Details: details,
		Code:    code,
	})
}

// decodeBody reads an optional JSON body into v. An empty body leaves v untouched.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return errors.New("request body too large")
	}
	return err
}
