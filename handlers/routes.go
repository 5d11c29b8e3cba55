// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines canonical /api/v1 routes and the legacy root aliases

package handlers

import "net/http"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method   string           // HTTP method (GET, POST, etc.)
	Path     string           // URL path (e.g., "/api/v1/health")
	Handler  http.HandlerFunc // Handler function
	Advisory bool             // LLM-backed; subject to the advise rate limit
}

// Routes returns all API routes for registration.
// Routes use /api/v1/ prefix; legacy root routes are returned by LegacyRoutes.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health & Status
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},
		{Method: http.MethodGet, Path: "/api/v1/ai-status", Handler: h.AIStatus},

		// Advisory
		{Method: http.MethodPost, Path: "/api/v1/cost-estimation", Handler: h.EstimateCost, Advisory: true},
		{Method: http.MethodPost, Path: "/api/v1/migration-strategy", Handler: h.RecommendStrategy, Advisory: true},
		{Method: http.MethodPost, Path: "/api/v1/timeline", Handler: h.BuildTimeline, Advisory: true},

		// Inventory
		{Method: http.MethodGet, Path: "/api/v1/inventory/summary", Handler: h.InventorySummary},
		{Method: http.MethodGet, Path: "/api/v1/inventory/vsphere", Handler: h.VSphereServers},
		{Method: http.MethodPost, Path: "/api/v1/inventory/vsphere/import", Handler: h.ImportVSphere},

		// Documentation
		{Method: http.MethodGet, Path: "/api/v1/openapi.yaml", Handler: h.OpenAPISpec},
	}
}

// LegacyRoutes returns the unversioned aliases existing clients call.
func (h *Handler) LegacyRoutes() []Route {
	return []Route{
		{Method: http.MethodPost, Path: "/cost-estimation", Handler: h.EstimateCost, Advisory: true},
		{Method: http.MethodPost, Path: "/migration-strategy", Handler: h.RecommendStrategy, Advisory: true},
		{Method: http.MethodPost, Path: "/timeline", Handler: h.BuildTimeline, Advisory: true},
		{Method: http.MethodGet, Path: "/ai-status", Handler: h.AIStatus},
	}
}
