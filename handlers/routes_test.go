// ABOUTME: Tests for route table definitions
// ABOUTME: Verifies required fields, no duplicates, and legacy alias parity

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRoutes_AllRoutesHaveRequiredFields(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil)
	routes := h.Routes()

	if len(routes) == 0 {
		t.Fatal("Routes() returned empty slice")
	}

	for i, route := range routes {
		if route.Method == "" {
			t.Errorf("Route %d: Method is empty", i)
		}
		if route.Path == "" {
			t.Errorf("Route %d: Path is empty", i)
		}
		if route.Handler == nil {
			t.Errorf("Route %d: Handler is nil", i)
		}
		if !strings.HasPrefix(route.Path, "/api/v1/") {
			t.Errorf("Route %d: Path %q must start with /api/v1/", i, route.Path)
		}
	}
}

func TestRoutes_NoDuplicatePaths(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil)
	routes := h.Routes()

	seen := make(map[string]bool)
	for _, route := range routes {
		key := route.Method + " " + route.Path
		if seen[key] {
			t.Errorf("Duplicate route: %s", key)
		}
		seen[key] = true
	}
}

func TestRoutes_ExpectedEndpoints(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil)
	routes := h.Routes()

	expected := map[string]bool{
		"GET /api/v1/health":                    false,
		"GET /api/v1/ai-status":                 false,
		"POST /api/v1/cost-estimation":          false,
		"POST /api/v1/migration-strategy":       false,
		"POST /api/v1/timeline":                 false,
		"GET /api/v1/inventory/summary":         false,
		"GET /api/v1/inventory/vsphere":         false,
		"POST /api/v1/inventory/vsphere/import": false,
		"GET /api/v1/openapi.yaml":              false,
	}

	for _, route := range routes {
		key := route.Method + " " + route.Path
		if _, ok := expected[key]; ok {
			expected[key] = true
		}
	}

	for key, found := range expected {
		if !found {
			t.Errorf("Missing expected route: %s", key)
		}
	}
}

func TestLegacyRoutes_MirrorCanonical(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil)

	canonical := make(map[string]Route)
	for _, route := range h.Routes() {
		canonical[route.Method+" "+route.Path] = route
	}

	legacy := h.LegacyRoutes()
	if len(legacy) != 4 {
		t.Fatalf("Expected 4 legacy routes, got %d", len(legacy))
	}
	for _, route := range legacy {
		v1, ok := canonical[route.Method+" /api/v1"+route.Path]
		if !ok {
			t.Errorf("Legacy route %s %s has no /api/v1 counterpart", route.Method, route.Path)
			continue
		}
		if v1.Advisory != route.Advisory {
			t.Errorf("Legacy route %s rate limiting differs from %s", route.Path, v1.Path)
		}
	}
}

func TestRoutes_AdvisoryFlag(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil)

	for _, route := range h.Routes() {
		want := route.Method == http.MethodPost && !strings.Contains(route.Path, "/inventory/")
		if route.Advisory != want {
			t.Errorf("Route %s %s: Advisory = %v, want %v", route.Method, route.Path, route.Advisory, want)
		}
	}
}

func TestOpenAPISpec(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil)

	w := httptest.NewRecorder()
	h.OpenAPISpec(w, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.yaml", nil))

	if ct := w.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("Content-Type = %q, want application/yaml", ct)
	}
	if !strings.Contains(w.Body.String(), "/cost-estimation:") {
		t.Error("Expected spec to document /cost-estimation")
	}
}
