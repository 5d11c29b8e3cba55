// ABOUTME: End-to-end tests for rate limiting and CORS through the router
// ABOUTME: Verifies which routes are limited and how origins are answered

package e2e

import (
	"net/http"
	"testing"
	"time"

	"github.com/markalston/migration-advisor/handlers"
	"github.com/markalston/migration-advisor/middleware"
)

func TestRateLimit_AdvisoryRoutesShareBudget(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	server := newServer(t, seededStore(t), nil, handlers.RouterOptions{Limiter: limiter})

	for i, path := range []string{"/api/v1/cost-estimation", "/timeline"} {
		resp := postJSON(t, server.URL+path, `{"provider":"AWS"}`)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i+1, resp.StatusCode)
		}
	}

	resp := postJSON(t, server.URL+"/migration-strategy", `{"provider":"AWS"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 after budget spent, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}

	for _, path := range []string{"/api/v1/ai-status", "/ai-status", "/api/v1/health"} {
		resp := mustGet(t, server.URL+path)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200 while limited, got %d", path, resp.StatusCode)
		}
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	server := newServer(t, seededStore(t), nil, handlers.RouterOptions{})

	for i := 0; i < 5; i++ {
		resp := postJSON(t, server.URL+"/api/v1/timeline", `{}`)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Request %d: expected 200 without a limiter, got %d", i+1, resp.StatusCode)
		}
	}
}

func preflight(t *testing.T, url, origin string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodOptions, url, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS %s: %v", url, err)
	}
	resp.Body.Close()
	return resp
}

func TestCORS_Wildcard(t *testing.T) {
	server := newServer(t, seededStore(t), nil, handlers.RouterOptions{CORS: middleware.CORS})

	resp := preflight(t, server.URL+"/cost-estimation", "http://localhost:5173")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204 preflight, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard origin, got %q", got)
	}
}

func TestCORS_AllowList(t *testing.T) {
	cors := middleware.CORSWithConfig([]string{"https://advisor.example.com"})
	server := newServer(t, seededStore(t), nil, handlers.RouterOptions{CORS: cors})

	resp := preflight(t, server.URL+"/api/v1/timeline", "https://advisor.example.com")
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://advisor.example.com" {
		t.Errorf("Expected allowed origin echoed, got %q", got)
	}

	resp = preflight(t, server.URL+"/api/v1/timeline", "https://evil.example.com")
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no CORS headers for unknown origin, got %q", got)
	}
}
