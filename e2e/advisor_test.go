// ABOUTME: End-to-end tests for the advisory endpoints
// ABOUTME: Drives the real router, engine, and SQLite store through HTTP

package e2e

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/markalston/migration-advisor/handlers"
	"github.com/markalston/migration-advisor/models"
	"github.com/markalston/migration-advisor/services"
	"github.com/markalston/migration-advisor/store"
)

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func TestAdvisor_RuleOnlyFlow(t *testing.T) {
	server := newServer(t, seededStore(t), nil, handlers.RouterOptions{})

	resp := postJSON(t, server.URL+"/api/v1/cost-estimation", `{"provider":"AWS","region":"us-east-1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	cost := decode[models.CostEstimate](t, resp)

	ins := cost.AIInsights.Provenance
	if !ins.FallbackUsed || ins.Source != models.SourceRuleBased || ins.Message != services.RuleMessage {
		t.Errorf("Expected rule provenance, got %+v", ins)
	}
	if ins.FallbackReason != "" {
		t.Errorf("Expected no fallback reason without a model, got %q", ins.FallbackReason)
	}
	if got := len(cost.CloudInfrastructure.Servers.ServerRecommendations); got != 2 {
		t.Errorf("Expected 2 server recommendations, got %d", got)
	}
	if cost.GrandTotal.AnnualCloudCost <= 0 {
		t.Errorf("Expected a positive annual cost, got %v", cost.GrandTotal.AnnualCloudCost)
	}

	resp = postJSON(t, server.URL+"/api/v1/migration-strategy", `{"provider":"Azure","region":"eastus","complexity":"high"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for strategy, got %d", resp.StatusCode)
	}
	strategy := decode[models.MigrationStrategy](t, resp)
	if len(strategy.MigrationPhases) == 0 {
		t.Error("Expected migration phases")
	}

	resp = postJSON(t, server.URL+"/api/v1/timeline", `{"start_date":"2026-01-05"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for timeline, got %d", resp.StatusCode)
	}
	tl := decode[models.Timeline](t, resp)
	if tl.ProjectOverview.EstimatedStartDate != "2026-01-05" {
		t.Errorf("Expected start 2026-01-05, got %s", tl.ProjectOverview.EstimatedStartDate)
	}
}

func TestAdvisor_ModelFailureFallsBackToBaseline(t *testing.T) {
	st := seededStore(t)
	body := `{"provider":"GCP","region":"us-central1"}`

	plain := newServer(t, st, nil, handlers.RouterOptions{})
	baseline := decode[models.CostEstimate](t, postJSON(t, plain.URL+"/api/v1/cost-estimation", body))

	tests := []struct {
		name   string
		model  *scriptedModel
		reason string
	}{
		{"prose reply", &scriptedModel{reply: "I cannot help with that.", usable: true}, services.ReasonInvalidJSON},
		{"empty reply", &scriptedModel{reply: "", usable: true}, services.ReasonEmptyOutput},
		{"transport error", &scriptedModel{err: errors.New("connection reset"), usable: true}, services.ReasonProviderUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t, st, tt.model, handlers.RouterOptions{})
			resp := postJSON(t, server.URL+"/api/v1/cost-estimation", body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("Expected 200 on model failure, got %d", resp.StatusCode)
			}
			got := decode[models.CostEstimate](t, resp)

			if got.AIInsights.FallbackReason != tt.reason {
				t.Errorf("Expected reason %s, got %q", tt.reason, got.AIInsights.FallbackReason)
			}
			want := "AI analysis failed (" + tt.reason + ") - using rule-based analysis"
			if got.AIInsights.Message != want {
				t.Errorf("Expected message %q, got %q", want, got.AIInsights.Message)
			}
			if got.GrandTotal != baseline.GrandTotal {
				t.Errorf("Expected baseline totals %+v, got %+v", baseline.GrandTotal, got.GrandTotal)
			}
			if tt.model.Calls() == 0 {
				t.Error("Expected the model to be invoked")
			}
		})
	}
}

func TestAdvisor_UnusableModelIsNeverInvoked(t *testing.T) {
	model := &scriptedModel{reply: "{}", usable: false}
	server := newServer(t, seededStore(t), model, handlers.RouterOptions{})

	status := decode[models.AIStatus](t, mustGet(t, server.URL+"/api/v1/ai-status"))
	if status.AIEnabled || !status.FallbackMode {
		t.Errorf("Expected fallback status, got %+v", status)
	}

	resp := postJSON(t, server.URL+"/timeline", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 from legacy route, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	if model.Calls() != 0 {
		t.Errorf("Expected no model calls, got %d", model.Calls())
	}
}

func TestAdvisor_ProviderFromRequestOrPreference(t *testing.T) {
	st := seededStore(t)
	server := newServer(t, st, nil, handlers.RouterOptions{})

	for _, path := range []string{"/api/v1/cost-estimation", "/api/v1/migration-strategy"} {
		resp := postJSON(t, server.URL+path, `{}`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 without provider or preference, got %d", path, resp.StatusCode)
		}
		if errResp := decode[models.ErrorResponse](t, resp); errResp.Error != "bad-request" {
			t.Errorf("%s: expected bad-request, got %q", path, errResp.Error)
		}
	}

	if err := st.SetPreference(context.Background(), store.PreferenceRow{CloudProvider: "GCP", Region: "europe-west1"}); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}
	resp := postJSON(t, server.URL+"/api/v1/cost-estimation", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 with a stored preference, got %d", resp.StatusCode)
	}
	est := decode[models.CostEstimate](t, resp)
	want := "Validate prices with the GCP pricing calculator for europe-west1"
	found := false
	for _, rec := range est.AIInsights.Recommendations {
		found = found || rec == want
	}
	if !found {
		t.Errorf("Expected the stored GCP preference to drive pricing, got %v", est.AIInsights.Recommendations)
	}
}

func TestAdvisor_StoreFailure(t *testing.T) {
	st := seededStore(t)
	server := newServer(t, st, nil, handlers.RouterOptions{})
	st.Close()

	resp := postJSON(t, server.URL+"/api/v1/cost-estimation", `{}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", resp.StatusCode)
	}
	errResp := decode[models.ErrorResponse](t, resp)
	if errResp.Error != "snapshot-unavailable" {
		t.Errorf("Expected snapshot-unavailable, got %q", errResp.Error)
	}
	if strings.Contains(errResp.Details, "closed") {
		t.Errorf("Expected driver error to stay out of the response, got %q", errResp.Details)
	}
}

func TestAdvisor_MalformedBodyAndRequestID(t *testing.T) {
	server := newServer(t, seededStore(t), nil, handlers.RouterOptions{})

	resp := postJSON(t, server.URL+"/api/v1/migration-strategy", `{"provider":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
	errResp := decode[models.ErrorResponse](t, resp)
	if errResp.Error != "bad-request" || errResp.Code != http.StatusBadRequest {
		t.Errorf("Unexpected error body %+v", errResp)
	}
}

func mustGet(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp
}
