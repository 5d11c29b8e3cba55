// ABOUTME: Tests for the configuration loader
// ABOUTME: Covers defaults, .env loading, and range validation

package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Cleanup(withCleanEnv(t, nil))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DSN() != "migration.db" {
		t.Errorf("Expected default DSN migration.db, got %s", cfg.DSN())
	}
	if cfg.ProviderTimeout() != 30*time.Second {
		t.Errorf("Expected default provider timeout 30s, got %s", cfg.ProviderTimeout())
	}
	if !cfg.RateLimitEnabled || cfg.RateLimitAdvise != 30 {
		t.Errorf("Expected rate limiting enabled at 30/min, got %v at %d", cfg.RateLimitEnabled, cfg.RateLimitAdvise)
	}
	if !cfg.MetricsEnabled {
		t.Error("Expected metrics enabled by default")
	}
	if cfg.ProviderConfigured() {
		t.Error("Expected provider not configured without credentials")
	}
	if cfg.VSphereConfigured() {
		t.Error("Expected vSphere not configured")
	}
	if cfg.VSphereCacheTTL != 300 {
		t.Errorf("Expected default vSphere cache TTL 300, got %d", cfg.VSphereCacheTTL)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{
		"PORT":                     "9090",
		"DATABASE_URL":             "postgres://advisor@localhost/inventory",
		"PROVIDER_ACCESS_KEY":      "AKIA123",
		"PROVIDER_SECRET_KEY":      "secret",
		"PROVIDER_REGION":          "eu-west-1",
		"MODEL_IDENTIFIER":         "anthropic.claude-3-haiku-20240307-v1:0",
		"PROVIDER_TIMEOUT_SECONDS": "45",
		"CORS_ALLOWED_ORIGINS":     "http://localhost:5173, https://advisor.example.com",
		"RATE_LIMIT_ENABLED":       "false",
		"METRICS_ENABLED":          "false",
		"PRICING_FILE":             "/etc/advisor/prices.yaml",
		"INVENTORY_SEED":           "sample",
	}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.DSN() != "postgres://advisor@localhost/inventory" {
		t.Errorf("Expected postgres DSN, got %s", cfg.DSN())
	}
	if !cfg.ProviderConfigured() {
		t.Error("Expected provider configured")
	}
	if cfg.ProviderRegion != "eu-west-1" {
		t.Errorf("Expected region eu-west-1, got %s", cfg.ProviderRegion)
	}
	if cfg.ProviderTimeout() != 45*time.Second {
		t.Errorf("Expected 45s timeout, got %s", cfg.ProviderTimeout())
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://advisor.example.com" {
		t.Errorf("Unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitEnabled || cfg.MetricsEnabled {
		t.Error("Expected rate limiting and metrics disabled")
	}
	if cfg.PricingFile != "/etc/advisor/prices.yaml" {
		t.Errorf("Unexpected pricing file %s", cfg.PricingFile)
	}
	if cfg.InventorySeed != "sample" {
		t.Errorf("Expected sample inventory seed, got %q", cfg.InventorySeed)
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{"PORT": "7070"}))

	content := "PORT=6060\nVSPHERE_HOST=vcenter.example.com\nVSPHERE_USERNAME=admin\nVSPHERE_PASSWORD=secret\nVSPHERE_DATACENTER=DC1\n"
	if err := os.WriteFile(".env", []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("Expected environment to win over .env, got port %s", cfg.Port)
	}
	if !cfg.VSphereConfigured() {
		t.Error("Expected vSphere configured from .env")
	}
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"timeout zero", map[string]string{"PROVIDER_TIMEOUT_SECONDS": "0"}},
		{"timeout too large", map[string]string{"PROVIDER_TIMEOUT_SECONDS": "301"}},
		{"rate limit zero", map[string]string{"RATE_LIMIT_ADVISE": "0"}},
		{"rate limit too large", map[string]string{"RATE_LIMIT_ADVISE": "10001"}},
		{"bad model id", map[string]string{"MODEL_IDENTIFIER": "Claude 3 Haiku"}},
		{"non-postgres url", map[string]string{"DATABASE_URL": "mysql://localhost/inventory"}},
		{"negative cache ttl", map[string]string{"VSPHERE_CACHE_TTL": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(withCleanEnv(t, tt.env))
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %v, got nil", tt.env)
			}
		})
	}
}

func TestGetEnvStringList(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{"LIST": " a, ,b ,"}))

	got := getEnvStringList("LIST")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Expected [a b], got %v", got)
	}
	if getEnvStringList("MISSING") != nil {
		t.Error("Expected nil for unset variable")
	}
}

func TestGetEnvInt_InvalidFallsBack(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{"N": "forty"}))
	if got := getEnvInt("N", 7); got != 7 {
		t.Errorf("Expected fallback 7, got %d", got)
	}
}
