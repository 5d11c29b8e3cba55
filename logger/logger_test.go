// ABOUTME: Tests for logger construction
// ABOUTME: Covers level parsing, output format selection, and secret redaction

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "json").Info("AI analysis failed", "reason", "provider-unreachable")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["reason"] != "provider-unreachable" || entry["service"] != "migration-advisor" {
		t.Errorf("Unexpected entry %v", entry)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "text")
	log.Info("hidden")
	log.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestNew_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "text").Info("vSphere configured",
		"host", "vcenter.example.com",
		"vsphere_password", "hunter2",
		"provider_secret_key", "abc123",
	)

	out := buf.String()
	if strings.Contains(out, "hunter2") || strings.Contains(out, "abc123") {
		t.Errorf("Expected secrets redacted, got %q", out)
	}
	if !strings.Contains(out, "vcenter.example.com") {
		t.Errorf("Expected non-secret attributes kept, got %q", out)
	}
}
