// ABOUTME: Tests for request logging middleware
// ABOUTME: Covers correlation IDs, status capture, and log-safe paths

package middleware

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

// captureLogs routes the default logger to a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var line map[string]any
		if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
			t.Fatalf("Log line is not JSON: %q", sc.Text())
		}
		lines = append(lines, line)
	}
	return lines
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "/api/v1/cost-estimation", "/api/v1/cost-estimation"},
		{"newline", "/api/v1/timeline\nlevel=ERROR msg=forged", "/api/v1/timelinelevel=ERROR msg=forged"},
		{"crlf", "/api/v1/ai-status\r\nforged", "/api/v1/ai-statusforged"},
		{"tab and nul", "/api/\tv1/\x00health", "/api/v1/health"},
		{"escape and delete", "/api/v1/\x1b[31mred\x7f", "/api/v1/[31mred"},
		{"unicode kept", "/api/v1/inventory/serveur-été", "/api/v1/inventory/serveur-été"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizePath(tt.input); got != tt.want {
				t.Errorf("sanitizePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLogRequest_RequestIDReachesHandler(t *testing.T) {
	captureLogs(t)

	var seen []string
	handler := LogRequest(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, RequestID(r.Context()))
	})

	var headers []string
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodPost, "/api/v1/timeline", nil))
		headers = append(headers, w.Header().Get("X-Request-ID"))
	}

	for i, id := range headers {
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("Request %d: X-Request-ID %q is not a UUID", i+1, id)
		}
		if seen[i] != id {
			t.Errorf("Request %d: handler saw %q, header has %q", i+1, seen[i], id)
		}
	}
	if headers[0] == headers[1] {
		t.Errorf("Expected distinct request IDs, both were %q", headers[0])
	}
}

func TestLogRequest_LogsStatusAndSafePath(t *testing.T) {
	buf := captureLogs(t)

	handler := LogRequest(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cost-estimation%0Aforged", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	lines := logLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("Expected start and completion log lines, got %d", len(lines))
	}
	id := w.Header().Get("X-Request-ID")
	for _, line := range lines {
		if line["request_id"] != id {
			t.Errorf("Expected request_id %q, got %v", id, line["request_id"])
		}
		if line["path"] != "/api/v1/cost-estimationforged" {
			t.Errorf("Expected sanitized path, got %q", line["path"])
		}
	}
	done := lines[1]
	if done["msg"] != "Request completed" {
		t.Errorf("Expected completion line last, got %v", done["msg"])
	}
	if status, _ := done["status"].(float64); int(status) != http.StatusBadRequest {
		t.Errorf("Expected logged status 400, got %v", done["status"])
	}
}

func TestLogRequest_DefaultStatusIsOK(t *testing.T) {
	buf := captureLogs(t)

	handler := LogRequest(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	})
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	lines := logLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}
	if status, _ := lines[1]["status"].(float64); int(status) != http.StatusOK {
		t.Errorf("Expected logged status 200, got %v", lines[1]["status"])
	}
}

func TestRequestID_EmptyOutsideMiddleware(t *testing.T) {
	if id := RequestID(context.Background()); id != "" {
		t.Errorf("Expected empty request ID, got %q", id)
	}
}
