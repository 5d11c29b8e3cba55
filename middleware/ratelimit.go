// ABOUTME: Per-client fixed-window rate limiting for the LLM-backed endpoints
// ABOUTME: Every advisory route draws on one shared budget per client IP

package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/markalston/migration-advisor/metrics"
)

// sweepEvery bounds stale windows to this many beyond the active keys.
const sweepEvery = 100

type window struct {
	count     int
	expiresAt time.Time
}

// RateLimiter allows limit requests per key in each window. It is safe for
// concurrent use.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
	opened  int // windows opened since the last sweep
}

// NewRateLimiter creates a limiter allowing limit requests per period.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow records a request for key. When the key is over its limit it returns
// false and the time until its window resets.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || !now.Before(w.expiresAt) {
		rl.windows[key] = &window{count: 1, expiresAt: now.Add(rl.period)}
		rl.opened++
		if rl.opened >= sweepEvery {
			rl.sweep(now)
			rl.opened = 0
		}
		return true, 0
	}

	if w.count < rl.limit {
		w.count++
		return true, 0
	}
	return false, w.expiresAt.Sub(now)
}

// Len reports how many windows are tracked, expired or not.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.windows)
}

// sweep drops expired windows. Callers hold rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for k, w := range rl.windows {
		if !now.Before(w.expiresAt) {
			delete(rl.windows, k)
		}
	}
}

// ClientIP keys requests by the leftmost X-Forwarded-For address when it
// parses as an IP, otherwise by the connection's remote host. The header is
// trusted, so the service must sit behind a proxy that sets it or be local.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
			return "ip:" + ip
		}
	}

	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" {
		return ""
	}
	return "ip:" + host
}

// RateLimit rejects requests over the limiter's budget with 429 and a
// Retry-After header. A nil limiter or keyFunc disables it, and requests
// whose key is empty pass through.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || keyFunc == nil {
				next(w, r)
				return
			}

			key := keyFunc(r)
			if key == "" {
				next(w, r)
				return
			}

			allowed, retryAfter := limiter.Allow(key)
			if allowed {
				next(w, r)
				return
			}

			retrySeconds := max(1, int(math.Ceil(retryAfter.Seconds())))
			path := sanitizePath(r.URL.Path)
			slog.Warn("Rate limit exceeded",
				"request_id", RequestID(r.Context()),
				"key", key,
				"path", path,
				"retry_after", retrySeconds,
			)
			metrics.RecordRateLimited(path)

			w.Header().Set("Retry-After", strconv.Itoa(retrySeconds))
			writeJSONError(w, "rate-limited",
				fmt.Sprintf("Advisory request limit reached; retry in %d seconds", retrySeconds),
				http.StatusTooManyRequests)
		}
	}
}
