// ABOUTME: Prometheus metrics for HTTP traffic, advisory outcomes, and inventory size
// ABOUTME: Exposes the /metrics handler and a per-route instrumentation middleware

package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "migration_advisor_http_requests_total",
			Help: "Total number of HTTP requests by method, route, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "migration_advisor_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "migration_advisor_http_requests_in_flight",
		Help: "Current number of HTTP requests being processed.",
	})

	artifactsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "migration_advisor_artifacts_total",
			Help: "Advisory artifacts produced, by artifact and provenance.",
		},
		[]string{"artifact", "source"},
	)

	llmFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "migration_advisor_llm_failures_total",
			Help: "LLM attempts that fell back to rule-based output, by artifact and reason.",
		},
		[]string{"artifact", "reason"},
	)

	providerCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "migration_advisor_provider_call_duration_seconds",
			Help:    "Model provider call latency in seconds by model and outcome.",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"model", "outcome"},
	)

	cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "migration_advisor_cache_lookups_total",
			Help: "Cache lookups by key and result.",
		},
		[]string{"key", "result"},
	)

	rateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "migration_advisor_rate_limited_total",
			Help: "Requests rejected by the advisory rate limit, by path.",
		},
		[]string{"path"},
	)

	providerUsable = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "migration_advisor_provider_usable",
		Help: "1 when a model was selected at startup, 0 when running rule-based only.",
	})
)

// InventoryCounter is the subset of the store needed to collect inventory metrics.
type InventoryCounter interface {
	CountByKind(ctx context.Context) (map[string]int, error)
}

// inventoryCollector queries the store on each scrape to report component
// counts broken down by kind.
type inventoryCollector struct {
	store          InventoryCounter
	componentsDesc *prometheus.Desc
}

func (c *inventoryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.componentsDesc
}

func (c *inventoryCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	counts, err := c.store.CountByKind(ctx)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.componentsDesc, err)
		return
	}
	for kind, n := range counts {
		ch <- prometheus.MustNewConstMetric(
			c.componentsDesc,
			prometheus.GaugeValue,
			float64(n),
			kind,
		)
	}
}

func newInventoryCollector(store InventoryCounter) *inventoryCollector {
	return &inventoryCollector{
		store: store,
		componentsDesc: prometheus.NewDesc(
			"migration_advisor_inventory_components",
			"Number of inventory components, partitioned by kind.",
			[]string{"kind"},
			nil,
		),
	}
}

// Register registers all metrics with the default Prometheus registry.
// Call once at startup after the store is opened.
func Register(store InventoryCounter) {
	prometheus.MustRegister(
		// Standard Go runtime and process metrics
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),

		// HTTP service metrics
		httpRequestsTotal,
		httpRequestDuration,
		httpRequestsInFlight,

		// Engine metrics
		artifactsTotal,
		llmFailuresTotal,
		providerCallDuration,
		providerUsable,
		cacheLookupsTotal,
		rateLimitedTotal,

		newInventoryCollector(store),
	)
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordArtifact counts an artifact returned to a client.
func RecordArtifact(artifact, source string) {
	artifactsTotal.WithLabelValues(artifact, source).Inc()
}

// RecordLLMFailure counts a fallback from the LLM path.
func RecordLLMFailure(artifact, reason string) {
	llmFailuresTotal.WithLabelValues(artifact, reason).Inc()
}

// ObserveProviderCall records the latency of one model invocation.
func ObserveProviderCall(model, outcome string, d time.Duration) {
	providerCallDuration.WithLabelValues(model, outcome).Observe(d.Seconds())
}

// SetProviderUsable reports whether the LLM path is available.
func SetProviderUsable(usable bool) {
	if usable {
		providerUsable.Set(1)
		return
	}
	providerUsable.Set(0)
}

// RecordCacheLookup counts a cache hit or miss.
func RecordCacheLookup(key string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(key, result).Inc()
}

// RecordRateLimited counts a request rejected by the rate limiter.
func RecordRateLimited(path string) {
	rateLimitedTotal.WithLabelValues(path).Inc()
}

// responseWriter wraps http.ResponseWriter to capture the response status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware wraps an http.Handler to record HTTP metrics.
// pattern should be the route pattern string (e.g. "/api/v1/timeline")
// so the path label has bounded cardinality.
func Middleware(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			httpRequestsInFlight.Dec()
			status := strconv.Itoa(rw.status)
			httpRequestsTotal.WithLabelValues(r.Method, pattern, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		}()

		next.ServeHTTP(rw, r)
	})
}
