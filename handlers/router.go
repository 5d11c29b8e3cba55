// ABOUTME: Builds the HTTP mux from the route table
// ABOUTME: Applies CORS, logging, recovery, metrics, and advisory rate limiting per route

package handlers

import (
	"net/http"

	"github.com/markalston/migration-advisor/metrics"
	"github.com/markalston/migration-advisor/middleware"
)

// RouterOptions selects the middleware applied by Router.
type RouterOptions struct {
	CORS    func(http.HandlerFunc) http.HandlerFunc // nil allows any origin
	Limiter *middleware.RateLimiter                 // nil disables rate limiting
	Metrics bool                                    // serve /metrics and record HTTP metrics
}

// Router registers canonical and legacy routes on a new mux.
func (h *Handler) Router(opts RouterOptions) *http.ServeMux {
	cors := opts.CORS
	if cors == nil {
		cors = middleware.CORS
	}

	mux := http.NewServeMux()
	for _, route := range append(h.Routes(), h.LegacyRoutes()...) {
		mws := []func(http.HandlerFunc) http.HandlerFunc{cors, middleware.LogRequest, middleware.Recover}
		if route.Advisory && opts.Limiter != nil {
			mws = append(mws, middleware.RateLimit(opts.Limiter, middleware.ClientIP))
		}

		var handler http.Handler = middleware.Chain(route.Handler, mws...)
		if opts.Metrics {
			handler = metrics.Middleware(route.Path, handler)
		}
		mux.Handle(route.Method+" "+route.Path, handler)
		// Preflight for browser clients
		mux.Handle("OPTIONS "+route.Path, cors(func(w http.ResponseWriter, r *http.Request) {}))
	}

	if opts.Metrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}
	return mux
}
