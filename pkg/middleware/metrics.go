package middleware

import (
	"net/http"
	"time"

	"pizza-service/pkg/metrics"

	"github.com/go-chi/chi/v5"
)

// Metrics counts requests by method and observes latency per route pattern.
func Metrics(m *metrics.Metrics, collector *metrics.HTTPCollector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			m.RecordRequest(r.Context(), r.Method)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			collector.Observe(r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}
