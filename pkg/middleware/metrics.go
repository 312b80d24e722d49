package middleware

import (
	"net/http"
	"time"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/metrics"
)

// InstrumentRoute records request count and latency for one route.
// route should be the registered pattern so label values stay bounded.
func InstrumentRoute(collector *metrics.Collector, route string, next http.Handler) http.Handler {
	if collector == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrapResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		collector.RecordHTTPRequest(route, r.Method, wrapped.statusCode, time.Since(start))
	})
}
