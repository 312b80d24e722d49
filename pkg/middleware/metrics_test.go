package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/config"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/metrics"
)

func TestInstrumentRoute_RecordsStatus(t *testing.T) {
	collector := metrics.NewCollector(config.MetricsConfig{Enabled: true, Namespace: "mw"})

	handler := InstrumentRoute(collector, "POST /contact", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMultiStatus)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/contact", nil))

	count, err := testutil.GatherAndCount(collector.Registry(), "mw_http_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 series, got %d", count)
	}
}

func TestInstrumentRoute_NilCollectorPassesThrough(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := InstrumentRoute(nil, "GET /health", inner)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
