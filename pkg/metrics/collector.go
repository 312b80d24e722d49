// Package metrics exposes the service's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/config"
)

// Contact submission outcomes.
const (
	ContactDelivered = "delivered" // stored and notified
	ContactPartial   = "partial"   // exactly one side effect failed
	ContactFailed    = "failed"    // both failed
	ContactRejected  = "rejected"  // failed validation
)

// Collector owns a private registry and every metric the service records.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	llmRequests *prometheus.CounterVec
	llmDuration *prometheus.HistogramVec
	llmTokens   *prometheus.CounterVec

	chatFallbacks *prometheus.CounterVec
	priceMin      prometheus.Histogram
	priceMax      prometheus.Histogram

	contactSubmissions *prometheus.CounterVec
	contactFlagged     prometheus.Counter

	retentionDeleted prometheus.Counter
}

// NewCollector registers all metrics on a new registry. Returns nil when
// metrics are disabled.
func NewCollector(cfg config.MetricsConfig) *Collector {
	if !cfg.Enabled {
		return nil
	}

	ns := cfg.Namespace
	if ns == "" {
		ns = "sprintlaunchers"
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Estimates move between 5000 and 15000.
	priceBuckets := prometheus.LinearBuckets(5000, 1000, 11)

	c := &Collector{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "llm", Name: "requests_total",
			Help: "Language model calls by provider, model and outcome.",
		}, []string{"provider", "model", "outcome"}),
		llmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: "llm", Name: "request_duration_seconds",
			Help: "Language model call latency.",
			// LLM latencies range from sub-second to tens of seconds.
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"provider", "model"}),
		llmTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "llm", Name: "tokens_total",
			Help: "Tokens consumed by kind (prompt, completion).",
		}, []string{"provider", "kind"}),
		chatFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "chat", Name: "fallbacks_total",
			Help: "Chat turns answered with the fallback reply, by reason.",
		}, []string{"reason"}),
		priceMin: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: "chat", Name: "estimate_min_dollars",
			Help: "Lower bound of computed estimates.", Buckets: priceBuckets,
		}),
		priceMax: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: "chat", Name: "estimate_max_dollars",
			Help: "Upper bound of computed estimates.", Buckets: priceBuckets,
		}),
		contactSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "contact", Name: "submissions_total",
			Help: "Contact form submissions by outcome.",
		}, []string{"outcome"}),
		contactFlagged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "contact", Name: "flagged_total",
			Help: "Contact submissions that matched an injection pattern.",
		}),
		retentionDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "retention", Name: "deleted_conversations_total",
			Help: "Conversations removed by the retention job.",
		}),
	}

	registry.MustRegister(
		c.httpRequests, c.httpDuration,
		c.llmRequests, c.llmDuration, c.llmTokens,
		c.chatFallbacks, c.priceMin, c.priceMax,
		c.contactSubmissions, c.contactFlagged,
		c.retentionDeleted,
	)

	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// Registry returns the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordHTTPRequest records one served request. route is the mux pattern,
// not the raw path, to keep label cardinality bounded.
func (c *Collector) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordLLMCall records one model call. outcome is "success" or an llm.ErrorType.
func (c *Collector) RecordLLMCall(provider, model, outcome string, duration time.Duration, promptTokens, completionTokens int) {
	if c == nil {
		return
	}
	c.llmRequests.WithLabelValues(provider, model, outcome).Inc()
	c.llmDuration.WithLabelValues(provider, model).Observe(duration.Seconds())
	if promptTokens > 0 {
		c.llmTokens.WithLabelValues(provider, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		c.llmTokens.WithLabelValues(provider, "completion").Add(float64(completionTokens))
	}
}

// RecordEstimate records a computed price range.
func (c *Collector) RecordEstimate(minPrice, maxPrice int) {
	if c == nil {
		return
	}
	c.priceMin.Observe(float64(minPrice))
	c.priceMax.Observe(float64(maxPrice))
}

// RecordChatFallback records a chat turn that failed and returned the fallback reply.
func (c *Collector) RecordChatFallback(reason string) {
	if c == nil {
		return
	}
	c.chatFallbacks.WithLabelValues(reason).Inc()
}

// RecordContact records a contact submission outcome.
func (c *Collector) RecordContact(outcome string, flagged bool) {
	if c == nil {
		return
	}
	c.contactSubmissions.WithLabelValues(outcome).Inc()
	if flagged {
		c.contactFlagged.Inc()
	}
}

// RecordRetention records conversations deleted by one retention run.
func (c *Collector) RecordRetention(deleted int64) {
	if c == nil || deleted <= 0 {
		return
	}
	c.retentionDeleted.Add(float64(deleted))
}
