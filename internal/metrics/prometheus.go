package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mcommerce"

// Metrics holds all the Prometheus metrics for the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	// Request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	ContentTransitions *prometheus.CounterVec
	CampaignLaunches   *prometheus.CounterVec
	BundlesApplied     prometheus.Counter

	// Query cache metrics
	CacheRequests *prometheus.CounterVec
	CacheRetries  prometheus.Counter
}

// New creates and registers all metrics on a fresh registry, together with
// the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		ContentTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "content_transitions_total",
				Help:      "Content workflow transitions applied",
			},
			[]string{"from", "to"},
		),
		CampaignLaunches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "campaign_launches_total",
				Help:      "Campaign launches by outcome",
			},
			[]string{"outcome"},
		),
		BundlesApplied: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "campaign_bundles_applied_total",
				Help:      "Bundles associated with campaigns during launches",
			},
		),

		CacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "query_cache_requests_total",
				Help:      "Query cache lookups by layer and result",
			},
			[]string{"layer", "result"},
		),
		CacheRetries: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "query_cache_fetch_retries_total",
				Help:      "Fetch attempts retried after a transient failure",
			},
		),
	}
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ContentTransition counts a workflow edge taken.
func (m *Metrics) ContentTransition(from, to string) {
	if m == nil {
		return
	}
	m.ContentTransitions.WithLabelValues(from, to).Inc()
}

// Launch counts a launch outcome and the bundles it applied.
func (m *Metrics) Launch(success bool, bundles int) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.CampaignLaunches.WithLabelValues(outcome).Inc()
	m.BundlesApplied.Add(float64(bundles))
}

// CacheLookup counts a hit, miss or error on a cache layer.
func (m *Metrics) CacheLookup(layer, result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(layer, result).Inc()
}

// CacheRetry counts a retried fetch.
func (m *Metrics) CacheRetry() {
	if m == nil {
		return
	}
	m.CacheRetries.Inc()
}
