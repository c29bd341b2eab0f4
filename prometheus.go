package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusExporter serves metrics on its own listener.
type PrometheusExporter struct {
	Path   string // e.g., "/metrics"
	Listen string // e.g., ":2550"
}

// Start begins the HTTP server to serve Prometheus metrics.
func (e *PrometheusExporter) Start() error {
	mux := http.NewServeMux()
	mux.Handle(e.Path, promhttp.Handler())
	return http.ListenAndServe(e.Listen, mux)
}

// RoutingMetrics are the counters the request paths bump.
type RoutingMetrics struct {
	RecommendationsServed prometheus.Counter
	CandidatesEvaluated   prometheus.Counter
	AnalyticsReports      prometheus.Counter
	UsageEventsConsumed   prometheus.Counter
	RoutingErrors         *prometheus.CounterVec
}

// NewRoutingMetrics registers the gateway's counters on the default
// registry.
func NewRoutingMetrics() *RoutingMetrics {
	m := &RoutingMetrics{
		RecommendationsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routing_recommendations_total",
			Help: "Routing recommendations served",
		}),
		CandidatesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routing_candidates_evaluated_total",
			Help: "Candidate numbers scored across all recommendations",
		}),
		AnalyticsReports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routing_analytics_reports_total",
			Help: "Portfolio analytics reports generated",
		}),
		UsageEventsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "usage_events_consumed_total",
			Help: "Usage events consumed from the queue",
		}),
		RoutingErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "routing_errors_total",
			Help: "Routing failures by kind",
		}, []string{"kind"}),
	}
	prometheus.MustRegister(
		m.RecommendationsServed,
		m.CandidatesEvaluated,
		m.AnalyticsReports,
		m.UsageEventsConsumed,
		m.RoutingErrors,
	)
	return m
}

// MetricExporter exposes inventory gauges by examining Gateway state.
type MetricExporter struct {
	desc    map[string]*prometheus.Desc
	gateway *Gateway
}

// NewMetricExporter initializes the MetricExporter with descriptions for
// each inventory metric.
func NewMetricExporter(gateway *Gateway) *MetricExporter {
	metricDesc := map[string]*prometheus.Desc{
		"accounts_loaded": prometheus.NewDesc("accounts_loaded", "Accounts in the in-memory inventory", nil, nil),
		"numbers_loaded":  prometheus.NewDesc("numbers_loaded", "Owned numbers in the in-memory inventory", nil, nil),
		"countries_known": prometheus.NewDesc("countries_known", "Countries in the routing directory", nil, nil),
	}
	return &MetricExporter{desc: metricDesc, gateway: gateway}
}

// Describe sends all metric descriptions to the Prometheus channel.
func (e *MetricExporter) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range e.desc {
		ch <- desc
	}
}

// Collect gathers metrics by examining the state of the Gateway.
func (e *MetricExporter) Collect(ch chan<- prometheus.Metric) {
	e.gateway.mu.RLock()
	accounts := len(e.gateway.Accounts)
	numbers := len(e.gateway.Numbers)
	e.gateway.mu.RUnlock()

	ch <- prometheus.MustNewConstMetric(e.desc["accounts_loaded"], prometheus.GaugeValue, float64(accounts))
	ch <- prometheus.MustNewConstMetric(e.desc["numbers_loaded"], prometheus.GaugeValue, float64(numbers))
	ch <- prometheus.MustNewConstMetric(e.desc["countries_known"], prometheus.GaugeValue,
		float64(len(e.gateway.Engine.Directory().Codes())))
}
