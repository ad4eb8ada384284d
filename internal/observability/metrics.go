package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the scenario service.
type Metrics struct {
	// Scenario pipeline metrics.
	ScenarioEvaluations *prometheus.CounterVec // labels: outcome={ok,location_not_found,invalid_parameter,geocoder_unavailable,error}
	EvaluationDuration  prometheus.Histogram
	ImpactFindings      *prometheus.CounterVec // labels: rule={heatwave,heat_stress,drought,flood,stable}
	ActiveSessions      prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests     *prometheus.CounterVec   // labels: method={forward,reverse}, outcome={success,error,empty}
	GeocodeCache        *prometheus.CounterVec   // labels: method={forward,reverse}, result={hit,miss}
	GeocodeAPIDuration  *prometheus.HistogramVec // labels: method={forward,reverse}
	GeocodeThrottleWait prometheus.Histogram

	// Climate data metrics.
	ClimateFetches *prometheus.CounterVec // labels: field={temperature,rainfall}, source={live,fallback}
	ClimateCache   *prometheus.CounterVec // labels: field={temperature,rainfall}, result={hit,miss}

	// Scenario sink metrics.
	ScenariosPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.ScenarioEvaluations,
		m.EvaluationDuration,
		m.ImpactFindings,
		m.ActiveSessions,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeThrottleWait,
		m.ClimateFetches,
		m.ClimateCache,
		m.ScenariosPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ScenarioEvaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weathif",
			Name:      "scenario_evaluations_total",
			Help:      "Scenario evaluation cycles by outcome.",
		}, []string{"outcome"}),
		EvaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weathif",
			Name:      "scenario_evaluation_duration_seconds",
			Help:      "Duration of a full resolve-fetch-project-narrate cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 20},
		}),
		ImpactFindings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weathif",
			Name:      "impact_findings_total",
			Help:      "Impact findings emitted by rule.",
		}, []string{"rule"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weathif",
			Name:      "active_sessions",
			Help:      "Number of live scenario sessions.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weathif",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weathif",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by method and result.",
		}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weathif",
			Name:      "geocode_api_duration_seconds",
			Help:      "Nominatim API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method"}),
		GeocodeThrottleWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weathif",
			Name:      "geocode_throttle_wait_seconds",
			Help:      "Time spent waiting for the geocoding rate limiter.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10},
		}),
		ClimateFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weathif",
			Name:      "climate_fetches_total",
			Help:      "Baseline climate field fetches by field and provenance.",
		}, []string{"field", "source"}),
		ClimateCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weathif",
			Name:      "climate_cache_total",
			Help:      "Climate cache lookups by field and result.",
		}, []string{"field", "result"}),
		ScenariosPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weathif",
			Name:      "scenarios_published_total",
			Help:      "Scenarios written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weathif",
			Name:      "scenario_publish_errors_total",
			Help:      "Failed scenario sink writes.",
		}),
	}
}
