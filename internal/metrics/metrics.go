package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "protodeck"

var (
	once     sync.Once
	registry *prometheus.Registry

	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec

	ProjectViewsTotal         *prometheus.CounterVec
	ShareLinkResolutionsTotal *prometheus.CounterVec
	FigmaRequestsTotal        *prometheus.CounterVec
	JobRunsTotal              *prometheus.CounterVec
)

func init() {
	Init()
}

// Init registers every collector exactly once.
func Init() {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		HTTPRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"method", "route", "status"},
		)

		HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		)

		ProjectViewsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "project_views_total",
				Help:      "Prototype views received, by whether they were stored",
			},
			[]string{"result"},
		)

		ShareLinkResolutionsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "share_link_resolutions_total",
				Help:      "Public share link lookups by outcome",
			},
			[]string{"result"},
		)

		FigmaRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "figma_requests_total",
				Help:      "Figma thumbnail lookups by outcome",
			},
			[]string{"outcome"},
		)

		JobRunsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "job_runs_total",
				Help:      "Scheduled job executions by outcome",
			},
			[]string{"job", "outcome"},
		)

		registry.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			ProjectViewsTotal,
			ShareLinkResolutionsTotal,
			FigmaRequestsTotal,
			JobRunsTotal,
		)
	})
}

// Registry returns the registry holding the service collectors.
func Registry() *prometheus.Registry {
	Init()
	return registry
}

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}

// Outcome maps an error to the "ok"/"error" label pair used by job and client counters.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
