package portal

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Build outcomes recorded on vidcat_catalog_builds_total.
const (
	buildSuccess = "success"
	buildFailure = "failure"
)

// metrics holds the portal collectors. Each portal owns its registry so
// several instances can coexist in one process.
type metrics struct {
	registry *prometheus.Registry

	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	skippedRows   prometheus.Counter
	assets        prometheus.Gauge
	lastBuild     prometheus.Gauge
	requests      *prometheus.CounterVec
	issues        *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &metrics{
		registry: reg,
		builds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vidcat_catalog_builds_total",
				Help: "Total number of catalog builds by outcome",
			},
			[]string{"outcome"},
		),
		buildDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vidcat_catalog_build_duration_seconds",
				Help:    "Duration of catalog fetch and build in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		skippedRows: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vidcat_catalog_skipped_rows_total",
				Help: "Total number of CSV rows skipped during builds",
			},
		),
		assets: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vidcat_catalog_assets",
				Help: "Number of assets in the served catalog",
			},
		),
		lastBuild: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vidcat_catalog_last_build_timestamp_seconds",
				Help: "Unix time of the last successful catalog build",
			},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vidcat_http_requests_total",
				Help: "Total number of API requests by route, method, and status",
			},
			[]string{"route", "method", "status"},
		),
		issues: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vidcat_issue_submissions_total",
				Help: "Total number of issue submissions by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
	}
}

func (m *metrics) observeBuild(outcome string, elapsed time.Duration) {
	m.builds.WithLabelValues(outcome).Inc()
	m.buildDuration.Observe(elapsed.Seconds())
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// instrument counts requests by their matched route pattern so path
// parameters do not explode label cardinality.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	})
}
