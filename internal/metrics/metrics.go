// Package metrics exposes Prometheus instrumentation for the budget API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	// Registry owns these metrics and backs the /metrics endpoint.
	Registry *prometheus.Registry

	requestDuration   *prometheus.HistogramVec
	snapshotSaves     *prometheus.CounterVec
	autoSaves         *prometheus.CounterVec
	periodSwitches    *prometheus.CounterVec
	carryForwardSeeds prometheus.Counter
	resolutions       *prometheus.CounterVec
}

// New creates a private registry and registers all metrics in it, so tests
// can build as many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "budgetex_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by route and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		snapshotSaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budgetex_snapshot_saves_total",
				Help: "Snapshot writes by outcome.",
			},
			[]string{"result"},
		),
		autoSaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budgetex_autosave_flushes_total",
				Help: "Debounced auto-save flushes by outcome.",
			},
			[]string{"result"},
		),
		periodSwitches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budgetex_period_switches_total",
				Help: "Period switch requests by outcome.",
			},
			[]string{"result"},
		),
		carryForwardSeeds: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "budgetex_carry_forward_seeds_total",
				Help: "Categories pre-seeded with a previous month's overage.",
			},
		),
		resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budgetex_period_resolutions_total",
				Help: "Period resolutions by data source.",
			},
			[]string{"source"},
		),
	}
}

// ObserveRequest records an HTTP request's duration.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// IncSnapshotSave counts a snapshot write.
func (m *Metrics) IncSnapshotSave(err error) {
	if m == nil {
		return
	}
	m.snapshotSaves.WithLabelValues(result(err)).Inc()
}

// IncAutoSave counts a debounced auto-save flush.
func (m *Metrics) IncAutoSave(err error) {
	if m == nil {
		return
	}
	m.autoSaves.WithLabelValues(result(err)).Inc()
}

// IncPeriodSwitch counts a period switch attempt; result is "ok", "busy" or "error".
func (m *Metrics) IncPeriodSwitch(outcome string) {
	if m == nil {
		return
	}
	m.periodSwitches.WithLabelValues(outcome).Inc()
}

// AddCarryForward counts categories seeded by carry-forward.
func (m *Metrics) AddCarryForward(n int) {
	if m == nil || n == 0 {
		return
	}
	m.carryForwardSeeds.Add(float64(n))
}

// IncResolution counts a period resolution by the source it used.
func (m *Metrics) IncResolution(source string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(source).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
