// Package metrics exposes the solver's activity as Prometheus
// collectors. It never touches internal/cbs directly; cmd/mapfcbs wires
// a Recorder into cbs.Observer via cbsstats so the core stays free of
// any metrics dependency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the collectors for one solver run. Each field is
// labeled by run ID so concurrent or repeated solves don't collide.
type Recorder struct {
	registry *prometheus.Registry

	nodesExpanded   *prometheus.CounterVec
	lowLevelCalls   *prometheus.CounterVec
	lowLevelNodes   *prometheus.CounterVec
	solveDuration   *prometheus.HistogramVec
	openListMaxSize *prometheus.GaugeVec
}

// NewRecorder builds a Recorder registered against a fresh registry, so
// repeated CLI invocations in the same process never panic on
// duplicate registration.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		nodesExpanded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mapfcbs_ct_nodes_expanded_total",
			Help: "Constraint tree nodes expanded by the high-level search.",
		}, []string{"run_id"}),
		lowLevelCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mapfcbs_low_level_calls_total",
			Help: "Space-time A* invocations.",
		}, []string{"run_id"}),
		lowLevelNodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mapfcbs_low_level_nodes_total",
			Help: "Space-time A* node expansions, summed across invocations.",
		}, []string{"run_id"}),
		solveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mapfcbs_solve_duration_seconds",
			Help:    "Wall-clock time of a full Solve call.",
			Buckets: prometheus.DefBuckets,
		}, []string{"run_id"}),
		openListMaxSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mapfcbs_open_list_max_size",
			Help: "Largest size the constraint tree's open list reached.",
		}, []string{"run_id"}),
	}

	reg.MustRegister(r.nodesExpanded, r.lowLevelCalls, r.lowLevelNodes, r.solveDuration, r.openListMaxSize)
	return r
}

// Handler returns the HTTP handler serving this Recorder's registry in
// the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ForRun returns a RunRecorder scoped to a single run ID, implementing
// the cbs.Observer-compatible hooks expected by cbsstats.
func (r *Recorder) ForRun(runID string) *RunRecorder {
	return &RunRecorder{
		runID:           runID,
		nodesExpanded:   r.nodesExpanded.WithLabelValues(runID),
		lowLevelCalls:   r.lowLevelCalls.WithLabelValues(runID),
		lowLevelNodes:   r.lowLevelNodes.WithLabelValues(runID),
		solveDuration:   r.solveDuration.WithLabelValues(runID),
		openListMaxSize: r.openListMaxSize.WithLabelValues(runID),
	}
}

// RunRecorder records one Solve call's activity.
type RunRecorder struct {
	runID string

	nodesExpanded   prometheus.Counter
	lowLevelCalls   prometheus.Counter
	lowLevelNodes   prometheus.Counter
	solveDuration   prometheus.Observer
	openListMaxSize prometheus.Gauge

	openMax int
}

// NodeExpanded counts one constraint tree node expansion.
func (rr *RunRecorder) NodeExpanded() { rr.nodesExpanded.Inc() }

// NodeGenerated is a no-op at the metrics layer; cbsstats tracks the
// generated count for the CLI summary, but nothing here aggregates it.
func (rr *RunRecorder) NodeGenerated() {}

// LowLevelInvoked counts one space-time A* call.
func (rr *RunRecorder) LowLevelInvoked() { rr.lowLevelCalls.Inc() }

// LowLevelExpansion counts one space-time A* node expansion.
func (rr *RunRecorder) LowLevelExpansion() { rr.lowLevelNodes.Inc() }

// ObserveOpenListSize tracks the running max open-list size and
// publishes it to the gauge.
func (rr *RunRecorder) ObserveOpenListSize(n int) {
	if n > rr.openMax {
		rr.openMax = n
		rr.openListMaxSize.Set(float64(n))
	}
}

// ObserveSolveDuration records the wall-clock seconds a Solve call took.
func (rr *RunRecorder) ObserveSolveDuration(seconds float64) {
	rr.solveDuration.Observe(seconds)
}
