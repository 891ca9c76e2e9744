// Package metrics exposes Prometheus collectors for the compile and run
// pipeline. All methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StageScan  = "scan"
	StageParse = "parse"
	StageEval  = "eval"
)

type Metrics struct {
	StageDuration *prometheus.HistogramVec
	StageErrors   *prometheus.CounterVec
	Runs          prometheus.Counter
	Steps         prometheus.Counter
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "minitri_stage_seconds",
			Help:    "Time spent in each pipeline stage.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		StageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "minitri_stage_errors_total",
			Help: "Total number of failures per pipeline stage.",
		}, []string{"stage"}),
		Runs: f.NewCounter(prometheus.CounterOpts{
			Name: "minitri_runs_total",
			Help: "Total number of program executions started.",
		}),
		Steps: f.NewCounter(prometheus.CounterOpts{
			Name: "minitri_steps_total",
			Help: "Total number of evaluation steps across all runs.",
		}),
	}
}

// Observe records the duration of a stage and whether it failed.
func (m *Metrics) Observe(stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.StageErrors.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) RunStarted() {
	if m == nil {
		return
	}
	m.Runs.Inc()
}

func (m *Metrics) AddSteps(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.Steps.Add(float64(n))
}

// Handler serves the collectors of g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return mux
}
