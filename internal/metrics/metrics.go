// Package metrics collects per-run formatter statistics in a Prometheus
// registry and can push them to a Pushgateway at the end of a batch job.
//
// A nil *Recorder is valid and records nothing, so callers that do not want
// metrics simply pass nil.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/vegasq/pqline/internal/errors"
)

// Recorder holds the pqline collectors.
type Recorder struct {
	reg *prometheus.Registry

	runs     *prometheus.CounterVec // pqline_runs_total{status}
	records  *prometheus.CounterVec // pqline_records_total{column}
	nulls    *prometheus.CounterVec // pqline_null_values_total{column}
	bytes    prometheus.Counter     // pqline_text_bytes_total
	duration *prometheus.SummaryVec // pqline_run_duration_seconds{status}
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() (*Recorder, error) {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		reg: reg,
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pqline_runs_total",
				Help: "Formatter runs, partitioned by status (ok, error).",
			},
			[]string{"status"},
		),
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pqline_records_total",
				Help: "Records written as lines, partitioned by selected column.",
			},
			[]string{"column"},
		),
		nulls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pqline_null_values_total",
				Help: "Records whose selected column was null.",
			},
			[]string{"column"},
		),
		bytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pqline_text_bytes_total",
				Help: "Bytes of rendered text before line terminators and encoding.",
			},
		),
		duration: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       "pqline_run_duration_seconds",
				Help:       "Duration of formatter runs in seconds.",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			[]string{"status"},
		),
	}

	for name, c := range map[string]prometheus.Collector{
		"runs":     r.runs,
		"records":  r.records,
		"nulls":    r.nulls,
		"bytes":    r.bytes,
		"duration": r.duration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrapf(err, "metrics: register %s", name)
		}
	}
	return r, nil
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// ObserveRun records the outcome of one formatter run.
func (r *Recorder) ObserveRun(column string, records, nulls, bytes int64, elapsed time.Duration, runErr error) {
	if r == nil {
		return
	}
	status := "ok"
	if runErr != nil {
		status = "error"
	}
	r.runs.WithLabelValues(status).Inc()
	r.duration.WithLabelValues(status).Observe(elapsed.Seconds())
	if records > 0 {
		r.records.WithLabelValues(column).Add(float64(records))
	}
	if nulls > 0 {
		r.nulls.WithLabelValues(column).Add(float64(nulls))
	}
	if bytes > 0 {
		r.bytes.Add(float64(bytes))
	}
}

// Push sends the registry to a Pushgateway under the given job name.
func (r *Recorder) Push(gatewayURL, job string) error {
	if r == nil {
		return nil
	}
	if gatewayURL == "" {
		return errors.New("metrics: gateway URL is required")
	}
	if job == "" {
		job = "pqline"
	}
	if err := push.New(gatewayURL, job).Gatherer(r.reg).Push(); err != nil {
		return errors.Wrapf(err, "metrics: push to %s", gatewayURL)
	}
	return nil
}
