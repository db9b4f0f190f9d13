// Package metrics records operational metrics of analysis runs in a
// Prometheus registry.
//
// A CLI run is short-lived, so nothing is scraped. The registry is exported
// after the run either to a file in the text exposition format (for the node
// exporter textfile collector) or to a Pushgateway.
//
// A nil *Recorder is valid and records nothing, so callers never need to
// check whether metrics are enabled.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Row kinds.
const (
	RowsProcessed = "processed"
	RowsEco       = "eco"
	RowsWarning   = "warning"
)

// Recorder holds the collectors of one process.
type Recorder struct {
	reg *prometheus.Registry

	runs          *prometheus.CounterVec   // ecoreport_runs_total
	rows          *prometheus.CounterVec   // ecoreport_rows_total
	stageDuration *prometheus.HistogramVec // ecoreport_stage_duration_seconds
	savingsKg     prometheus.Gauge         // ecoreport_last_run_co2_savings_kg
	ecoRatio      prometheus.Gauge         // ecoreport_last_run_eco_ratio_percent
}

// New creates a Recorder with its own registry.
func New() (*Recorder, error) {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		reg: reg,
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ecoreport_runs_total",
				Help: "Total number of analysis runs, partitioned by status.",
			},
			[]string{"status"},
		),
		rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ecoreport_rows_total",
				Help: "Ledger rows per kind (processed, eco, warning).",
			},
			[]string{"kind"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ecoreport_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"stage"},
		),
		savingsKg: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ecoreport_last_run_co2_savings_kg",
			Help: "Total CO2 savings of the last successful run, in kg.",
		}),
		ecoRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ecoreport_last_run_eco_ratio_percent",
			Help: "Eco spend ratio of the last successful run, in percent.",
		}),
	}

	for _, c := range []prometheus.Collector{r.runs, r.rows, r.stageDuration, r.savingsKg, r.ecoRatio} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register collector: %w", err)
		}
	}

	return r, nil
}

// ObserveStage records the duration of a pipeline stage.
func (r *Recorder) ObserveStage(stage string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// RunSummary is what a run reports to the recorder.
type RunSummary struct {
	Rows      int
	EcoRows   int
	Warnings  int
	SavingsKg float64
	EcoRatio  float64
}

// RecordSuccess counts a successful run and its rows.
func (r *Recorder) RecordSuccess(s RunSummary) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(StatusSuccess).Inc()
	r.rows.WithLabelValues(RowsProcessed).Add(float64(s.Rows))
	r.rows.WithLabelValues(RowsEco).Add(float64(s.EcoRows))
	r.rows.WithLabelValues(RowsWarning).Add(float64(s.Warnings))
	r.savingsKg.Set(s.SavingsKg)
	r.ecoRatio.Set(s.EcoRatio)
}

// RecordFailure counts a failed run.
func (r *Recorder) RecordFailure() {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(StatusFailure).Inc()
}

// Gatherer exposes the registry, e.g. for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

// WriteTextfile writes the registry to path in the text exposition format.
// The file is written atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

// Push sends the registry to a Pushgateway under the given job name.
func (r *Recorder) Push(gatewayURL, job string) error {
	if r == nil || gatewayURL == "" {
		return nil
	}
	if job == "" {
		job = "ecoreport"
	}
	if err := push.New(gatewayURL, job).Gatherer(r.reg).Push(); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
