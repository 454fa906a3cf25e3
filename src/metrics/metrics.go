/*
Package metrics exposes Prometheus instrumentation for the submission subsystem.

Metrics:
  - entries_created_total: slots created (labels: mode)
  - submissions_written_total: answer documents written (labels: source = submit|update|autofill)
  - autofill_runs_total: auto-fill invocations (labels: outcome = completed|skipped_locked|failed)
  - autofill_entries_total: per-entry auto-fill results (labels: result = filled|skipped|failed)
  - autofill_duration_seconds: auto-fill batch duration
  - reconcile_findings_total: inconsistencies found by the reconciliation sweep (labels: kind)
*/
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EntriesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entries_created_total",
			Help: "Submission slots created, by assignment mode",
		},
		[]string{"mode"},
	)

	SubmissionsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_written_total",
			Help: "Answer documents written, by source",
		},
		[]string{"source"},
	)

	AutoFillRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autofill_runs_total",
			Help: "Auto-fill batch invocations, by outcome",
		},
		[]string{"outcome"},
	)

	AutoFillEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autofill_entries_total",
			Help: "Auto-fill per-entry results",
		},
		[]string{"result"},
	)

	AutoFillDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "autofill_duration_seconds",
			Help:    "Auto-fill batch duration",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 300},
		},
	)

	ReconcileFindings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_findings_total",
			Help: "Cross-store inconsistencies found, by kind",
		},
		[]string{"kind"},
	)
)

func RecordEntriesCreated(mode string, n int64) {
	if n > 0 {
		EntriesCreated.WithLabelValues(mode).Add(float64(n))
	}
}

func RecordSubmissionWritten(source string) {
	SubmissionsWritten.WithLabelValues(source).Inc()
}

func RecordAutoFillRun(outcome string, started time.Time) {
	AutoFillRuns.WithLabelValues(outcome).Inc()
	AutoFillDuration.Observe(time.Since(started).Seconds())
}

func RecordAutoFillEntry(result string) {
	AutoFillEntries.WithLabelValues(result).Inc()
}

func RecordReconcileFindings(kind string, n int) {
	if n > 0 {
		ReconcileFindings.WithLabelValues(kind).Add(float64(n))
	}
}
