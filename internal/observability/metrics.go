// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Scoring run metrics
	CreatorsScored  prometheus.Counter
	ScoringErrors   *prometheus.CounterVec
	ScoringDuration prometheus.Histogram
	RunsTotal       *prometheus.CounterVec
	RunDuration     prometheus.Histogram

	// Persistence metrics
	ScoresUpserted    prometheus.Counter
	SnapshotsWritten  prometheus.Counter
	SnapshotsSkipped  prometheus.Counter
	DBQueryErrors     *prometheus.CounterVec

	// State metrics
	LeaderboardSize   prometheus.Gauge
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "tipscore"
	}

	return &Metrics{
		CreatorsScored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "creators_scored_total",
			Help:      "Total number of creators scored successfully",
		}),
		ScoringErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "errors_total",
			Help:      "Total number of scoring errors by stage",
		}, []string{"stage"}),
		ScoringDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "creator_duration_seconds",
			Help:      "Time to score one creator in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "runs_total",
			Help:      "Total number of scoring runs by status",
		}, []string{"status"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "run_duration_seconds",
			Help:      "Duration of a full scoring run in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}),

		ScoresUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "scores_upserted_total",
			Help:      "Total number of current-score rows written",
		}),
		SnapshotsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "snapshots_written_total",
			Help:      "Total number of history snapshots appended",
		}),
		SnapshotsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "snapshots_skipped_total",
			Help:      "Total number of snapshots skipped as same-day duplicates",
		}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "query_errors_total",
			Help:      "Total number of storage errors by database and operation",
		}, []string{"database", "operation"}),

		LeaderboardSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "leaderboard_size",
			Help:      "Number of creators with a current score",
		}),
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last fully successful scoring run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordCreatorScored increments the scored counter and observes duration.
func RecordCreatorScored(seconds float64) {
	DefaultMetrics.CreatorsScored.Inc()
	DefaultMetrics.ScoringDuration.Observe(seconds)
}

// RecordScoringError records a per-creator scoring failure.
func RecordScoringError(stage string) {
	DefaultMetrics.ScoringErrors.WithLabelValues(stage).Inc()
}

// RecordRun records a scoring run outcome.
func RecordRun(status string, durationSeconds float64) {
	DefaultMetrics.RunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.RunDuration.Observe(durationSeconds)
}

// RecordDBError records a storage error.
func RecordDBError(database, operation string) {
	DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
}
