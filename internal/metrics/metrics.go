// Package metrics defines Prometheus instrumentation for backtest runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Counter vectors
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statmuse_picks",
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by status",
	}, []string{"status"})

	RowsExcludedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statmuse_picks",
		Name:      "rows_excluded_total",
		Help:      "Input rows excluded from the replay by reason",
	}, []string{"reason"})

	CalibrationFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "statmuse_picks",
		Name:      "calibration_fallbacks_total",
		Help:      "Calibration fits that fell back to the identity mapping",
	})
)

// Gauge vectors
var (
	FinalBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "statmuse_picks",
		Name:      "final_bankroll",
		Help:      "Final bankroll of the most recent backtest run",
	})
)

// Register registers all collectors with the given registry
func Register(registry prometheus.Registerer) {
	registry.MustRegister(
		BacktestRunsTotal,
		RowsExcludedTotal,
		CalibrationFallbacksTotal,
		FinalBankroll,
	)
}

// RecordRun records a completed backtest run.
// status should be one of: "success", "failure", "empty"
func RecordRun(status string) {
	BacktestRunsTotal.WithLabelValues(status).Inc()
}

// RecordExcludedRows records rows excluded from the replay.
// reason should be one of: "unmatched", "invalid_odds", "unparseable"
func RecordExcludedRows(reason string, count int) {
	if count > 0 {
		RowsExcludedTotal.WithLabelValues(reason).Add(float64(count))
	}
}
