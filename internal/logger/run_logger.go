// Package logger provides run audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RunLogger provides a dedicated audit trail for backtest runs.
type RunLogger struct {
	*logrus.Entry
}

// NewRunLogger creates a new run audit logger.
func NewRunLogger(baseLogger *logrus.Logger) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithField("component", "run"),
	}
}

// LogRunStart logs the parameters a run was launched with.
func (rl *RunLogger) LogRunStart(runID, predictionsPath, actualsPath string, initialBankroll float64, calibrationMethod string, startedAt time.Time) {
	rl.WithFields(logrus.Fields{
		"run_id":             runID,
		"predictions_path":   predictionsPath,
		"actuals_path":       actualsPath,
		"initial_bankroll":   initialBankroll,
		"calibration_method": calibrationMethod,
		"started_at":         startedAt.Unix(),
	}).Info("Backtest run started")
}

// LogRunComplete logs the outcome of a finished run.
func (rl *RunLogger) LogRunComplete(runID string, matchedBets, stakedBets int, finalBankroll, roi float64, elapsed time.Duration) {
	rl.WithFields(logrus.Fields{
		"run_id":         runID,
		"matched_bets":   matchedBets,
		"staked_bets":    stakedBets,
		"final_bankroll": finalBankroll,
		"roi":            roi,
		"elapsed_ms":     elapsed.Milliseconds(),
	}).Info("Backtest run complete")
}

// LogRunFailure logs a run that aborted before producing artifacts.
func (rl *RunLogger) LogRunFailure(runID, reason string) {
	rl.WithFields(logrus.Fields{
		"run_id": runID,
		"reason": reason,
	}).Error("Backtest run failed")
}
