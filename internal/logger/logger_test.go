package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = NewLogger("error")
	assert.Equal(t, logrus.ErrorLevel, log.GetLevel())
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("chatty")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestRunLoggerStart(t *testing.T) {
	log, buf := setupTestLogger()
	runLogger := NewRunLogger(log)

	runLogger.LogRunStart(
		"run-123",
		"predictions.csv",
		"actuals.csv",
		1000.0,
		"isotonic",
		time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "run-123", logEntry["run_id"])
	assert.Equal(t, "run", logEntry["component"])
	assert.Equal(t, "isotonic", logEntry["calibration_method"])
}

func TestRunLoggerComplete(t *testing.T) {
	log, buf := setupTestLogger()
	runLogger := NewRunLogger(log)

	runLogger.LogRunComplete("run-123", 100, 80, 1050.0, 0.05, 250*time.Millisecond)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(100), logEntry["matched_bets"])
	assert.Equal(t, 1050.0, logEntry["final_bankroll"])
}

func TestRunLoggerFailure(t *testing.T) {
	log, buf := setupTestLogger()
	runLogger := NewRunLogger(log)

	runLogger.LogRunFailure("run-123", "replay interrupted")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "replay interrupted", logEntry["reason"])
	assert.Equal(t, "error", logEntry["level"])
}
