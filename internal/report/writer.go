// Package report writes run artifacts (ledger, summary, calibration table,
// metadata) as all-or-nothing files.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/itzcole03/StatMusePicksv2-sub001/internal/backtest"
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/calibration"
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/ingest"
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/models"
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/summary"
)

// Metadata captures run parameters and timestamps for reproducibility
type Metadata struct {
	RunID             string                 `json:"run_id"`
	StartedAt         time.Time              `json:"started_at"`
	FinishedAt        time.Time              `json:"finished_at"`
	PredictionsPath   string                 `json:"predictions_path"`
	ActualsPath       string                 `json:"actuals_path"`
	Parameters        map[string]interface{} `json:"parameters"`
	Alignment         ingest.AlignmentReport `json:"alignment"`
	InvalidOddsRows   int                    `json:"invalid_odds_rows"`
	CalibrationMethod string                 `json:"calibration_method"`
	BrierScore        *float64               `json:"brier_score,omitempty"`
	ECE               *float64               `json:"expected_calibration_error,omitempty"`
}

// Writer persists run artifacts into an output directory
type Writer struct {
	dir    string
	logger *logrus.Logger
}

// NewWriter creates a report writer rooted at dir
func NewWriter(dir string, logger *logrus.Logger) *Writer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Writer{dir: dir, logger: logger}
}

// WriteAll writes bets.csv, summary.csv, calibration.csv, and metadata.json.
// Each file is written to a temp file and atomically renamed so a crash
// mid-write never corrupts output.
func (w *Writer) WriteAll(result *backtest.RunResult, metrics summary.Metrics, table []calibration.ReliabilityBin, meta Metadata) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := w.writeAtomic("bets.csv", func(out io.Writer) error {
		return writeLedger(out, result.State.Ledger)
	}); err != nil {
		return err
	}
	if err := w.writeAtomic("summary.csv", func(out io.Writer) error {
		return writeSummary(out, metrics)
	}); err != nil {
		return err
	}
	if err := w.writeAtomic("calibration.csv", func(out io.Writer) error {
		return writeCalibrationTable(out, table)
	}); err != nil {
		return err
	}
	if err := w.writeAtomic("metadata.json", func(out io.Writer) error {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(meta)
	}); err != nil {
		return err
	}

	w.logger.WithField("dir", w.dir).Info("Artifacts written")
	return nil
}

func (w *Writer) writeAtomic(name string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(w.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(w.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to finalize %s: %w", name, err)
	}
	return nil
}

func writeLedger(out io.Writer, ledger []models.BetDecision) error {
	csvWriter := csv.NewWriter(out)
	header := []string{
		"player", "game_date", "calibrated_probability", "side",
		"stake_fraction", "stake_amount", "odds_used", "outcome", "profit", "reason",
	}
	if err := csvWriter.Write(header); err != nil {
		return err
	}
	for _, decision := range ledger {
		row := []string{
			decision.Player,
			decision.GameDate.UTC().Format(time.RFC3339),
			formatFloat(decision.CalibratedProbability),
			string(decision.Side),
			formatFloat(decision.StakeFraction),
			formatFloat(decision.StakeAmount),
			formatFloat(decision.OddsUsed),
			strconv.FormatBool(decision.Outcome),
			formatFloat(decision.Profit),
			decision.Reason,
		}
		if err := csvWriter.Write(row); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func writeSummary(out io.Writer, metrics summary.Metrics) error {
	csvWriter := csv.NewWriter(out)
	header := []string{
		"initial_bankroll", "final_bankroll", "roi", "win_rate",
		"total_bets", "sharpe", "max_drawdown", "cagr",
	}
	if err := csvWriter.Write(header); err != nil {
		return err
	}
	row := []string{
		formatFloat(metrics.InitialBankroll),
		formatFloat(metrics.FinalBankroll),
		formatFloat(metrics.ROI),
		formatFloat(metrics.WinRate),
		strconv.Itoa(metrics.TotalBets),
		formatFloat(metrics.Sharpe),
		formatFloat(metrics.MaxDrawdown),
		formatFloat(metrics.CAGR),
	}
	if err := csvWriter.Write(row); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func writeCalibrationTable(out io.Writer, table []calibration.ReliabilityBin) error {
	csvWriter := csv.NewWriter(out)
	if err := csvWriter.Write([]string{"bin_low", "bin_high", "mean_predicted", "mean_observed", "count"}); err != nil {
		return err
	}
	for _, bin := range table {
		row := []string{
			formatFloat(bin.Low),
			formatFloat(bin.High),
			formatFloat(bin.MeanPredicted),
			formatFloat(bin.MeanObserved),
			strconv.Itoa(bin.Count),
		}
		if err := csvWriter.Write(row); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// formatFloat keeps NaN values visible in CSV output; empty reliability bins
// must round-trip as NaN, not zero.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
