// Package main provides the entry point for the backtest CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/itzcole03/StatMusePicksv2-sub001/internal/backtest"
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/calibration"
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/config"
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/ingest"
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/logger"
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/metrics"
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/policy"
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/report"
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/summary"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile        string
	predictionsPath   string
	actualsPath       string
	outputDir         string
	logLevel          string
	initialBankroll   float64
	minConfidence     float64
	decimalOdds       float64
	maxFractionPerBet float64
	calibrate         bool
	calibrationSplit  string
	kfoldIsotonic     bool
	kfoldFolds        int
	trainFraction     float64
)

var rootCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay model predictions through a capped-Kelly betting simulation",
	Long: `Validates whether a probabilistic prediction model is financially exploitable:
optionally recalibrates raw probabilities against realized outcomes without
label leakage, then replays a chronological betting simulation and reports
bankroll trajectory and performance metrics.`,
	RunE: run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	flags.StringVar(&predictionsPath, "predictions", "", "Path to predictions CSV")
	flags.StringVar(&actualsPath, "actuals", "", "Path to actuals CSV")
	flags.StringVar(&outputDir, "output", "", "Output directory for run artifacts")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.Float64Var(&initialBankroll, "initial-bankroll", 0, "Starting bankroll")
	flags.Float64Var(&minConfidence, "min-confidence", 0, "Minimum max(p, 1-p) required to stake a bet")
	flags.Float64Var(&decimalOdds, "decimal-odds", 0, "Default decimal odds when the input has no odds column")
	flags.Float64Var(&maxFractionPerBet, "max-fraction-per-bet", 0, "Kelly stake cap as a fraction of the live bankroll")
	flags.BoolVar(&calibrate, "calibrate", false, "Recalibrate raw probabilities before the replay")
	flags.StringVar(&calibrationSplit, "calibration-split", "", "Calibration fit split: train or all")
	flags.BoolVar(&kfoldIsotonic, "kfold-isotonic", false, "Use leakage-free k-fold isotonic calibration")
	flags.IntVar(&kfoldFolds, "kfold-folds", 0, "Number of folds for k-fold isotonic calibration")
	flags.Float64Var(&trainFraction, "train-fraction", 0, "Chronological fraction of rows used as the calibration train split")

	rootCmd.MarkFlagRequired("predictions")
	rootCmd.MarkFlagRequired("actuals")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.App.LogLevel)
	log.WithFields(logrus.Fields{
		"version":    Version,
		"git_commit": GitCommit,
		"build_date": BuildDate,
	}).Info("Starting backtest")

	if cfg.Metrics.Enabled {
		metrics.Register(prometheus.DefaultRegisterer)
	}

	runID := uuid.New().String()
	startedAt := time.Now().UTC()
	runLog := logger.NewRunLogger(log)
	runLog.LogRunStart(runID, cfg.Inputs.PredictionsPath, cfg.Inputs.ActualsPath,
		cfg.Backtest.InitialBankroll, cfg.Calibration.Method, startedAt)

	ctx := context.Background()

	reader := ingest.NewReader(cfg.Betting.DefaultDecimalOdds, log)
	predictions, skippedPredictions, err := reader.LoadPredictions(cfg.Inputs.PredictionsPath)
	if err != nil {
		return fmt.Errorf("loading predictions: %w", err)
	}
	actuals, skippedActuals, err := reader.LoadActuals(cfg.Inputs.ActualsPath)
	if err != nil {
		return fmt.Errorf("loading actuals: %w", err)
	}
	metrics.RecordExcludedRows("unparseable", skippedPredictions+skippedActuals)

	calibrator, err := buildCalibrator(cfg, log)
	if err != nil {
		return err
	}

	engine, err := backtest.NewEngine(
		backtest.Config{InitialBankroll: cfg.Backtest.InitialBankroll},
		policy.New(policy.Config{
			MinConfidence:     cfg.Betting.MinConfidence,
			MaxFractionPerBet: cfg.Betting.MaxFractionPerBet,
		}),
		calibrator,
		log,
	)
	if err != nil {
		return err
	}

	result, err := engine.Run(ctx, predictions, actuals)
	if err != nil {
		metrics.RecordRun("failure")
		runLog.LogRunFailure(runID, err.Error())
		return fmt.Errorf("replay failed: %w", err)
	}

	runMetrics := summary.Compute(result)
	table := calibration.ReliabilityTable(result.Outcomes, result.CalibratedProbs, calibration.DefaultBins)

	var brier, ece *float64
	if len(result.CalibratedProbs) > 0 {
		b := calibration.BrierScore(result.Outcomes, result.CalibratedProbs)
		e := calibration.ExpectedCalibrationError(result.Outcomes, result.CalibratedProbs, calibration.DefaultBins)
		brier, ece = &b, &e
	}

	meta := report.Metadata{
		RunID:           runID,
		StartedAt:       startedAt,
		FinishedAt:      time.Now().UTC(),
		PredictionsPath: cfg.Inputs.PredictionsPath,
		ActualsPath:     cfg.Inputs.ActualsPath,
		Parameters: map[string]interface{}{
			"initial_bankroll":     cfg.Backtest.InitialBankroll,
			"min_confidence":       cfg.Betting.MinConfidence,
			"default_decimal_odds": cfg.Betting.DefaultDecimalOdds,
			"max_fraction_per_bet": cfg.Betting.MaxFractionPerBet,
			"calibration_enabled":  cfg.Calibration.Enabled,
			"calibration_method":   cfg.Calibration.Method,
			"calibration_split":    cfg.Calibration.Split,
			"kfold_folds":          cfg.Calibration.KFoldFolds,
			"train_fraction":       cfg.Calibration.TrainFraction,
			"skipped_predictions":  skippedPredictions,
			"skipped_actuals":      skippedActuals,
		},
		Alignment:         result.Alignment,
		InvalidOddsRows:   result.InvalidOddsRows,
		CalibrationMethod: calibratorMethodName(result),
		BrierScore:        brier,
		ECE:               ece,
	}

	writer := report.NewWriter(cfg.Backtest.OutputDir, log)
	if err := writer.WriteAll(result, runMetrics, table, meta); err != nil {
		runLog.LogRunFailure(runID, err.Error())
		return fmt.Errorf("writing artifacts: %w", err)
	}

	runLog.LogRunComplete(runID, result.Alignment.MatchedBets, runMetrics.TotalBets,
		runMetrics.FinalBankroll, runMetrics.ROI, time.Since(startedAt))

	fmt.Print(report.GenerateConsoleReport(runMetrics))
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("predictions") {
		cfg.Inputs.PredictionsPath = predictionsPath
	}
	if flags.Changed("actuals") {
		cfg.Inputs.ActualsPath = actualsPath
	}
	if flags.Changed("output") {
		cfg.Backtest.OutputDir = outputDir
	}
	if flags.Changed("log-level") {
		cfg.App.LogLevel = logLevel
	}
	if flags.Changed("initial-bankroll") {
		cfg.Backtest.InitialBankroll = initialBankroll
	}
	if flags.Changed("min-confidence") {
		cfg.Betting.MinConfidence = minConfidence
	}
	if flags.Changed("decimal-odds") {
		cfg.Betting.DefaultDecimalOdds = decimalOdds
	}
	if flags.Changed("max-fraction-per-bet") {
		cfg.Betting.MaxFractionPerBet = maxFractionPerBet
	}
	if flags.Changed("calibrate") {
		cfg.Calibration.Enabled = calibrate
	}
	if flags.Changed("calibration-split") {
		cfg.Calibration.Split = calibrationSplit
	}
	if flags.Changed("kfold-isotonic") && kfoldIsotonic {
		cfg.Calibration.Enabled = true
		cfg.Calibration.Method = "isotonic_kfold"
	}
	if flags.Changed("kfold-folds") {
		cfg.Calibration.KFoldFolds = kfoldFolds
	}
	if flags.Changed("train-fraction") {
		cfg.Calibration.TrainFraction = trainFraction
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if cfg.Inputs.PredictionsPath == "" || cfg.Inputs.ActualsPath == "" {
		return nil, fmt.Errorf("predictions and actuals paths are required")
	}
	return cfg, nil
}

func buildCalibrator(cfg *config.Config, log *logrus.Logger) (*calibration.Applier, error) {
	if !cfg.Calibration.Enabled {
		return calibration.IdentityApplier(log), nil
	}
	method, err := calibration.ParseMethod(cfg.Calibration.Method, cfg.Calibration.KFoldFolds)
	if err != nil {
		return nil, err
	}
	return calibration.NewApplier(method, calibration.Split(cfg.Calibration.Split), cfg.Calibration.TrainFraction, log)
}

func calibratorMethodName(result *backtest.RunResult) string {
	if result.Model == nil {
		return string(calibration.KindIdentity)
	}
	return result.Model.Method().String()
}
