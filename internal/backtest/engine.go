// Package backtest replays matched bets chronologically against a mutating
// bankroll and records a complete decision ledger.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/itzcole03/StatMusePicksv2-sub001/internal/calibration"
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/ingest"
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/metrics"
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/models"
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/policy"
)

// Phase is the engine lifecycle: INIT -> RUNNING -> DONE, terminal
type Phase string

const (
	PhaseInit    Phase = "INIT"
	PhaseRunning Phase = "RUNNING"
	PhaseDone    Phase = "DONE"
)

// Config holds replay parameters
type Config struct {
	InitialBankroll float64
}

// Engine orchestrates one chronological replay. An instance owns its bankroll
// state exclusively for one run and becomes read-only afterwards; it must not
// be reused.
type Engine struct {
	config     Config
	policy     *policy.Policy
	calibrator *calibration.Applier
	logger     *logrus.Logger
	phase      Phase
}

// RunResult is the complete outcome of a replay
type RunResult struct {
	State           *BankrollState
	Alignment       ingest.AlignmentReport
	CalibratedProbs []float64
	Outcomes        []bool
	Model           calibration.Model
	InvalidOddsRows int
	FirstDate       time.Time
	LastDate        time.Time
}

// NewEngine creates a replay engine
func NewEngine(cfg Config, pol *policy.Policy, calibrator *calibration.Applier, logger *logrus.Logger) (*Engine, error) {
	if cfg.InitialBankroll <= 0 {
		return nil, fmt.Errorf("initial bankroll must be positive, got %v", cfg.InitialBankroll)
	}
	if pol == nil {
		return nil, fmt.Errorf("betting policy is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	if calibrator == nil {
		calibrator = calibration.IdentityApplier(logger)
	}
	return &Engine{
		config:     cfg,
		policy:     pol,
		calibrator: calibrator,
		logger:     logger,
		phase:      PhaseInit,
	}, nil
}

// Phase returns the engine lifecycle phase
func (e *Engine) Phase() Phase { return e.phase }

// Run joins predictions to actuals, calibrates probabilities, and replays the
// matched bets in chronological order against the live bankroll. Zero matched
// bets is a valid run producing an empty ledger. Run is single-pass; a second
// call returns models.ErrEngineDone.
func (e *Engine) Run(ctx context.Context, predictions []models.PredictionRecord, actuals []models.ActualRecord) (*RunResult, error) {
	if e.phase == PhaseDone {
		return nil, models.ErrEngineDone
	}
	e.phase = PhaseRunning

	matched, alignment := ingest.Join(predictions, actuals, e.logger)
	metrics.RecordExcludedRows("unmatched", alignment.UnmatchedPredictions)

	result := &RunResult{
		State:     NewBankrollState(e.config.InitialBankroll),
		Alignment: alignment,
	}

	if len(matched) == 0 {
		e.phase = PhaseDone
		e.logger.Warn("No matched bets; producing empty summary")
		metrics.RecordRun("empty")
		return result, nil
	}

	rawProbs := make([]float64, len(matched))
	outcomes := make([]bool, len(matched))
	for i, bet := range matched {
		rawProbs[i] = bet.Prediction.RawProbability
		outcomes[i] = bet.Outcome
	}
	calibrated, model := e.calibrator.Apply(rawProbs, outcomes)
	result.CalibratedProbs = calibrated
	result.Outcomes = outcomes
	result.Model = model

	result.FirstDate = matched[0].Prediction.GameDate
	result.LastDate = matched[len(matched)-1].Prediction.GameDate

	for i, bet := range matched {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("replay interrupted: %w", err)
		}

		decision := e.policy.Decide(bet, calibrated[i], result.State.CurrentBankroll)
		if decision.Reason == models.ErrInvalidOdds.Error() {
			result.InvalidOddsRows++
			e.logger.WithFields(logrus.Fields{
				"player":     bet.Prediction.Player,
				"game_date":  bet.Prediction.GameDate,
				"odds_over":  bet.Prediction.DecimalOddsOver,
				"odds_under": bet.Prediction.DecimalOddsUnder,
			}).Warn("Malformed odds, forcing NO_BET")
		}
		result.State.Record(decision)
	}
	metrics.RecordExcludedRows("invalid_odds", result.InvalidOddsRows)

	e.phase = PhaseDone
	metrics.RecordRun("success")
	metrics.FinalBankroll.Set(result.State.CurrentBankroll)

	e.logger.WithFields(logrus.Fields{
		"matched_bets":   len(matched),
		"staked_bets":    len(result.State.StakedBets()),
		"final_bankroll": result.State.CurrentBankroll,
	}).Info("Replay complete")

	if result.State.CurrentBankroll < 0 {
		e.logger.WithField("final_bankroll", result.State.CurrentBankroll).
			Warn("Bankroll went negative during replay")
	}

	return result, nil
}
