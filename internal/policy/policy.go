// Package policy converts calibrated probabilities into capped-Kelly bet
// decisions.
package policy

import (
	"github.com/itzcole03/StatMusePicksv2-sub001/internal/models"
)

// kellyDenominatorFloor guards division by zero at decimal odds of exactly 1.0.
// Flooring the denominator effectively disables Kelly scaling; the per-bet cap
// still applies when the expected value is positive.
const kellyDenominatorFloor = 1e-9

// Config holds bet selection thresholds and staking limits
type Config struct {
	MinConfidence     float64
	MaxFractionPerBet float64
}

// Policy sizes bets with a generalized Kelly fraction capped per bet
type Policy struct {
	config Config
}

// New creates a betting policy
func New(config Config) *Policy {
	return &Policy{config: config}
}

// Decide resolves one matched bet against the live bankroll. NO_BET decisions
// carry zero stake and a reason; the caller records them in the ledger either
// way.
func (p *Policy) Decide(bet models.MatchedBet, calibratedProb, bankroll float64) models.BetDecision {
	prediction := bet.Prediction
	decision := models.BetDecision{
		Player:                prediction.Player,
		GameDate:              prediction.GameDate,
		CalibratedProbability: calibratedProb,
		Side:                  models.BetSideNone,
		Outcome:               bet.Outcome,
	}

	if prediction.DecimalOddsOver <= 1.0 || prediction.DecimalOddsUnder <= 1.0 {
		decision.Reason = models.ErrInvalidOdds.Error()
		return decision
	}

	evOver := calibratedProb*prediction.DecimalOddsOver - 1.0
	evUnder := (1.0-calibratedProb)*prediction.DecimalOddsUnder - 1.0

	var side models.BetSide
	var winProb, odds float64
	switch {
	case evOver > evUnder && evOver > 0:
		side = models.BetSideOver
		winProb = calibratedProb
		odds = prediction.DecimalOddsOver
	case evUnder > evOver && evUnder > 0:
		side = models.BetSideUnder
		winProb = 1.0 - calibratedProb
		odds = prediction.DecimalOddsUnder
	default:
		decision.Reason = "no positive edge"
		return decision
	}

	// Confidence gate applies regardless of EV sign
	if max(calibratedProb, 1.0-calibratedProb) < p.config.MinConfidence {
		decision.Reason = "below confidence threshold"
		return decision
	}

	fraction := kellyFraction(winProb, odds)
	if fraction > p.config.MaxFractionPerBet {
		fraction = p.config.MaxFractionPerBet
	}
	if fraction <= 0 {
		decision.Reason = "non-positive kelly fraction"
		return decision
	}

	stake := fraction * bankroll
	if stake <= 0 {
		decision.Reason = "bankroll exhausted"
		return decision
	}

	decision.Side = side
	decision.StakeFraction = fraction
	decision.StakeAmount = stake
	decision.OddsUsed = odds
	decision.Profit = settle(side, bet.Outcome, odds, stake)
	return decision
}

// kellyFraction is the generalized Kelly stake f* = (q*b - 1) / (b - 1) for
// win probability q at decimal odds b, floored at zero.
func kellyFraction(winProb, odds float64) float64 {
	denominator := odds - 1.0
	if denominator < kellyDenominatorFloor {
		denominator = kellyDenominatorFloor
	}
	fraction := (winProb*odds - 1.0) / denominator
	if fraction < 0 {
		return 0
	}
	return fraction
}

// settle returns profit on a winning unit stake of odds-1, loss of -stake
func settle(side models.BetSide, outcome bool, odds, stake float64) float64 {
	won := outcome
	if side == models.BetSideUnder {
		won = !outcome
	}
	if won {
		return (odds - 1.0) * stake
	}
	return -stake
}

// EV is the expected profit per unit staked at probability p and decimal odds b
func EV(p, odds float64) float64 {
	return p*odds - 1.0
}
