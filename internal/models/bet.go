package models

import (
	"time"
)

// BetSide represents the side of a bet (OVER, UNDER, or no bet)
type BetSide string

const (
	BetSideOver  BetSide = "OVER"
	BetSideUnder BetSide = "UNDER"
	BetSideNone  BetSide = "NO_BET"
)

// BetDecision represents one resolved row of the replay ledger.
// NO_BET rows are recorded with zero stake so every matched bet is accounted for.
type BetDecision struct {
	Player                string    `json:"player"`
	GameDate              time.Time `json:"game_date"`
	CalibratedProbability float64   `json:"calibrated_probability"`
	Side                  BetSide   `json:"side" validate:"required,oneof=OVER UNDER NO_BET"`
	StakeFraction         float64   `json:"stake_fraction"`
	StakeAmount           float64   `json:"stake_amount"`
	OddsUsed              float64   `json:"odds_used"`
	Outcome               bool      `json:"outcome"`
	Profit                float64   `json:"profit"`
	Reason                string    `json:"reason,omitempty"`
}

// IsStaked reports whether the decision placed money on a side
func (d BetDecision) IsStaked() bool {
	return d.Side != BetSideNone && d.StakeAmount > 0
}

// Won reports whether a staked decision won its side
func (d BetDecision) Won() bool {
	if !d.IsStaked() {
		return false
	}
	if d.Side == BetSideOver {
		return d.Outcome
	}
	return !d.Outcome
}

// Return is the per-bet return profit/stake, zero for unstaked rows
func (d BetDecision) Return() float64 {
	if !d.IsStaked() {
		return 0
	}
	return d.Profit / d.StakeAmount
}
