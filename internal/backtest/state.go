package backtest

import (
	"time"

	"github.com/itzcole03/StatMusePicksv2-sub001/internal/models"
)

// EquityPoint represents a point in the bankroll trajectory
type EquityPoint struct {
	Time     time.Time `json:"time"`
	Value    float64   `json:"value"`
	Drawdown float64   `json:"drawdown"`
}

// EquityCurve represents the bankroll trajectory over the replay
type EquityCurve []EquityPoint

// GetReturns calculates periodic returns between successive equity points
func (e EquityCurve) GetReturns() []float64 {
	if len(e) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(e)-1)
	for i := 1; i < len(e); i++ {
		prev := e[i-1].Value
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (e[i].Value-prev)/prev)
	}
	return returns
}

// BankrollState tracks the mutating bankroll during a replay. The bankroll is
// owned exclusively by one Engine for one run and may go negative; it is
// surfaced as-is, never clamped at zero.
type BankrollState struct {
	InitialBankroll float64
	CurrentBankroll float64
	PeakBankroll    float64
	Ledger          []models.BetDecision
	EquityCurve     EquityCurve
}

// NewBankrollState initializes replay state
func NewBankrollState(initialBankroll float64) *BankrollState {
	return &BankrollState{
		InitialBankroll: initialBankroll,
		CurrentBankroll: initialBankroll,
		PeakBankroll:    initialBankroll,
		Ledger:          []models.BetDecision{},
		EquityCurve:     EquityCurve{},
	}
}

// Record appends a decision to the ledger, applying its profit to the bankroll
// when staked. NO_BET rows never move the bankroll.
func (s *BankrollState) Record(decision models.BetDecision) {
	s.Ledger = append(s.Ledger, decision)
	if !decision.IsStaked() {
		return
	}

	s.CurrentBankroll += decision.Profit
	if s.CurrentBankroll > s.PeakBankroll {
		s.PeakBankroll = s.CurrentBankroll
	}
	s.recordEquityPoint(decision.GameDate, s.CurrentBankroll)
}

// StakedBets returns the ledger rows that placed money on a side
func (s *BankrollState) StakedBets() []models.BetDecision {
	staked := make([]models.BetDecision, 0, len(s.Ledger))
	for _, decision := range s.Ledger {
		if decision.IsStaked() {
			staked = append(staked, decision)
		}
	}
	return staked
}

func (s *BankrollState) recordEquityPoint(t time.Time, value float64) {
	drawdown := 0.0
	if value < s.PeakBankroll && s.PeakBankroll > 0 {
		drawdown = (s.PeakBankroll - value) / s.PeakBankroll
	}
	s.EquityCurve = append(s.EquityCurve, EquityPoint{Time: t, Value: value, Drawdown: drawdown})
}
