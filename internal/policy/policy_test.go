package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itzcole03/StatMusePicksv2-sub001/internal/models"
)

func matchedBet(p float64, oddsOver, oddsUnder float64, outcome bool) models.MatchedBet {
	return models.MatchedBet{
		Prediction: models.PredictionRecord{
			Player:           "A",
			GameDate:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			RawProbability:   p,
			DecimalOddsOver:  oddsOver,
			DecimalOddsUnder: oddsUnder,
		},
		Outcome: outcome,
	}
}

func TestDecideTakesOverSideWithPositiveEdge(t *testing.T) {
	pol := New(Config{MinConfidence: 0.6, MaxFractionPerBet: 0.02})

	decision := pol.Decide(matchedBet(0.7, 2.0, 2.0, true), 0.7, 1000)

	assert.Equal(t, models.BetSideOver, decision.Side)
	assert.Equal(t, 0.02, decision.StakeFraction)
	assert.InDelta(t, 20.0, decision.StakeAmount, 1e-9)
	assert.Equal(t, 2.0, decision.OddsUsed)
	assert.InDelta(t, 20.0, decision.Profit, 1e-9)
}

func TestDecideTakesUnderSide(t *testing.T) {
	pol := New(Config{MinConfidence: 0.6, MaxFractionPerBet: 0.02})

	decision := pol.Decide(matchedBet(0.3, 2.0, 2.0, true), 0.3, 1000)

	assert.Equal(t, models.BetSideUnder, decision.Side)
	// UNDER loses when the outcome is OVER
	assert.InDelta(t, -decision.StakeAmount, decision.Profit, 1e-9)
}

func TestDecideCoinFlipIsNoBet(t *testing.T) {
	pol := New(Config{MinConfidence: 0.0, MaxFractionPerBet: 0.02})

	decision := pol.Decide(matchedBet(0.5, 2.0, 2.0, true), 0.5, 1000)

	assert.Equal(t, models.BetSideNone, decision.Side)
	assert.Equal(t, 0.0, decision.StakeAmount)
}

func TestDecideConfidenceGate(t *testing.T) {
	pol := New(Config{MinConfidence: 0.75, MaxFractionPerBet: 0.02})

	// Positive EV but max(p, 1-p) = 0.7 below the gate
	decision := pol.Decide(matchedBet(0.7, 2.0, 2.0, true), 0.7, 1000)

	assert.Equal(t, models.BetSideNone, decision.Side)
	assert.Equal(t, "below confidence threshold", decision.Reason)
}

func TestDecideInvalidOdds(t *testing.T) {
	pol := New(Config{MinConfidence: 0.0, MaxFractionPerBet: 0.02})

	for _, odds := range []float64{1.0, 0.9, 0.0, -2.0} {
		decision := pol.Decide(matchedBet(0.9, odds, 2.0, true), 0.9, 1000)
		assert.Equal(t, models.BetSideNone, decision.Side, "odds %v", odds)
		assert.Equal(t, models.ErrInvalidOdds.Error(), decision.Reason, "odds %v", odds)
	}
}

func TestDecideStakesAgainstLiveBankroll(t *testing.T) {
	pol := New(Config{MinConfidence: 0.0, MaxFractionPerBet: 0.02})
	bet := matchedBet(0.9, 2.0, 2.0, true)

	first := pol.Decide(bet, 0.9, 1000)
	second := pol.Decide(bet, 0.9, 500)

	assert.InDelta(t, 20.0, first.StakeAmount, 1e-9)
	assert.InDelta(t, 10.0, second.StakeAmount, 1e-9)
}

func TestEVStrictlyIncreasingInProbability(t *testing.T) {
	for _, odds := range []float64{1.5, 2.0, 3.7} {
		prev := EV(0.01, odds)
		for p := 0.02; p < 1.0; p += 0.01 {
			current := EV(p, odds)
			require.Greater(t, current, prev, "odds %v p %v", odds, p)
			prev = current
		}
	}
}

func TestKellyFractionBounds(t *testing.T) {
	pol := New(Config{MinConfidence: 0.0, MaxFractionPerBet: 0.02})

	for p := 0.01; p < 1.0; p += 0.01 {
		for _, odds := range []float64{1.1, 1.5, 2.0, 5.0, 20.0} {
			decision := pol.Decide(matchedBet(p, odds, odds, true), p, 1000)
			assert.GreaterOrEqual(t, decision.StakeFraction, 0.0, "p=%v odds=%v", p, odds)
			assert.LessOrEqual(t, decision.StakeFraction, 0.02, "p=%v odds=%v", p, odds)
		}
	}
}

func TestKellyDenominatorFloor(t *testing.T) {
	// Odds barely above 1: the denominator floor keeps the math finite and
	// the cap still binds
	pol := New(Config{MinConfidence: 0.0, MaxFractionPerBet: 0.02})

	decision := pol.Decide(matchedBet(0.999, 1.0000000001, 2.0, true), 0.999, 1000)
	if decision.IsStaked() {
		assert.LessOrEqual(t, decision.StakeFraction, 0.02)
	}
}
