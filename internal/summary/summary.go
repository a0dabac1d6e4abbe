// Package summary reduces a replay ledger and bankroll trajectory into
// financial performance metrics.
package summary

import (
	"math"

	"github.com/itzcole03/StatMusePicksv2-sub001/internal/backtest"
)

// Metrics is the derived, read-only summary of one run, recomputed once per
// run from the ledger and bankroll trajectory.
type Metrics struct {
	InitialBankroll float64 `json:"initial_bankroll"`
	FinalBankroll   float64 `json:"final_bankroll"`
	ROI             float64 `json:"roi"`
	WinRate         float64 `json:"win_rate"`
	TotalBets       int     `json:"total_bets"`
	WinningBets     int     `json:"winning_bets"`
	Sharpe          float64 `json:"sharpe"`
	MaxDrawdown     float64 `json:"max_drawdown"`
	CAGR            float64 `json:"cagr"`
}

// Compute derives summary metrics from a completed run. NO_BET ledger rows are
// excluded from total_bets, win_rate, and Sharpe denominators. A run with zero
// matched bets yields an all-zero summary, not an error.
func Compute(result *backtest.RunResult) Metrics {
	state := result.State
	metrics := Metrics{
		InitialBankroll: state.InitialBankroll,
		FinalBankroll:   state.CurrentBankroll,
	}

	if state.InitialBankroll != 0 {
		metrics.ROI = (state.CurrentBankroll - state.InitialBankroll) / state.InitialBankroll
	}

	staked := state.StakedBets()
	metrics.TotalBets = len(staked)

	returns := make([]float64, 0, len(staked))
	for _, bet := range staked {
		if bet.Won() {
			metrics.WinningBets++
		}
		returns = append(returns, bet.Return())
	}
	if metrics.TotalBets > 0 {
		metrics.WinRate = float64(metrics.WinningBets) / float64(metrics.TotalBets)
	}

	metrics.Sharpe = sharpe(returns)
	metrics.MaxDrawdown = maxDrawdown(state.InitialBankroll, state.EquityCurve)
	metrics.CAGR = cagr(result, state.InitialBankroll, state.CurrentBankroll)

	return metrics
}

// sharpe is mean(r)/std(r) over per-bet returns. Fewer than 2 staked bets or
// zero return variance map to the 0.0 sentinel.
func sharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean := average(returns)
	std := stddev(returns, mean)
	if std == 0 {
		return 0
	}
	return mean / std
}

// maxDrawdown is the largest peak-to-trough decline over the bankroll series,
// with the running peak seeded at the initial bankroll. Values are capped at
// 1 so a negative trough cannot push the ratio past total loss.
func maxDrawdown(initial float64, curve backtest.EquityCurve) float64 {
	peak := initial
	maxDD := 0.0
	for _, point := range curve {
		if point.Value > peak {
			peak = point.Value
		}
		if peak <= 0 {
			continue
		}
		drawdown := (peak - point.Value) / peak
		if drawdown > maxDD {
			maxDD = drawdown
		}
	}
	if maxDD > 1 {
		return 1
	}
	return maxDD
}

// cagr annualizes total growth over the elapsed calendar span of matched
// bets; a non-positive final bankroll maps to -1.0 (total loss), and a run
// with no dates yields 0.
func cagr(result *backtest.RunResult, initial, final float64) float64 {
	if result.FirstDate.IsZero() || initial <= 0 {
		return 0
	}
	if final <= 0 {
		return -1.0
	}
	elapsedDays := result.LastDate.Sub(result.FirstDate).Hours() / 24.0
	if elapsedDays < 1 {
		elapsedDays = 1
	}
	return math.Pow(final/initial, 365.0/elapsedDays) - 1.0
}

func average(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, mean float64) float64 {
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
