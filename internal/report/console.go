package report

import (
	"fmt"
	"strings"

	"github.com/itzcole03/StatMusePicksv2-sub001/internal/summary"
)

// GenerateConsoleReport formats summary metrics for terminal output
func GenerateConsoleReport(metrics summary.Metrics) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Initial Bankroll: %.2f\n", metrics.InitialBankroll))
	builder.WriteString(fmt.Sprintf("Final Bankroll: %.2f\n", metrics.FinalBankroll))
	builder.WriteString(fmt.Sprintf("ROI: %.2f%%\n", metrics.ROI*100))
	builder.WriteString(fmt.Sprintf("Total Bets: %d\n", metrics.TotalBets))
	builder.WriteString(fmt.Sprintf("Win Rate: %.2f%%\n", metrics.WinRate*100))
	builder.WriteString(fmt.Sprintf("Sharpe: %.2f\n", metrics.Sharpe))
	builder.WriteString(fmt.Sprintf("Max Drawdown: %.2f%%\n", metrics.MaxDrawdown*100))
	builder.WriteString(fmt.Sprintf("CAGR: %.2f%%\n", metrics.CAGR*100))
	return builder.String()
}
