package ingest

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/itzcole03/StatMusePicksv2-sub001/internal/models"
)

// AlignmentReport counts the fate of every input row during the join.
// Unmatched rows are excluded from the replay but never silently dropped.
type AlignmentReport struct {
	MatchedBets          int `json:"matched_bets"`
	UnmatchedPredictions int `json:"unmatched_predictions"`
	UnmatchedActuals     int `json:"unmatched_actuals"`
	DuplicateActuals     int `json:"duplicate_actuals"`
}

// Join aligns predictions with actuals on (player, normalized UTC date) and
// returns matched bets stable-sorted by game date ascending. Ties preserve the
// original prediction file order; the ordering is load-bearing because Kelly
// stakes depend on the running bankroll.
func Join(predictions []models.PredictionRecord, actuals []models.ActualRecord, logger *logrus.Logger) ([]models.MatchedBet, AlignmentReport) {
	if logger == nil {
		logger = logrus.New()
	}

	report := AlignmentReport{}
	outcomes := make(map[string]bool, len(actuals))
	consumed := make(map[string]bool, len(actuals))
	for _, actual := range actuals {
		key := actual.JoinKey()
		if _, exists := outcomes[key]; exists {
			report.DuplicateActuals++
		}
		outcomes[key] = actual.Outcome
	}

	matched := make([]models.MatchedBet, 0, len(predictions))
	for _, prediction := range predictions {
		key := prediction.JoinKey()
		outcome, ok := outcomes[key]
		if !ok {
			report.UnmatchedPredictions++
			continue
		}
		consumed[key] = true
		matched = append(matched, models.MatchedBet{Prediction: prediction, Outcome: outcome})
	}

	for key := range outcomes {
		if !consumed[key] {
			report.UnmatchedActuals++
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Prediction.GameDate.Before(matched[j].Prediction.GameDate)
	})
	report.MatchedBets = len(matched)

	if report.UnmatchedPredictions > 0 || report.UnmatchedActuals > 0 {
		logger.WithFields(logrus.Fields{
			"matched":               report.MatchedBets,
			"unmatched_predictions": report.UnmatchedPredictions,
			"unmatched_actuals":     report.UnmatchedActuals,
		}).Warn("Some rows did not align")
	}

	return matched, report
}
