package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itzcole03/StatMusePicksv2-sub001/internal/models"
)

func predictionAt(player string, t time.Time) models.PredictionRecord {
	return models.PredictionRecord{GameDate: t, Player: player, RawProbability: 0.6}
}

func actualAt(player string, t time.Time, outcome bool) models.ActualRecord {
	return models.ActualRecord{GameDate: t, Player: player, Outcome: outcome}
}

func TestJoinMatchesOnPlayerAndDate(t *testing.T) {
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	matched, report := Join(
		[]models.PredictionRecord{predictionAt("Jokic", day), predictionAt("Doncic", day)},
		[]models.ActualRecord{actualAt("Jokic", day, true), actualAt("Curry", day, false)},
		nil,
	)

	assert.Equal(t, 1, report.MatchedBets)
	assert.Equal(t, 1, report.UnmatchedPredictions)
	assert.Equal(t, 1, report.UnmatchedActuals)
	require.Len(t, matched, 1)
	assert.Equal(t, "Jokic", matched[0].Prediction.Player)
	assert.True(t, matched[0].Outcome)
}

func TestJoinNormalizesTimeOfDayAway(t *testing.T) {
	// Prediction carries a tip-off time, the actual only a date: both normalize
	// to the same UTC day
	matched, report := Join(
		[]models.PredictionRecord{predictionAt("Jokic", time.Date(2025, 1, 15, 19, 30, 0, 0, time.UTC))},
		[]models.ActualRecord{actualAt("Jokic", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), true)},
		nil,
	)

	assert.Equal(t, 1, report.MatchedBets)
	assert.Len(t, matched, 1)
}

func TestJoinDuplicateActualsLastWins(t *testing.T) {
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	matched, report := Join(
		[]models.PredictionRecord{predictionAt("Jokic", day)},
		[]models.ActualRecord{actualAt("Jokic", day, false), actualAt("Jokic", day, true)},
		nil,
	)

	assert.Equal(t, 1, report.DuplicateActuals)
	require.Len(t, matched, 1)
	assert.True(t, matched[0].Outcome)
}

func TestJoinStableSortByDate(t *testing.T) {
	d1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	predictions := []models.PredictionRecord{
		predictionAt("C", d2),
		predictionAt("A", d1),
		predictionAt("B", d1),
	}
	actuals := []models.ActualRecord{
		actualAt("A", d1, true),
		actualAt("B", d1, true),
		actualAt("C", d2, true),
	}

	matched, _ := Join(predictions, actuals, nil)

	require.Len(t, matched, 3)
	order := []string{matched[0].Prediction.Player, matched[1].Prediction.Player, matched[2].Prediction.Player}
	assert.Equal(t, []string{"A", "B", "C"}, order, "same-date ties keep prediction file order")
}

func TestJoinEmptyInputs(t *testing.T) {
	matched, report := Join(nil, nil, nil)
	assert.Empty(t, matched)
	assert.Zero(t, report.MatchedBets)
}
