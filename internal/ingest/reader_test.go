package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itzcole03/StatMusePicksv2-sub001/internal/models"
)

func TestReadPredictions(t *testing.T) {
	input := strings.Join([]string{
		"game_date,player,over_probability,confidence,decimal_odds",
		"2025-01-15,Jokic,0.72,0.8,1.91",
		"2025-01-16T19:30:00Z,Doncic,0.55,,",
	}, "\n")

	reader := NewReader(2.0, nil)
	records, skipped, err := reader.readPredictions(strings.NewReader(input))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Jokic", first.Player)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), first.GameDate)
	assert.InDelta(t, 0.72, first.RawProbability, 1e-12)
	require.NotNil(t, first.Confidence)
	assert.InDelta(t, 0.8, *first.Confidence, 1e-12)
	assert.InDelta(t, 1.91, first.DecimalOddsOver, 1e-12)
	assert.InDelta(t, 1.91, first.DecimalOddsUnder, 1e-12)

	second := records[1]
	assert.Nil(t, second.Confidence)
	assert.Equal(t, 2.0, second.DecimalOddsOver, "missing odds fall back to the default")
	assert.Equal(t, 1, second.SourceIndex)
}

func TestReadPredictionsPerSideOdds(t *testing.T) {
	input := strings.Join([]string{
		"game_date,player,over_probability,decimal_odds_over,decimal_odds_under",
		"2025-01-15,Jokic,0.72,1.87,1.95",
	}, "\n")

	reader := NewReader(2.0, nil)
	records, _, err := reader.readPredictions(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 1.87, records[0].DecimalOddsOver, 1e-12)
	assert.InDelta(t, 1.95, records[0].DecimalOddsUnder, 1e-12)
}

func TestReadPredictionsMissingColumn(t *testing.T) {
	input := "game_date,player\n2025-01-15,Jokic\n"

	reader := NewReader(2.0, nil)
	_, _, err := reader.readPredictions(strings.NewReader(input))
	assert.ErrorIs(t, err, models.ErrMissingColumn)
}

func TestReadPredictionsSkipsDefectiveRows(t *testing.T) {
	input := strings.Join([]string{
		"game_date,player,over_probability",
		"2025-01-15,Jokic,0.72",
		"not-a-date,Doncic,0.55",
		"2025-01-16,,0.55",
		"2025-01-17,Curry,1.2",
		"2025-01-18,Embiid,abc",
	}, "\n")

	reader := NewReader(2.0, nil)
	records, skipped, err := reader.readPredictions(strings.NewReader(input))
	require.NoError(t, err, "defective rows are skipped, never fatal")
	assert.Len(t, records, 1)
	assert.Equal(t, 4, skipped)
}

func TestReadActuals(t *testing.T) {
	input := strings.Join([]string{
		"game_date,player,outcome",
		"2025-01-15,Jokic,1",
		"2025-01-15,Doncic,over",
		"2025-01-16,Curry,false",
		"2025-01-17,Embiid,maybe",
	}, "\n")

	reader := NewReader(2.0, nil)
	records, skipped, err := reader.readActuals(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, records, 3)
	assert.True(t, records[0].Outcome)
	assert.True(t, records[1].Outcome)
	assert.False(t, records[2].Outcome)
}

func TestReadActualsMissingColumn(t *testing.T) {
	input := "game_date,player\n2025-01-15,Jokic\n"

	reader := NewReader(2.0, nil)
	_, _, err := reader.readActuals(strings.NewReader(input))
	assert.ErrorIs(t, err, models.ErrMissingColumn)
}

func TestLoadPredictionsMissingFile(t *testing.T) {
	reader := NewReader(2.0, nil)
	_, _, err := reader.LoadPredictions("/nonexistent/predictions.csv")
	assert.Error(t, err)
}
