package models

import (
	"time"
)

// PredictionRecord represents one model-produced win probability for a player prop
type PredictionRecord struct {
	GameDate         time.Time `json:"game_date" validate:"required"`
	Player           string    `json:"player" validate:"required"`
	RawProbability   float64   `json:"raw_probability" validate:"gte=0,lte=1"`
	Confidence       *float64  `json:"confidence,omitempty"`
	DecimalOddsOver  float64   `json:"decimal_odds_over"`
	DecimalOddsUnder float64   `json:"decimal_odds_under"`
	ExpectedValue    *float64  `json:"expected_value,omitempty"`

	// SourceIndex preserves input file order for stable chronological sorting
	SourceIndex int `json:"-"`
}

// ActualRecord represents the realized outcome for a player prop
type ActualRecord struct {
	GameDate time.Time `json:"game_date" validate:"required"`
	Player   string    `json:"player" validate:"required"`
	Outcome  bool      `json:"outcome"`
}

// MatchedBet joins a prediction to its realized outcome on (player, UTC date)
type MatchedBet struct {
	Prediction PredictionRecord
	Outcome    bool
}

// JoinKey returns the join key for a prediction: player plus normalized UTC date
func (p PredictionRecord) JoinKey() string {
	return p.Player + "|" + p.GameDate.UTC().Format("2006-01-02")
}

// JoinKey returns the join key for an actual: player plus normalized UTC date
func (a ActualRecord) JoinKey() string {
	return a.Player + "|" + a.GameDate.UTC().Format("2006-01-02")
}
