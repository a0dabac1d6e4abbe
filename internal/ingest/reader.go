// Package ingest loads prediction and actual CSV files, normalizes timestamps
// to UTC, and joins the two streams into matched bets.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/itzcole03/StatMusePicksv2-sub001/internal/models"
)

// Reader loads tabular inputs and tracks row-level defects
type Reader struct {
	defaultDecimalOdds float64
	logger             *logrus.Logger
}

// NewReader creates a new input reader
func NewReader(defaultDecimalOdds float64, logger *logrus.Logger) *Reader {
	if logger == nil {
		logger = logrus.New()
	}
	return &Reader{defaultDecimalOdds: defaultDecimalOdds, logger: logger}
}

// LoadPredictions reads prediction rows from a CSV file.
// Rows with unparseable required fields are skipped and counted, never fatal.
func (r *Reader) LoadPredictions(path string) ([]models.PredictionRecord, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open predictions file: %w", err)
	}
	defer file.Close()
	return r.readPredictions(file)
}

// LoadActuals reads realized outcome rows from a CSV file
func (r *Reader) LoadActuals(path string) ([]models.ActualRecord, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open actuals file: %w", err)
	}
	defer file.Close()
	return r.readActuals(file)
}

func (r *Reader) readPredictions(reader io.Reader) ([]models.PredictionRecord, int, error) {
	rows, header, err := readCSV(reader)
	if err != nil {
		return nil, 0, err
	}
	if err := requireColumns(header, "game_date", "player", "over_probability"); err != nil {
		return nil, 0, err
	}

	records := make([]models.PredictionRecord, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		record, err := r.parsePredictionRow(header, row)
		if err != nil {
			skipped++
			r.logger.WithFields(logrus.Fields{"row": i + 2, "error": err}).Warn("Skipping prediction row")
			continue
		}
		record.SourceIndex = len(records)
		records = append(records, record)
	}
	return records, skipped, nil
}

func (r *Reader) readActuals(reader io.Reader) ([]models.ActualRecord, int, error) {
	rows, header, err := readCSV(reader)
	if err != nil {
		return nil, 0, err
	}
	if err := requireColumns(header, "game_date", "player", "outcome"); err != nil {
		return nil, 0, err
	}

	records := make([]models.ActualRecord, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		gameDate, err := ParseTimestamp(field(header, row, "game_date"))
		if err != nil {
			skipped++
			r.logger.WithFields(logrus.Fields{"row": i + 2, "error": err}).Warn("Skipping actual row")
			continue
		}
		player := strings.TrimSpace(field(header, row, "player"))
		if player == "" {
			skipped++
			r.logger.WithField("row", i+2).Warn("Skipping actual row with empty player")
			continue
		}
		outcome, err := ParseOutcome(field(header, row, "outcome"))
		if err != nil {
			skipped++
			r.logger.WithFields(logrus.Fields{"row": i + 2, "error": err}).Warn("Skipping actual row")
			continue
		}
		records = append(records, models.ActualRecord{GameDate: gameDate, Player: player, Outcome: outcome})
	}
	return records, skipped, nil
}

func (r *Reader) parsePredictionRow(header map[string]int, row []string) (models.PredictionRecord, error) {
	gameDate, err := ParseTimestamp(field(header, row, "game_date"))
	if err != nil {
		return models.PredictionRecord{}, err
	}
	player := strings.TrimSpace(field(header, row, "player"))
	if player == "" {
		return models.PredictionRecord{}, fmt.Errorf("empty player")
	}
	probability, err := parseProbability(field(header, row, "over_probability"))
	if err != nil {
		return models.PredictionRecord{}, err
	}

	record := models.PredictionRecord{
		GameDate:         gameDate,
		Player:           player,
		RawProbability:   probability,
		DecimalOddsOver:  r.defaultDecimalOdds,
		DecimalOddsUnder: r.defaultDecimalOdds,
	}

	if raw := field(header, row, "confidence"); raw != "" {
		confidence, err := parseProbability(raw)
		if err != nil {
			return models.PredictionRecord{}, fmt.Errorf("confidence: %w", err)
		}
		record.Confidence = &confidence
	}
	if raw := field(header, row, "decimal_odds"); raw != "" {
		odds, err := parseDecimalField(raw)
		if err != nil {
			return models.PredictionRecord{}, fmt.Errorf("decimal_odds: %w", err)
		}
		record.DecimalOddsOver = odds
		record.DecimalOddsUnder = odds
	}
	if raw := field(header, row, "decimal_odds_over"); raw != "" {
		odds, err := parseDecimalField(raw)
		if err != nil {
			return models.PredictionRecord{}, fmt.Errorf("decimal_odds_over: %w", err)
		}
		record.DecimalOddsOver = odds
	}
	if raw := field(header, row, "decimal_odds_under"); raw != "" {
		odds, err := parseDecimalField(raw)
		if err != nil {
			return models.PredictionRecord{}, fmt.Errorf("decimal_odds_under: %w", err)
		}
		record.DecimalOddsUnder = odds
	}
	if raw := field(header, row, "expected_value"); raw != "" {
		ev, err := parseDecimalField(raw)
		if err != nil {
			return models.PredictionRecord{}, fmt.Errorf("expected_value: %w", err)
		}
		record.ExpectedValue = &ev
	}

	return record, nil
}

func readCSV(reader io.Reader) ([][]string, map[string]int, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	headerRow, err := csvReader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	header := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var rows [][]string
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

func requireColumns(header map[string]int, names ...string) error {
	for _, name := range names {
		if _, ok := header[name]; !ok {
			return fmt.Errorf("%w: %s", models.ErrMissingColumn, name)
		}
	}
	return nil
}

func field(header map[string]int, row []string, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseProbability parses a probability with exact decimal semantics and
// validates the [0,1] range before converting to float64.
func parseProbability(value string) (float64, error) {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid probability %q: %w", value, err)
	}
	if parsed.IsNegative() || parsed.GreaterThan(decimal.NewFromInt(1)) {
		return 0, fmt.Errorf("probability %s out of [0,1]", parsed)
	}
	return parsed.InexactFloat64(), nil
}

func parseDecimalField(value string) (float64, error) {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value %q: %w", value, err)
	}
	return parsed.InexactFloat64(), nil
}
