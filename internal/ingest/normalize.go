package ingest

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are attempted in order. Layouts without a zone are treated as
// UTC so naive and timezone-aware inputs coerce deterministically.
var timestampLayouts = []struct {
	layout string
	naive  bool
}{
	{time.RFC3339Nano, false},
	{time.RFC3339, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02", true},
	{"01/02/2006", true},
}

// ParseTimestamp parses a timestamp string into a UTC-aware time.Time.
// Naive values are interpreted as UTC; aware values are converted to UTC.
func ParseTimestamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, candidate := range timestampLayouts {
		var parsed time.Time
		var err error
		if candidate.naive {
			parsed, err = time.ParseInLocation(candidate.layout, trimmed, time.UTC)
		} else {
			parsed, err = time.Parse(candidate.layout, trimmed)
		}
		if err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", trimmed)
}

// ParseOutcome parses a boolean-like outcome value (1/0/true/false/OVER/UNDER)
func ParseOutcome(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "t", "yes", "over":
		return true, nil
	case "0", "false", "f", "no", "under":
		return false, nil
	default:
		return false, fmt.Errorf("unrecognized outcome %q", value)
	}
}
