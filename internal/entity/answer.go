package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/octobees/sentiment-dashboard/internal/timeutil"
)

// Answer is a single survey response. Answers are never mutated after load.
type Answer struct {
	ID       string    `json:"id"`
	Value    float64   `json:"value"`
	Source   string    `json:"source"`
	Created  Timestamp `json:"created"`
	Skip     bool      `json:"skip"`
	User     string    `json:"user"`
	Company  Company   `json:"company"`
	Question Question  `json:"question"`
}

// CreatedAt is a shorthand for the creation instant.
func (a Answer) CreatedAt() time.Time {
	return a.Created.Time
}

// Timestamp is a UTC instant that accepts the loose ISO-8601 variants found in
// exports. A parsed timestamp keeps its source text and encodes back to it
// unchanged; one built from a bare time.Time encodes with millisecond
// precision.
type Timestamp struct {
	time.Time
	raw string
}

// ParseTimestamp parses value the way the dataset's created field is read.
func ParseTimestamp(value string) (Timestamp, error) {
	parsed, ok := timeutil.ParseISO(value)
	if !ok {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q", value)
	}
	return Timestamp{Time: parsed, raw: value}, nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.raw != "" {
		return json.Marshal(t.raw)
	}
	return json.Marshal(timeutil.FormatISO(t.Time))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("created must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
