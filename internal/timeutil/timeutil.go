// Package timeutil parses the timestamp formats found in survey exports and
// query strings. Every returned time is in UTC.
package timeutil

import (
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// ISOMillis is the layout used when timestamps are written back to clients.
const ISOMillis = "2006-01-02T15:04:05.000Z07:00"

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseISO parses an ISO-8601 timestamp or date. Values without a zone are
// read as UTC. ok is false for empty or unparseable input.
func ParseISO(value string) (t time.Time, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseOptional returns nil unless value holds a valid timestamp.
func ParseOptional(value string) *time.Time {
	t, ok := ParseISO(value)
	if !ok {
		return nil
	}
	return &t
}

// BeginningOfDay returns 00:00:00.000 UTC of the day containing t.
func BeginningOfDay(t time.Time) time.Time {
	return now.With(t.UTC()).BeginningOfDay()
}

// EndOfDay returns the last representable instant of the UTC day containing t.
func EndOfDay(t time.Time) time.Time {
	return now.With(t.UTC()).EndOfDay()
}

// FormatISO renders t the way the dataset stores timestamps.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOMillis)
}
