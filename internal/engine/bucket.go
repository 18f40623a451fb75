package engine

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the calendar period used to bucket timestamps.
type Granularity string

const (
	Day     Granularity = "day"
	Week    Granularity = "week"
	Month   Granularity = "month"
	Quarter Granularity = "quarter"
)

// ParseGranularity accepts day, week, month or quarter. An empty value
// selects Week.
func ParseGranularity(value string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(value))); g {
	case "":
		return Week, nil
	case Day, Week, Month, Quarter:
		return g, nil
	default:
		return "", fmt.Errorf("unsupported bucket %q (use day, week, month or quarter)", value)
	}
}

// BucketKey maps t to the key of its period. Keys of the same granularity
// sort lexically in chronological order:
//
//	day     2024-01-31
//	week    2024-W05 (ISO-8601 week-year and week)
//	month   2024-01
//	quarter 2024-Q1
func BucketKey(t time.Time, g Granularity) string {
	t = t.UTC()
	switch g {
	case Week:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case Month:
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
	case Quarter:
		return fmt.Sprintf("%04d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	default:
		return t.Format("2006-01-02")
	}
}
