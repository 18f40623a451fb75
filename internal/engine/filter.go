// Package engine holds the pure query primitives used by the analytics
// service: filtering, grouping, time bucketing and pagination over an
// immutable slice of answers. Nothing here performs I/O or mutates its input.
package engine

import (
	"strings"
	"time"

	"github.com/octobees/sentiment-dashboard/internal/entity"
)

// Window bounds the creation time of answers. A side is bounded only when its
// Has flag is set, so 0001-01-01 is a usable bound. Inclusivity is chosen per
// call site.
type Window struct {
	Start          time.Time
	End            time.Time
	HasStart       bool
	HasEnd         bool
	StartInclusive bool
	EndInclusive   bool
}

// OpenWindow keeps start < t < end.
func OpenWindow(start, end *time.Time) Window {
	return newWindow(start, end, false, false)
}

// HalfOpenWindow keeps start <= t < end.
func HalfOpenWindow(start, end *time.Time) Window {
	return newWindow(start, end, true, false)
}

// ClosedWindow keeps start <= t <= end.
func ClosedWindow(start, end *time.Time) Window {
	return newWindow(start, end, true, true)
}

func newWindow(start, end *time.Time, startInclusive, endInclusive bool) Window {
	w := Window{StartInclusive: startInclusive, EndInclusive: endInclusive}
	if start != nil {
		w.Start, w.HasStart = *start, true
	}
	if end != nil {
		w.End, w.HasEnd = *end, true
	}
	return w
}

// IsZero reports whether the window has no bounds.
func (w Window) IsZero() bool {
	return !w.HasStart && !w.HasEnd
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if w.HasStart {
		if w.StartInclusive && t.Before(w.Start) {
			return false
		}
		if !w.StartInclusive && !t.After(w.Start) {
			return false
		}
	}
	if w.HasEnd {
		if w.EndInclusive && t.After(w.End) {
			return false
		}
		if !w.EndInclusive && !t.Before(w.End) {
			return false
		}
	}
	return true
}

// Predicates are AND-combined; zero values do not restrict.
type Predicates struct {
	ISIN   string
	User   string
	IDs    map[string]struct{}
	Skip   *bool
	Window Window
}

// IDSet splits a comma separated id list. An empty input yields nil, which
// disables the id filter.
func IDSet(csv string) map[string]struct{} {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	set := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		set[strings.TrimSpace(part)] = struct{}{}
	}
	return set
}

// Bool returns a pointer to v, handy for Predicates.Skip.
func Bool(v bool) *bool {
	return &v
}

// Match reports whether a single answer satisfies every predicate.
func (p Predicates) Match(a entity.Answer) bool {
	if p.ISIN != "" && a.Company.ISIN != p.ISIN {
		return false
	}
	if p.User != "" && a.User != p.User {
		return false
	}
	if p.IDs != nil {
		if _, ok := p.IDs[a.ID]; !ok {
			return false
		}
	}
	if p.Skip != nil && a.Skip != *p.Skip {
		return false
	}
	if !p.Window.IsZero() && !p.Window.Contains(a.CreatedAt()) {
		return false
	}
	return true
}

// Filter returns the answers matching p in input order. The result is always
// a new slice so callers may reorder it freely.
func Filter(answers []entity.Answer, p Predicates) []entity.Answer {
	out := make([]entity.Answer, 0, len(answers))
	for _, a := range answers {
		if p.Match(a) {
			out = append(out, a)
		}
	}
	return out
}
