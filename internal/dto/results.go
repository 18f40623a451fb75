package dto

import (
	"github.com/octobees/sentiment-dashboard/internal/engine"
	"github.com/octobees/sentiment-dashboard/internal/entity"
)

// PageMeta describes the window returned by a paginated listing.
type PageMeta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// MetaOf copies the paging fields of p.
func MetaOf[T any](p engine.Page[T]) PageMeta {
	return PageMeta{Total: p.Total, Limit: p.Limit, Offset: p.Offset}
}

// ScoreResult is the mean score of one company.
type ScoreResult struct {
	Company entity.Company `json:"company"`
	Score   float64        `json:"score"`
	N       int            `json:"n"`
}

// LabeledAnswer pairs an answer with its display label.
type LabeledAnswer struct {
	Answer entity.Answer `json:"answer"`
	Label  string        `json:"label"`
}

// CompanySeries is the bucketed score history of one company.
type CompanySeries struct {
	ISIN   string         `json:"isin"`
	Title  string         `json:"title"`
	Points []engine.Point `json:"points"`
}

// LabeledSeries is a keyed series with a human readable label.
type LabeledSeries struct {
	Key    string         `json:"key"`
	Label  string         `json:"label"`
	Points []engine.Point `json:"points"`
}
