package engine

import (
	"sort"
	"strings"

	"github.com/octobees/sentiment-dashboard/internal/entity"
)

// Summary accumulates the values of a group.
type Summary struct {
	Sum float64
	N   int
}

// Add folds one value into the summary.
func (s *Summary) Add(v float64) {
	s.Sum += v
	s.N++
}

// Mean returns the arithmetic mean. ok is false when the summary is empty.
func (s Summary) Mean() (mean float64, ok bool) {
	if s.N == 0 {
		return 0, false
	}
	return s.Sum / float64(s.N), true
}

// Score is the outcome of a mean-score reduction. A Score with N == 0 means
// "no data" and is distinct from a genuine score of 0.
type Score struct {
	Value float64
	N     int
}

// HasData reports whether at least one answer contributed.
func (s Score) HasData() bool {
	return s.N > 0
}

func (s Summary) score() Score {
	mean, ok := s.Mean()
	if !ok {
		return Score{}
	}
	return Score{Value: mean, N: s.N}
}

// Mean reduces answers to their mean value.
func Mean(answers []entity.Answer) Score {
	var s Summary
	for _, a := range answers {
		s.Add(a.Value)
	}
	return s.score()
}

// Group is one bucket produced by GroupBy.
type Group[K comparable] struct {
	Key     K
	Summary Summary
	// First and Last index the first and most recent answers that landed in
	// the group.
	First int
	Last  int
}

// GroupBy groups answers by key. Groups come back in first-encounter order;
// any other ordering is the caller's job.
func GroupBy[K comparable](answers []entity.Answer, key func(entity.Answer) K) []Group[K] {
	index := make(map[K]int)
	groups := make([]Group[K], 0)
	for i, a := range answers {
		k := key(a)
		pos, ok := index[k]
		if !ok {
			pos = len(groups)
			index[k] = pos
			groups = append(groups, Group[K]{Key: k, First: i})
		}
		groups[pos].Summary.Add(a.Value)
		groups[pos].Last = i
	}
	return groups
}

// Roster returns one company per distinct ISIN, keeping the first
// occurrence in input order.
func Roster(answers []entity.Answer) []entity.Company {
	seen := make(map[string]struct{})
	companies := make([]entity.Company, 0)
	for _, a := range answers {
		if _, ok := seen[a.Company.ISIN]; ok {
			continue
		}
		seen[a.Company.ISIN] = struct{}{}
		companies = append(companies, a.Company)
	}
	return companies
}

// UserCount is a leaderboard row.
type UserCount struct {
	User    string `json:"user"`
	Answers int    `json:"answers"`
}

// Leaderboard counts answers per user, highest first. Ties keep the order in
// which users were first encountered.
func Leaderboard(answers []entity.Answer) []UserCount {
	groups := GroupBy(answers, func(a entity.Answer) string { return a.User })
	rows := make([]UserCount, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, UserCount{User: g.Key, Answers: g.Summary.N})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Answers > rows[j].Answers
	})
	return rows
}

// Point is one bucket of a time series.
type Point struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
	N     int     `json:"n"`
}

// Series buckets answers by g and returns the mean per bucket in ascending
// key order.
func Series(answers []entity.Answer, g Granularity) []Point {
	groups := GroupBy(answers, func(a entity.Answer) string {
		return BucketKey(a.CreatedAt(), g)
	})
	points := make([]Point, 0, len(groups))
	for _, grp := range groups {
		mean, _ := grp.Summary.Mean()
		points = append(points, Point{Date: grp.Key, Score: mean, N: grp.Summary.N})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

// KeyedSeries is a time series belonging to one group key.
type KeyedSeries[K comparable] struct {
	Key    K
	Points []Point
}

// SeriesBy splits answers by key and builds one series per key. Keys appear
// in first-encounter order.
func SeriesBy[K comparable](answers []entity.Answer, key func(entity.Answer) K, g Granularity) []KeyedSeries[K] {
	index := make(map[K]int)
	parts := make([][]entity.Answer, 0)
	keys := make([]K, 0)
	for _, a := range answers {
		k := key(a)
		pos, ok := index[k]
		if !ok {
			pos = len(parts)
			index[k] = pos
			parts = append(parts, nil)
			keys = append(keys, k)
		}
		parts[pos] = append(parts[pos], a)
	}

	out := make([]KeyedSeries[K], 0, len(parts))
	for i, part := range parts {
		out = append(out, KeyedSeries[K]{Key: keys[i], Points: Series(part, g)})
	}
	return out
}

// CompanyQuestion identifies one question asked about one company.
type CompanyQuestion struct {
	ISIN       string
	QuestionID string
}

// String renders the key as "<isin>::<questionId>".
func (k CompanyQuestion) String() string {
	return k.ISIN + "::" + k.QuestionID
}

// CompanyQuestionKey extracts the composite key of an answer.
func CompanyQuestionKey(a entity.Answer) CompanyQuestion {
	return CompanyQuestion{ISIN: a.Company.ISIN, QuestionID: a.Question.ID}
}

// CompanyKey extracts the ISIN of an answer.
func CompanyKey(a entity.Answer) string {
	return a.Company.ISIN
}

// LatestPerQuestion keeps the most recent answer for every question id and
// orders the result by question tag. On equal timestamps the earlier answer
// in input order wins.
func LatestPerQuestion(answers []entity.Answer) []entity.Answer {
	index := make(map[string]int)
	latest := make([]entity.Answer, 0)
	for _, a := range answers {
		pos, ok := index[a.Question.ID]
		if !ok {
			index[a.Question.ID] = len(latest)
			latest = append(latest, a)
			continue
		}
		if a.CreatedAt().After(latest[pos].CreatedAt()) {
			latest[pos] = a
		}
	}
	sort.SliceStable(latest, func(i, j int) bool {
		return strings.Compare(latest[i].Question.Tag, latest[j].Question.Tag) < 0
	})
	return latest
}

// CompanyStat summarises one company's answers.
type CompanyStat struct {
	ISIN  string  `json:"isin"`
	Title string  `json:"title"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
}

// CompanyStats groups answers by company, most answered first. Titles come
// from the last answer seen for each ISIN, so a renamed company shows its
// newest name.
func CompanyStats(answers []entity.Answer) []CompanyStat {
	groups := GroupBy(answers, CompanyKey)
	stats := make([]CompanyStat, 0, len(groups))
	for _, g := range groups {
		mean, _ := g.Summary.Mean()
		stats = append(stats, CompanyStat{
			ISIN:  g.Key,
			Title: answers[g.Last].Company.Title,
			Count: g.Summary.N,
			Mean:  mean,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return stats
}

// SortNewestFirst returns a copy of answers ordered by descending creation
// time. Equal timestamps keep their input order.
func SortNewestFirst(answers []entity.Answer) []entity.Answer {
	sorted := make([]entity.Answer, len(answers))
	copy(sorted, answers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt().After(sorted[j].CreatedAt())
	})
	return sorted
}
