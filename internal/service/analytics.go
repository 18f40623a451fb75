package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/octobees/sentiment-dashboard/internal/dto"
	"github.com/octobees/sentiment-dashboard/internal/engine"
	"github.com/octobees/sentiment-dashboard/internal/entity"
	"github.com/octobees/sentiment-dashboard/internal/labels"
	"github.com/octobees/sentiment-dashboard/internal/store"
	"github.com/octobees/sentiment-dashboard/internal/timeutil"
)

// LeaderboardDefaultLimit is the page size of the user leaderboard when the
// caller does not ask for one.
const LeaderboardDefaultLimit = 500

const (
	trendByCompany  = "company"
	trendByQuestion = "question"
)

// SnapshotLoader yields the current answer snapshot.
type SnapshotLoader interface {
	Load(ctx context.Context) (*store.Snapshot, error)
}

// AnalyticsService answers the dashboard queries over the answer snapshot.
type AnalyticsService struct {
	store  SnapshotLoader
	labels *labels.Catalog
}

// NewAnalyticsService creates the query facade. A nil catalog uses the
// built-in label fallbacks.
func NewAnalyticsService(loader SnapshotLoader, catalog *labels.Catalog) *AnalyticsService {
	if catalog == nil {
		catalog = labels.NewCatalog(nil)
	}
	return &AnalyticsService{store: loader, labels: catalog}
}

func (s *AnalyticsService) answers(ctx context.Context) ([]entity.Answer, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	return snap.Answers, nil
}

// ListAnswers filters the collection, orders it newest first and returns the
// requested page. Both window bounds are exclusive.
func (s *AnalyticsService) ListAnswers(ctx context.Context, filter dto.AnswerFilter) (engine.Page[entity.Answer], error) {
	all, err := s.answers(ctx)
	if err != nil {
		return engine.Page[entity.Answer]{}, err
	}

	matched := engine.Filter(all, engine.Predicates{
		ISIN:   strings.TrimSpace(filter.ISIN),
		User:   strings.TrimSpace(filter.User),
		IDs:    engine.IDSet(strings.TrimSpace(filter.IDs)),
		Skip:   parseSkip(filter.Skip),
		Window: engine.OpenWindow(timeutil.ParseOptional(filter.Start), timeutil.ParseOptional(filter.End)),
	})
	return engine.Paginate(engine.SortNewestFirst(matched), filter.Limit, filter.Offset), nil
}

// GetAnswer looks up a single answer by id.
func (s *AnalyticsService) GetAnswer(ctx context.Context, id string) (entity.Answer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entity.Answer{}, ValidationError{Message: "id is required"}
	}
	all, err := s.answers(ctx)
	if err != nil {
		return entity.Answer{}, err
	}
	for _, a := range all {
		if a.ID == id {
			return a, nil
		}
	}
	return entity.Answer{}, fmt.Errorf("answer %q: %w", id, ErrNotFound)
}

// ScoreForCompany returns the mean value of a company's non-skipped answers.
// The window [start, end) applies only when both bounds are valid dates.
func (s *AnalyticsService) ScoreForCompany(ctx context.Context, query dto.ScoreQuery) (dto.ScoreResult, error) {
	isin := strings.TrimSpace(query.ISIN)
	if isin == "" {
		return dto.ScoreResult{}, ValidationError{Message: "isin is required"}
	}
	all, err := s.answers(ctx)
	if err != nil {
		return dto.ScoreResult{}, err
	}

	pred := engine.Predicates{ISIN: isin, Skip: engine.Bool(false)}
	start, end := timeutil.ParseOptional(query.Start), timeutil.ParseOptional(query.End)
	if start != nil && end != nil {
		pred.Window = engine.HalfOpenWindow(start, end)
	}

	matched := engine.Filter(all, pred)
	score := engine.Mean(matched)
	if !score.HasData() {
		return dto.ScoreResult{}, ErrNoData
	}
	return dto.ScoreResult{Company: matched[0].Company, Score: score.Value, N: score.N}, nil
}

// CompanyRoster lists every company once, in first-seen order.
func (s *AnalyticsService) CompanyRoster(ctx context.Context) ([]entity.Company, error) {
	all, err := s.answers(ctx)
	if err != nil {
		return nil, err
	}
	return engine.Roster(all), nil
}

// UserLeaderboard ranks users by their number of non-skipped answers.
func (s *AnalyticsService) UserLeaderboard(ctx context.Context, page dto.PageQuery) (engine.Page[engine.UserCount], error) {
	all, err := s.answers(ctx)
	if err != nil {
		return engine.Page[engine.UserCount]{}, err
	}
	answered := engine.Filter(all, engine.Predicates{Skip: engine.Bool(false)})
	return engine.Paginate(engine.Leaderboard(answered), page.Limit, page.Offset), nil
}

// CompanyTrend buckets a company's non-skipped answers into a mean series.
func (s *AnalyticsService) CompanyTrend(ctx context.Context, isin, bucket string) ([]engine.Point, error) {
	isin = strings.TrimSpace(isin)
	if isin == "" {
		return nil, ValidationError{Message: "isin is required"}
	}
	g, err := parseBucket(bucket)
	if err != nil {
		return nil, err
	}
	all, err := s.answers(ctx)
	if err != nil {
		return nil, err
	}
	return engine.Series(engine.Filter(all, engine.Predicates{ISIN: isin, Skip: engine.Bool(false)}), g), nil
}

// LatestByQuestion returns the most recent non-skipped answer of a company
// for every question, labelled for locale and ordered by question tag.
func (s *AnalyticsService) LatestByQuestion(ctx context.Context, isin, locale string) ([]dto.LabeledAnswer, error) {
	isin = strings.TrimSpace(isin)
	if isin == "" {
		return nil, ValidationError{Message: "isin is required"}
	}
	all, err := s.answers(ctx)
	if err != nil {
		return nil, err
	}
	latest := engine.LatestPerQuestion(engine.Filter(all, engine.Predicates{ISIN: isin, Skip: engine.Bool(false)}))

	out := make([]dto.LabeledAnswer, 0, len(latest))
	for _, a := range latest {
		out = append(out, dto.LabeledAnswer{Answer: a, Label: s.labels.Label(a.Question, locale)})
	}
	return out, nil
}

// Compare builds one series per requested company, in request order, over the
// whole days from start to end inclusive. Skipped answers count here.
func (s *AnalyticsService) Compare(ctx context.Context, query dto.CompareQuery) ([]dto.CompanySeries, error) {
	isins := splitCSV(query.ISINs)
	if len(isins) == 0 {
		return nil, ValidationError{Message: "isins is required"}
	}
	g, err := parseBucket(query.Bucket)
	if err != nil {
		return nil, err
	}
	all, err := s.answers(ctx)
	if err != nil {
		return nil, err
	}

	var start, end *time.Time
	if t, ok := timeutil.ParseISO(query.Start); ok {
		day := timeutil.BeginningOfDay(t)
		start = &day
	}
	if t, ok := timeutil.ParseISO(query.End); ok {
		day := timeutil.EndOfDay(t)
		end = &day
	}

	titles := make(map[string]string)
	for _, c := range engine.Roster(all) {
		titles[c.ISIN] = c.Title
	}

	window := engine.ClosedWindow(start, end)
	out := make([]dto.CompanySeries, 0, len(isins))
	for _, isin := range isins {
		matched := engine.Filter(all, engine.Predicates{ISIN: isin, Window: window})
		out = append(out, dto.CompanySeries{ISIN: isin, Title: titles[isin], Points: engine.Series(matched, g)})
	}
	return out, nil
}

// UserCompanies summarises every answer of one user per company, skipped
// answers included, like the answer list the user page is built from.
func (s *AnalyticsService) UserCompanies(ctx context.Context, user string) ([]engine.CompanyStat, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, ValidationError{Message: "user is required"}
	}
	all, err := s.answers(ctx)
	if err != nil {
		return nil, err
	}
	return engine.CompanyStats(engine.Filter(all, engine.Predicates{User: user})), nil
}

// UserTrend builds daily mean series of all of one user's answers, split per
// company or per company and question. Labels use the newest title seen.
func (s *AnalyticsService) UserTrend(ctx context.Context, query dto.UserTrendQuery) ([]dto.LabeledSeries, error) {
	user := strings.TrimSpace(query.User)
	if user == "" {
		return nil, ValidationError{Message: "user is required"}
	}
	by := strings.ToLower(strings.TrimSpace(query.By))
	if by == "" {
		by = trendByCompany
	}
	if by != trendByCompany && by != trendByQuestion {
		return nil, ValidationError{Message: fmt.Sprintf("by must be %q or %q", trendByCompany, trendByQuestion)}
	}
	all, err := s.answers(ctx)
	if err != nil {
		return nil, err
	}
	mine := engine.Filter(all, engine.Predicates{User: user})

	// last answer per key provides the label
	lasts := make(map[string]entity.Answer)
	for _, a := range mine {
		key := a.Company.ISIN
		if by == trendByQuestion {
			key = engine.CompanyQuestionKey(a).String()
		}
		lasts[key] = a
	}

	if by == trendByCompany {
		series := engine.SeriesBy(mine, engine.CompanyKey, engine.Day)
		out := make([]dto.LabeledSeries, 0, len(series))
		for _, ks := range series {
			out = append(out, dto.LabeledSeries{Key: ks.Key, Label: lasts[ks.Key].Company.Title, Points: ks.Points})
		}
		return out, nil
	}

	series := engine.SeriesBy(mine, engine.CompanyQuestionKey, engine.Day)
	out := make([]dto.LabeledSeries, 0, len(series))
	for _, ks := range series {
		key := ks.Key.String()
		last := lasts[key]
		label := last.Company.Title + " — " + s.labels.Label(last.Question, query.Locale)
		out = append(out, dto.LabeledSeries{Key: key, Label: label, Points: ks.Points})
	}
	return out, nil
}

func parseSkip(value string) *bool {
	switch strings.TrimSpace(value) {
	case "true":
		return engine.Bool(true)
	case "false":
		return engine.Bool(false)
	default:
		return nil
	}
}

func parseBucket(value string) (engine.Granularity, error) {
	g, err := engine.ParseGranularity(strings.TrimSpace(value))
	if err != nil {
		return "", ValidationError{Message: err.Error()}
	}
	return g, nil
}

func splitCSV(value string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}
