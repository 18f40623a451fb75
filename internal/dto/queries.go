package dto

// AnswerFilter carries the raw query parameters of the answer listing.
// Dates and the skip flag are interpreted by the service; unparseable values
// are treated as absent.
type AnswerFilter struct {
	ISIN   string
	User   string
	IDs    string
	Skip   string
	Start  string
	End    string
	Limit  int
	Offset int
}

// ScoreQuery selects the answers that feed a company mean score.
type ScoreQuery struct {
	ISIN  string
	Start string
	End   string
}

// PageQuery is a bare limit/offset pair. A zero limit selects the default.
type PageQuery struct {
	Limit  int
	Offset int
}

// CompareQuery asks for one series per company over whole days.
type CompareQuery struct {
	ISINs  string
	Bucket string
	Start  string
	End    string
}

// UserTrendQuery selects how one user's answers are split into series.
type UserTrendQuery struct {
	User   string
	By     string
	Locale string
}
