package entity

// QuestionText carries the localisable text fields of a question. Nil fields
// fall back to the untranslated question.
type QuestionText struct {
	ShortText *string `json:"shortText,omitempty"`
	FullText  *string `json:"fullText,omitempty"`
	Tag       *string `json:"tag,omitempty"`
}

// Question is the survey question an answer responds to.
type Question struct {
	ID           string                  `json:"id"`
	Tag          string                  `json:"tag"`
	ShortText    string                  `json:"shortText"`
	FullText     string                  `json:"fullText"`
	IsPublic     bool                    `json:"isPublic"`
	IsActive     bool                    `json:"isActive"`
	Translations map[string]QuestionText `json:"translations,omitempty"`
}

// Translation returns the override for locale, if any.
func (q Question) Translation(locale string) (QuestionText, bool) {
	if q.Translations == nil || locale == "" {
		return QuestionText{}, false
	}
	text, ok := q.Translations[locale]
	return text, ok
}
