package entity

// Company represents the listed company an answer is about.
type Company struct {
	ID      int    `json:"id"`
	ISIN    string `json:"isin"`
	Title   string `json:"title"`
	TID     int    `json:"tid"`
	Standby bool   `json:"standby"`
}
