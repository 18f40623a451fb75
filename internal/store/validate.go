package store

import (
	"fmt"
	"math"

	"github.com/octobees/sentiment-dashboard/internal/entity"
)

// Validate checks the invariants every snapshot must hold: non-empty and
// unique ids, a company ISIN, a creation time and a finite value in
// [0, 100]. Violations are reported as ErrSourceCorrupt.
func Validate(answers []entity.Answer) error {
	seen := make(map[string]int, len(answers))
	for i, a := range answers {
		if a.ID == "" {
			return fmt.Errorf("%w: answer #%d has no id", ErrSourceCorrupt, i)
		}
		if prev, ok := seen[a.ID]; ok {
			return fmt.Errorf("%w: duplicate answer id %q (#%d and #%d)", ErrSourceCorrupt, a.ID, prev, i)
		}
		seen[a.ID] = i

		if a.Company.ISIN == "" {
			return fmt.Errorf("%w: answer %q has no company isin", ErrSourceCorrupt, a.ID)
		}
		if a.Created.IsZero() {
			return fmt.Errorf("%w: answer %q has no created timestamp", ErrSourceCorrupt, a.ID)
		}
		if math.IsNaN(a.Value) || math.IsInf(a.Value, 0) || a.Value < 0 || a.Value > 100 {
			return fmt.Errorf("%w: answer %q value %v outside [0, 100]", ErrSourceCorrupt, a.ID, a.Value)
		}
	}
	return nil
}
