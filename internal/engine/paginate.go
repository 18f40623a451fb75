package engine

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Page is a bounded slice of an ordered sequence together with the size of
// the whole sequence.
type Page[T any] struct {
	Items  []T
	Limit  int
	Offset int
	Total  int
}

// ClampLimit turns a requested page size into the effective one: zero means
// "not given" and selects DefaultLimit, everything else is clamped into
// [1, MaxLimit].
func ClampLimit(limit int) int {
	if limit == 0 {
		limit = DefaultLimit
	}
	return max(1, min(MaxLimit, limit))
}

// ClampOffset never lets an offset go negative.
func ClampOffset(offset int) int {
	return max(0, offset)
}

// Paginate slices items to [offset, offset+limit) after clamping. Out of
// range pages are empty, never an error.
func Paginate[T any](items []T, limit, offset int) Page[T] {
	l := ClampLimit(limit)
	o := ClampOffset(offset)

	page := Page[T]{Items: []T{}, Limit: l, Offset: o, Total: len(items)}
	if o >= len(items) {
		return page
	}
	end := min(len(items), o+l)
	page.Items = items[o:end]
	return page
}
