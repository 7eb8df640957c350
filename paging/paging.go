package paging

import "fmt"

// NormalizeLimit resolves a requested page size. Zero selects def, negative
// values are rejected and anything above max is clamped to max.
func NormalizeLimit(limit, def, max int) (int, error) {
	switch {
	case limit < 0:
		return 0, fmt.Errorf("limit must be positive, got %d", limit)
	case limit == 0:
		limit = def
	}
	if max > 0 && limit > max {
		limit = max
	}
	return limit, nil
}

// TrimProbe drops the over-fetched probe record from a window fetched with
// limit+1 and reports whether it was present.
func TrimProbe[T any](items []T, limit int) ([]T, bool) {
	if len(items) > limit {
		return items[:limit], true
	}
	return items, false
}

// Reverse reverses s in place.
func Reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
