package crm

import "strings"

// Tag is a shared classification entity attached to candidates and positions.
// Identity is the join key for exact matching; names are compared only for
// partial-match credit.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Tags []Tag

func (t Tags) Len() int {
	return len(t)
}

func (t Tags) IDs() map[int64]bool {
	ids := make(map[int64]bool, len(t))
	for _, tag := range t {
		ids[tag.ID] = true
	}
	return ids
}

// NamesPartiallyMatch reports whether one tag name contains the other,
// ignoring case.
func NamesPartiallyMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
