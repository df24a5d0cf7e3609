package logs

import "strings"

// Filter selects entries by exact source and case-insensitive message search.
// The zero value accepts everything.
type Filter struct {
	// Source must equal Entry.Source exactly when non-empty.
	Source string
	// Search is lower-cased and must be a substring of the lower-cased
	// message when non-empty.
	Search string
}

// NewFilter trims both terms and lower-cases the search term.
func NewFilter(source, search string) Filter {
	return Filter{
		Source: strings.TrimSpace(source),
		Search: strings.ToLower(strings.TrimSpace(search)),
	}
}

// Active reports whether the filter rejects anything.
func (f Filter) Active() bool {
	return f.Source != "" || f.Search != ""
}

// Accepts reports whether the entry passes both conditions.
func (f Filter) Accepts(e Entry) bool {
	if f.Source != "" && e.Source != f.Source {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(e.Message), f.Search) {
		return false
	}
	return true
}

// Apply returns the accepted entries in their original order.
func (f Filter) Apply(entries []Entry) []Entry {
	if !f.Active() {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Accepts(e) {
			out = append(out, e)
		}
	}
	return out
}
