package logs

import (
	"errors"
	"strconv"
	"strings"
)

const (
	// MinLines and MaxLines bound the page size.
	MinLines = 1
	MaxLines = 5000

	// DefaultLines is used when no configured default is available.
	DefaultLines = 500
)

// Query is one page request.
type Query struct {
	// Lines is the page size, within [MinLines, MaxLines].
	Lines int
	// Offset is the number of newest matching entries to skip.
	Offset int
	Filter Filter
}

// ParseQuery builds a Query from string parameters ("lines", "offset",
// "source", "search"). Malformed numbers fall back to defaults instead of
// failing, and both numbers are clamped.
func ParseQuery(params map[string]string, defaultLines int) Query {
	if defaultLines <= 0 {
		defaultLines = DefaultLines
	}

	lines := parseInt(params["lines"], defaultLines)
	offset := parseInt(params["offset"], 0)

	return Query{
		Lines:  clamp(lines, MinLines, MaxLines),
		Offset: max(offset, 0),
		Filter: NewFilter(params["source"], params["search"]),
	}
}

// parseInt parses a decimal integer. Out-of-range values saturate at the
// int bounds; anything else malformed yields fallback.
func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return fallback
	}
	return n
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
