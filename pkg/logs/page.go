package logs

import (
	"context"
	"fmt"
	"math"
)

// PageResult is one page of entries, oldest-first, plus pagination metadata.
//
// TotalFiltered and HasMore are relative to the raw window that was fetched
// for the query, not to the full history behind the feed.
type PageResult struct {
	Entries       []Entry `json:"entries" yaml:"entries"`
	Count         int     `json:"count" yaml:"count"`
	TotalFiltered int     `json:"totalFiltered" yaml:"totalFiltered"`
	HasMore       bool    `json:"hasMore" yaml:"hasMore"`
}

// Budget decides how many raw entries a query pulls from its feed.
type Budget struct {
	// FilterMultiplier scales the fetch when a filter is active, since many
	// raw entries may be rejected.
	FilterMultiplier int
	// Lookahead is the number of raw entries fetched past the page so that
	// HasMore can see beyond it.
	Lookahead int
	// MaxFetch caps the raw fetch.
	MaxFetch int
}

// DefaultBudget fetches (offset+lines+1), tripled under a filter, at most 10000.
var DefaultBudget = Budget{FilterMultiplier: 3, Lookahead: 1, MaxFetch: 10000}

// FetchCount returns the raw fetch size for q, always within [0, MaxFetch].
// It is a heuristic: a filter matching fewer than 1/FilterMultiplier of
// entries can under-fill the page. The arithmetic saturates, so a huge
// offset yields the cap rather than overflowing.
func (b Budget) FetchCount(q Query) int {
	limit := b.MaxFetch
	if limit <= 0 {
		limit = math.MaxInt
	}

	n := addSat(addSat(max(q.Offset, 0), max(q.Lines, 0)), max(b.Lookahead, 0))
	if q.Filter.Active() && b.FilterMultiplier > 1 {
		if n > limit/b.FilterMultiplier {
			return limit
		}
		n *= b.FilterMultiplier
	}
	return min(n, limit)
}

// addSat adds two non-negative ints, stopping at math.MaxInt.
func addSat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// Page filters an oldest-first slice and cuts the page that sits Offset
// matching entries back from the newest one.
func Page(entries []Entry, q Query) *PageResult {
	filtered := q.Filter.Apply(entries)
	total := len(filtered)

	page := []Entry{}
	if q.Offset < total {
		end := total - q.Offset
		start := max(0, end-q.Lines)
		page = filtered[start:end]
	}

	return &PageResult{
		Entries:       page,
		Count:         len(page),
		TotalFiltered: total,
		HasMore:       total-q.Offset-len(page) > 0,
	}
}

// Paginator runs queries against a Feed using a fetch Budget. Every call
// re-derives its page from a fresh window; nothing is kept between calls.
type Paginator struct {
	Budget Budget
}

// NewPaginator returns a Paginator with the given filter multiplier and the
// default lookahead and cap. A multiplier below 1 uses the default.
func NewPaginator(filterMultiplier int) *Paginator {
	b := DefaultBudget
	if filterMultiplier >= 1 {
		b.FilterMultiplier = filterMultiplier
	}
	return &Paginator{Budget: b}
}

// Paginate fetches the raw window for q from feed and returns its page.
func (p *Paginator) Paginate(ctx context.Context, feed Feed, q Query) (*PageResult, error) {
	budget := DefaultBudget
	if p != nil {
		budget = p.Budget
	}

	window, err := feed.Fetch(ctx, budget.FetchCount(q))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}

	return Page(window.Chronological(), q), nil
}
