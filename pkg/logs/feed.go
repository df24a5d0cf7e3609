package logs

import "context"

// Order describes how a Feed orders the entries it returns.
type Order int

const (
	// OldestFirst means entries are in chronological order.
	OldestFirst Order = iota
	// NewestFirst means the most recent entry comes first.
	NewestFirst
)

// String returns the config spelling of the order.
func (o Order) String() string {
	if o == NewestFirst {
		return "newest-first"
	}
	return "oldest-first"
}

// ParseOrder converts "oldest-first" or "newest-first" to an Order.
// Anything else is OldestFirst.
func ParseOrder(s string) Order {
	if s == "newest-first" {
		return NewestFirst
	}
	return OldestFirst
}

// Window is the raw, unfiltered set of entries fetched for one query.
type Window struct {
	Entries []Entry
	Order   Order
}

// Chronological returns the window's entries oldest-first. The receiver's
// slice is never modified.
func (w Window) Chronological() []Entry {
	if w.Order == OldestFirst {
		return w.Entries
	}
	out := make([]Entry, len(w.Entries))
	for i, e := range w.Entries {
		out[len(w.Entries)-1-i] = e
	}
	return out
}

// Feed is a source of raw entries.
type Feed interface {
	// Fetch returns up to n of the most recent entries.
	Fetch(ctx context.Context, n int) (Window, error)
}

// SliceFeed serves a fixed, oldest-first slice of entries.
type SliceFeed []Entry

// Fetch returns the last n entries of the slice, oldest-first.
func (f SliceFeed) Fetch(_ context.Context, n int) (Window, error) {
	if n < 0 {
		n = 0
	}
	start := len(f) - n
	if start < 0 {
		start = 0
	}
	return Window{Entries: f[start:], Order: OldestFirst}, nil
}
