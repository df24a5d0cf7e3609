// Package live adapts the host's raw event log accessor to a logs.Feed.
//
// Accessor implementations (e.g., the HTTP host API) register themselves via
// init() in their sub-packages, the same way archive storage backends do.
package live

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/davidthor/evlog/pkg/logs"
)

// SourcesWindow is the number of recent records scanned by DistinctSources.
const SourcesWindow = 2000

// RawRecord is one record as the host returns it.
type RawRecord struct {
	Message string
	TypeStr string
	TypeVal int
	// TimeStamp is whatever the host emits: a time.Time, a string, or nil.
	TimeStamp any
}

// Accessor is the host's raw event log.
type Accessor interface {
	// Fetch returns up to maxCount of the most recent records, with
	// timestamps, in the accessor's Order.
	Fetch(ctx context.Context, maxCount int) ([]RawRecord, error)

	// Order reports how Fetch orders its records.
	Order() logs.Order
}

// Feed exposes an Accessor as a logs.Feed.
type Feed struct {
	Accessor Accessor
}

// NewFeed wraps an accessor.
func NewFeed(a Accessor) *Feed {
	return &Feed{Accessor: a}
}

// Fetch implements logs.Feed.
func (f *Feed) Fetch(ctx context.Context, n int) (logs.Window, error) {
	records, err := f.Accessor.Fetch(ctx, n)
	if err != nil {
		return logs.Window{}, err
	}

	entries := make([]logs.Entry, len(records))
	for i, r := range records {
		entries[i] = ToEntry(r)
	}

	return logs.Window{Entries: entries, Order: f.Accessor.Order()}, nil
}

// ToEntry maps a raw host record onto an Entry.
func ToEntry(r RawRecord) logs.Entry {
	return logs.Entry{
		Message:   r.Message,
		Source:    r.TypeStr,
		Severity:  r.TypeVal,
		Timestamp: FormatTimestamp(r.TimeStamp),
	}
}

// FormatTimestamp renders a host timestamp as a string. time.Time values use
// ISO-8601 without a zone, with microseconds only when they are non-zero.
func FormatTimestamp(v any) string {
	switch ts := v.(type) {
	case nil:
		return ""
	case string:
		return ts
	case time.Time:
		if ts.Nanosecond()/1000 == 0 {
			return ts.Format("2006-01-02T15:04:05")
		}
		return ts.Format("2006-01-02T15:04:05.000000")
	case *time.Time:
		if ts == nil {
			return ""
		}
		return FormatTimestamp(*ts)
	case fmt.Stringer:
		return ts.String()
	default:
		return fmt.Sprint(ts)
	}
}

// DistinctSources returns the sorted, de-duplicated non-empty sources seen
// in the most recent SourcesWindow records.
func DistinctSources(ctx context.Context, a Accessor) ([]string, error) {
	records, err := a.Fetch(ctx, SourcesWindow)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	sources := []string{}
	for _, r := range records {
		if r.TypeStr != "" && !seen[r.TypeStr] {
			seen[r.TypeStr] = true
			sources = append(sources, r.TypeStr)
		}
	}
	sort.Strings(sources)

	return sources, nil
}
