// Package archive reads the per-day event log files the host writes to its
// Logs directory.
//
// Files are named "<YYYY-MM-DD> Events.txt". Rotated days may be stored
// gzip-compressed as "<YYYY-MM-DD> Events.txt.gz". Files are read through a
// storage backend so the archive can live on local disk or in a bucket.
package archive

import (
	"context"
	stderrors "errors"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/davidthor/evlog/pkg/archive/backend"
	"github.com/davidthor/evlog/pkg/errors"
	"github.com/davidthor/evlog/pkg/logs"
)

const (
	fileSuffix = " Events.txt"
	gzipSuffix = ".gz"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidDate reports whether s has the YYYY-MM-DD shape archive files are
// named with. It does not check that the date exists on the calendar.
func ValidDate(s string) bool {
	return datePattern.MatchString(s)
}

// FileName returns the archive file name for a date.
func FileName(date string) string {
	return date + fileSuffix
}

// Archive reads dated event log files from a storage backend.
type Archive struct {
	backend backend.Backend
}

// New creates an Archive over the given backend.
func New(b backend.Backend) *Archive {
	return &Archive{backend: b}
}

// Backend returns the storage backend the archive reads from.
func (a *Archive) Backend() backend.Backend {
	return a.backend
}

// DayFeed serves the parsed entries of one archive file.
type DayFeed struct {
	Date    string
	entries logs.SliceFeed
}

// Fetch returns the most recent n entries of the day, oldest-first.
func (d *DayFeed) Fetch(ctx context.Context, n int) (logs.Window, error) {
	return d.entries.Fetch(ctx, n)
}

// Len returns the number of entries parsed from the file.
func (d *DayFeed) Len() int {
	return len(d.entries)
}

// Open parses the archive file for date. It returns an InvalidDate error for
// a malformed date and backend.ErrNotFound when no file exists for the day in
// either plain or compressed form.
func (a *Archive) Open(ctx context.Context, date string) (*DayFeed, error) {
	if !ValidDate(date) {
		return nil, errors.InvalidDate(date)
	}

	name, err := a.locate(ctx, date)
	if err != nil {
		return nil, err
	}

	rc, err := a.backend.Read(ctx, name)
	if err != nil {
		if stderrors.Is(err, backend.ErrNotFound) {
			return nil, backend.ErrNotFound
		}
		return nil, errors.BackendError(a.backend.Type(), "read", err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if strings.HasSuffix(name, gzipSuffix) {
		zr, err := gzip.NewReader(rc)
		if err != nil {
			return nil, errors.ParseError(name, err)
		}
		defer zr.Close()
		r = zr
	}

	entries, err := Parse(r)
	if err != nil {
		return nil, errors.ParseError(name, err)
	}

	return &DayFeed{Date: date, entries: entries}, nil
}

// locate returns the name of the day's file, preferring the plain file over
// the compressed one.
func (a *Archive) locate(ctx context.Context, date string) (string, error) {
	plain := FileName(date)
	for _, name := range []string{plain, plain + gzipSuffix} {
		ok, err := a.backend.Exists(ctx, name)
		if err != nil {
			return "", errors.BackendError(a.backend.Type(), "stat", err)
		}
		if ok {
			return name, nil
		}
	}
	return "", backend.ErrNotFound
}

// Dates returns the dates that have an archive file, newest first.
func (a *Archive) Dates(ctx context.Context) ([]string, error) {
	names, err := a.backend.List(ctx, "")
	if err != nil {
		return nil, errors.BackendError(a.backend.Type(), "list", err)
	}

	seen := make(map[string]struct{}, len(names))
	dates := []string{}
	for _, name := range names {
		date, ok := dateOf(name)
		if !ok {
			continue
		}
		if _, dup := seen[date]; dup {
			continue
		}
		seen[date] = struct{}{}
		dates = append(dates, date)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// dateOf extracts the date from a top-level archive file name.
func dateOf(name string) (string, bool) {
	if strings.Contains(name, "/") {
		return "", false
	}
	name = strings.TrimSuffix(name, gzipSuffix)
	if !strings.HasSuffix(name, fileSuffix) {
		return "", false
	}
	date := strings.TrimSuffix(name, fileSuffix)
	return date, ValidDate(date)
}
