// Package eventlog implements the four query operations exposed by evlog:
// live log pages, archived day pages, the distinct source catalog and the
// archive date catalog.
//
// The CLI and the HTTP server are thin shells over Service.
package eventlog

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"

	"github.com/davidthor/evlog/pkg/archive"
	"github.com/davidthor/evlog/pkg/archive/backend"
	"github.com/davidthor/evlog/pkg/errors"
	"github.com/davidthor/evlog/pkg/logs"
	"github.com/davidthor/evlog/pkg/logs/live"
)

// Service answers event log queries.
type Service struct {
	Accessor     live.Accessor
	Archive      *archive.Archive
	DefaultLines int
	Paginator    *logs.Paginator
	Logger       *slog.Logger
}

// Options configures a Service.
type Options struct {
	DefaultLines     int
	FilterMultiplier int
	Logger           *slog.Logger
}

// NewService creates a Service. Either source may be nil; operations that
// need a missing source fail with an error instead of panicking.
func NewService(accessor live.Accessor, arch *archive.Archive, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Accessor:     accessor,
		Archive:      arch,
		DefaultLines: opts.DefaultLines,
		Paginator:    logs.NewPaginator(opts.FilterMultiplier),
		Logger:       logger,
	}
}

// QueryLive returns a page of the host's live event log.
func (s *Service) QueryLive(ctx context.Context, params map[string]string) (*logs.PageResult, error) {
	if s.Accessor == nil {
		return nil, errNoAccessor("fetch")
	}

	q := logs.ParseQuery(params, s.DefaultLines)
	result, err := s.Paginator.Paginate(ctx, live.NewFeed(s.Accessor), q)
	if err != nil {
		s.logger().Error("live query failed", "error", err)
		return nil, errors.HostError("fetch", err)
	}

	s.logger().Debug("live query",
		"lines", q.Lines,
		"offset", q.Offset,
		"count", result.Count,
		"totalFiltered", result.TotalFiltered,
	)
	return result, nil
}

// QueryHistory returns a page of the archive file for date. A date that is
// not YYYY-MM-DD is rejected. A day with no archive file is an empty page.
func (s *Service) QueryHistory(ctx context.Context, date string, params map[string]string) (*logs.PageResult, error) {
	date = strings.TrimSpace(date)
	if !archive.ValidDate(date) {
		return nil, errors.InvalidDate(date)
	}
	if s.Archive == nil {
		return nil, errors.Internal("no archive configured", nil)
	}

	q := logs.ParseQuery(params, s.DefaultLines)

	feed, err := s.Archive.Open(ctx, date)
	if err != nil {
		if stderrors.Is(err, backend.ErrNotFound) {
			s.logger().Debug("no archive file", "date", date)
			return logs.Page(nil, q), nil
		}
		s.logger().Error("history query failed", "date", date, "error", err)
		return nil, asError(err)
	}

	result, err := s.Paginator.Paginate(ctx, feed, q)
	if err != nil {
		return nil, errors.Internal("failed to page archive", err)
	}

	s.logger().Debug("history query",
		"date", feed.Date,
		"backend", s.Archive.Backend().Type(),
		"entries", feed.Len(),
		"count", result.Count,
		"totalFiltered", result.TotalFiltered,
	)
	return result, nil
}

// ListSources returns the distinct sources in the recent live log.
func (s *Service) ListSources(ctx context.Context) ([]string, error) {
	if s.Accessor == nil {
		return nil, errNoAccessor("list sources")
	}

	sources, err := live.DistinctSources(ctx, s.Accessor)
	if err != nil {
		s.logger().Error("listing sources failed", "error", err)
		return nil, errors.HostError("list sources", err)
	}
	return sources, nil
}

// ListDates returns the dates with an archive file, newest first.
func (s *Service) ListDates(ctx context.Context) ([]string, error) {
	if s.Archive == nil {
		return nil, errors.Internal("no archive configured", nil)
	}

	dates, err := s.Archive.Dates(ctx)
	if err != nil {
		s.logger().Error("listing dates failed", "error", err)
		return nil, asError(err)
	}
	return dates, nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// asError keeps coded errors as they are and marks anything else internal.
func asError(err error) error {
	var coded *errors.Error
	if stderrors.As(err, &coded) {
		return err
	}
	return errors.Internal("unexpected failure", err)
}

func errNoAccessor(operation string) error {
	return errors.New(errors.ErrCodeHost, "no host accessor configured").WithDetail("operation", operation)
}
