// Package api serves the event log query operations over HTTP.
//
// Routes mirror the host plugin endpoints:
//
//	GET /log      live page (lines, offset, source, search)
//	GET /history  archived page (date plus the /log parameters)
//	GET /sources  distinct sources in the recent live log
//	GET /dates    dates with an archive file, newest first
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/davidthor/evlog/pkg/errors"
	"github.com/davidthor/evlog/pkg/eventlog"
	"github.com/davidthor/evlog/pkg/logs"
)

// RequestIDHeader carries the per-request id back to the client.
const RequestIDHeader = "X-Request-Id"

type ctxKey struct{}

// Server answers event log queries over HTTP.
type Server struct {
	service *eventlog.Service
	logger  *slog.Logger
	srv     *http.Server
}

// NewServer creates a Server over the given service.
func NewServer(service *eventlog.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{service: service, logger: logger}
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler, including request id middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/log", s.getOnly(s.handleLog))
	mux.HandleFunc("/history", s.getOnly(s.handleHistory))
	mux.HandleFunc("/sources", s.getOnly(s.handleSources))
	mux.HandleFunc("/dates", s.getOnly(s.handleDates))
	mux.HandleFunc("/", s.handleNotFound)
	return s.withRequestID(mux)
}

// Start listens on addr and blocks until the server stops. It returns nil
// once Shutdown has been called, even if Shutdown ran before Start.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve answers requests on ln until the server stops. ln is closed on return.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("listening", "addr", ln.Addr().String())
	if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server. A later Start returns at once.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set(RequestIDHeader, id)

		logger := s.logger.With("request_id", id, "method", r.Method, "path", r.URL.Path)
		ctx := context.WithValue(r.Context(), ctxKey{}, logger)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		logger.Debug("request served", "duration", time.Since(start))
	})
}

func (s *Server) getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
			return
		}
		h(w, r)
	}
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.QueryLive(r.Context(), queryParams(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Success: true, PageResult: result})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	params := queryParams(r)
	result, err := s.service.QueryHistory(r.Context(), params["date"], params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Success: true, PageResult: result})
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.service.ListSources(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sourcesResponse{Success: true, Sources: sources})
}

func (s *Server) handleDates(w http.ResponseWriter, r *http.Request) {
	dates, err := s.service.ListDates(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, datesResponse{Success: true, Dates: dates})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, errors.NotFoundError("route", r.URL.Path))
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logger := requestLogger(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err, "code", errors.CodeOf(err))
	} else {
		logger.Info("request rejected", "error", err, "code", errors.CodeOf(err))
	}

	msg := err.Error()
	var coded *errors.Error
	if errors.As(err, &coded) {
		msg = coded.Message
		if coded.Cause != nil && status >= http.StatusInternalServerError {
			msg += ": " + coded.Cause.Error()
		}
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: string(errors.CodeOf(err))})
}

func statusFor(err error) int {
	switch errors.CodeOf(err) {
	case errors.ErrCodeInvalidDate:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}
	return fallback
}

// queryParams flattens the query string, keeping the first value of each key.
func queryParams(r *http.Request) map[string]string {
	values := r.URL.Query()
	params := make(map[string]string, len(values))
	for key := range values {
		params[key] = values.Get(key)
	}
	return params
}

type pageResponse struct {
	Success bool `json:"success"`
	*logs.PageResult
}

type sourcesResponse struct {
	Success bool     `json:"success"`
	Sources []string `json:"sources"`
}

type datesResponse struct {
	Success bool     `json:"success"`
	Dates   []string `json:"dates"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
