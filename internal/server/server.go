// Package server exposes the search pipeline over HTTP as JSON.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	yterrors "github.com/Aman-CERP/ytsearch/internal/errors"
	"github.com/Aman-CERP/ytsearch/internal/metrics"
	"github.com/Aman-CERP/ytsearch/internal/search"
	"github.com/Aman-CERP/ytsearch/internal/youtube"
)

// shutdownTimeout bounds how long in-flight requests get after ctx is done.
const shutdownTimeout = 10 * time.Second

// API is the remote client the server fronts.
type API interface {
	search.Remote
	FetchRating(ctx context.Context, videoID string) (youtube.Rating, error)
}

var _ API = (*youtube.Client)(nil)

// Server serves the JSON API.
type Server struct {
	api    API
	logger *slog.Logger
	router chi.Router
}

// New creates a Server and its routes.
func New(api API, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{api: api, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.recoverer)
	r.Use(s.requestLogger)
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/videos/{id}/comments", s.handleComments)
		r.Get("/videos/{id}/rating", s.handleRating)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, yterrors.New(yterrors.ErrCodeInvalidInput, "no such route", nil))
	})

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server_started", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return yterrors.NetworkError("server failed", err).WithDetail("addr", addr)
	case <-ctx.Done():
	}

	s.logger.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return yterrors.InternalError("server shutdown failed", err)
	}
	s.logger.Info("server_stopped")
	return nil
}

type searchResponse struct {
	Query   string            `json:"query"`
	Order   youtube.SortOrder `json:"order"`
	Count   int               `json:"count"`
	Results []search.Result   `json:"results"`
}

type ratingResponse struct {
	VideoID string         `json:"video_id"`
	Rating  youtube.Rating `json:"rating"`
	Score   int            `json:"score"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSearch serves GET /api/search?q=&order=. A missing q searches for
// the empty string.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	order, err := youtube.ParseSortOrder(q.Get("order"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	results, err := search.Collect(r.Context(), s.api, q.Get("q"), order, s.logger)
	if err != nil {
		s.writeUpstreamError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Query:   q.Get("q"),
		Order:   order,
		Count:   len(results),
		Results: results,
	})
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := youtube.ValidateVideoID(id); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	page, err := s.api.FetchComments(r.Context(), id)
	if err != nil {
		s.writeUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleRating(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := youtube.ValidateVideoID(id); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rating, err := s.api.FetchRating(r.Context(), id)
	if err != nil {
		s.writeUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ratingResponse{VideoID: id, Rating: rating, Score: rating.Score()})
}

// writeUpstreamError logs and maps a remote failure to a gateway status.
func (s *Server) writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	attrs := append([]any{
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	}, yterrors.LogAttrs(err)...)
	s.logger.Warn("upstream_error", attrs...)
	writeError(w, statusFor(err), err)
}

// statusFor picks the HTTP status for err. The innermost coded error wins, so
// a search failure caused by a timeout becomes 504.
func statusFor(err error) int {
	code := yterrors.GetCode(err)
	for e := err; e != nil; e = errors.Unwrap(e) {
		if ye, ok := e.(*yterrors.YTError); ok {
			code = ye.Code
		}
	}

	switch code {
	case yterrors.ErrCodeNetworkTimeout:
		return http.StatusGatewayTimeout
	case yterrors.ErrCodeAPIStatus, yterrors.ErrCodeAPIDecode, yterrors.ErrCodeNetworkUnavailable:
		return http.StatusBadGateway
	}
	if yterrors.GetCategory(err) == yterrors.CategoryValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	body, encErr := yterrors.FormatJSON(err)
	if encErr != nil {
		body = []byte(`{"code":"` + yterrors.ErrCodeInternal + `"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", yterrors.GetCode(err))
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// requestLogger writes one record per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info("http_request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// recoverer turns a handler panic into a JSON 500.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("handler_panic",
					slog.Any("panic", rec),
					slog.String("path", r.URL.Path))
				writeError(w, http.StatusInternalServerError,
					yterrors.InternalError("internal error", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
