// Package server exposes the search pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness and version
//	POST /v1/search               layout → report JSON
//	POST /v1/render?format=png    layout → artifact bytes
//
// Request bodies are either JSON ({"layout": ["S..", ".#.", "..E"]}) or a
// plain text layout with Content-Type text/plain.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/astargrid/pkg/buildinfo"
	coded "github.com/matzehuels/astargrid/pkg/errors"
	"github.com/matzehuels/astargrid/pkg/observability"
	"github.com/matzehuels/astargrid/pkg/pipeline"
	"github.com/matzehuels/astargrid/pkg/render"
)

// maxBodyBytes bounds request bodies; a 512-row layout is about 260 KiB.
const maxBodyBytes = 1 << 20

// Config tunes the server.
type Config struct {
	Addr string

	// SearchTimeout bounds one request's search and render (default 10s).
	SearchTimeout time.Duration
}

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
}

// New returns a server that runs requests through runner.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = 10 * time.Second
	}
	return &Server{runner: runner, logger: logger, cfg: cfg}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Post("/render", s.handleRender)
	})
	return r
}

// ListenAndServe serves until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}

type searchRequest struct {
	Layout    []string          `json:"layout"`
	Heuristic string            `json:"heuristic,omitempty"`
	CellPx    int               `json:"cell_px,omitempty"`
	Palette   map[string]string `json:"palette,omitempty"`
	Refresh   bool              `json:"refresh,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.SearchTimeout)
	defer cancel()

	rep, hit, err := s.runner.SearchWithCacheInfo(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = render.FormatPNG
	}
	opts, err := s.decodeOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.SearchTimeout)
	defer cancel()

	res, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("X-Cache", cacheHeader(res.CacheInfo.SearchHit && res.CacheInfo.RenderHit))
	w.Header().Set("X-Run-ID", res.Report.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return pipeline.Options{}, coded.Wrap(coded.ErrCodeInvalidInput, err, "read body")
	}

	var req searchRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/plain") {
		req.Layout = pipeline.LayoutFromText(string(body))
		req.Heuristic = r.URL.Query().Get("heuristic")
	} else if err := json.Unmarshal(body, &req); err != nil {
		return pipeline.Options{}, coded.Wrap(coded.ErrCodeInvalidInput, err, "decode request")
	}

	return pipeline.Options{
		Layout:    req.Layout,
		Heuristic: req.Heuristic,
		CellPx:    req.CellPx,
		Palette:   req.Palette,
		Refresh:   req.Refresh,
		Logger:    s.logger.With("request_id", middleware.GetReqID(r.Context())),
	}, nil
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	switch coded.GetCode(err) {
	case coded.ErrCodeInvalidInput, coded.ErrCodeInvalidLayout, coded.ErrCodeInvalidSize,
		coded.ErrCodeInvalidFormat, coded.ErrCodeInvalidConfig, coded.ErrCodeMissingEndpoint:
		return http.StatusBadRequest
	case coded.ErrCodeNotFound:
		return http.StatusNotFound
	case coded.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := coded.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", middleware.GetReqID(r.Context()), "err", err)
		msg = "internal error"
	}
	body := map[string]string{"error": msg}
	if code := coded.GetCode(err); code != "" {
		body["code"] = string(code)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logRequests logs each request and reports it to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		began := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(began))
		s.logger.Info("request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(began),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
