package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/flowlayout/pkg/buildinfo"
	"github.com/matzehuels/flowlayout/pkg/engine"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/optimizer"
	"github.com/matzehuels/flowlayout/pkg/render/nodelink"
)

// DefaultMaxBodyBytes bounds request bodies unless Options says otherwise.
const DefaultMaxBodyBytes = 10 << 20

const shutdownTimeout = 30 * time.Second

// Options configures [New]. Zero values select defaults.
type Options struct {
	// Logger receives request and error logs. Defaults to a discarding logger.
	Logger *log.Logger

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler

	// MaxBodyBytes bounds request bodies. Defaults to DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Server routes HTTP requests to an [engine.Engine].
type Server struct {
	engine   *engine.Engine
	logger   *log.Logger
	validate *validator.Validate
	router   chi.Router
}

// New builds the router for eng.
func New(eng *engine.Engine, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	s := &Server{
		engine:   eng,
		logger:   opts.Logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(instrument(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(bodyLimit(opts.MaxBodyBytes))

	r.Get("/healthz", s.handleHealth)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/preview", s.handlePreview)
		r.Post("/optimize", s.handleOptimize)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/suggestions", s.handleSuggestions)
		r.Post("/review", s.handleReview)
		r.Post("/render", s.handleRender)

		r.Get("/algorithms", s.handleAlgorithms)
		r.Get("/templates", s.handleTemplates)
		r.Post("/templates/{name}/apply", s.handleApplyTemplate)

		r.Get("/history", s.handleHistory)
		r.Post("/history/back", s.handleHistoryBack)
		r.Post("/history/forward", s.handleHistoryForward)
	})

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.engine.Layout(r.Context(), req.Graph, req.Config)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.engine.Preview(r.Context(), req.Graph, req.Config)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.engine.Optimize(r.Context(), req.Graph, req.Config, optimizer.Options{
		MaxIterations: req.MaxIterations,
		Seed:          req.Seed,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req GraphRequest
	if !s.decode(w, r, &req) {
		return
	}
	a, err := s.engine.Analyze(r.Context(), req.Graph)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, a)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req GraphRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.engine.Suggestions(r.Context(), req.Graph)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"suggestions": out})
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req GraphRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.engine.Review(r.Context(), req.Graph)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.engine.Preview(r.Context(), req.Graph, req.Config)
	if err != nil {
		s.respondError(w, err)
		return
	}
	svg, err := nodelink.RenderSVG(r.Context(), nodelink.ToDOT(req.Graph, res, nodelink.Options{Detailed: req.Detailed}))
	if err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, _ *http.Request) {
	algos := s.engine.Algorithms()
	out := make([]AlgorithmInfo, 0, len(algos))
	for _, a := range algos {
		out = append(out, AlgorithmInfo{
			Name:                a.Name(),
			Description:         a.Description(),
			SupportsConstraints: a.SupportsConstraints(),
			DefaultConfig:       a.DefaultConfig(),
		})
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"algorithms": out})
}

func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"templates": s.engine.Templates()})
}

func (s *Server) handleApplyTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateTemplateName(name); err != nil {
		s.respondError(w, err)
		return
	}
	var req GraphRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.engine.ApplyTemplate(r.Context(), req.Graph, name)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	entries := s.engine.History()
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntry(e))
	}
	resp := map[string]any{"entries": out}
	if cur, ok := s.engine.Current(); ok {
		resp["current"] = cur.ID
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistoryBack(w http.ResponseWriter, r *http.Request) {
	s.browse(w, r, s.engine.Back)
}

func (s *Server) handleHistoryForward(w http.ResponseWriter, r *http.Request) {
	s.browse(w, r, s.engine.Forward)
}

func (s *Server) browse(w http.ResponseWriter, r *http.Request, move func(context.Context, *graph.Graph) (engine.Entry, error)) {
	e, err := move(r.Context(), nil)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, historyEntry(e))
}

// =============================================================================
// Helpers
// =============================================================================

// decode reads a JSON body into v and validates it. On failure it writes
// the error response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body: %v", err))
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request: %v", err))
		return false
	}
	if g := requestGraph(v); g != nil {
		for _, n := range g.Nodes {
			if err := errors.ValidateNodeID(n.ID); err != nil {
				s.respondError(w, err)
				return false
			}
		}
	}
	return true
}

func requestGraph(v any) *graph.Graph {
	switch req := v.(type) {
	case *GraphRequest:
		return req.Graph
	case *LayoutRequest:
		return req.Graph
	case *OptimizeRequest:
		return req.Graph
	case *RenderRequest:
		return req.Graph
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

// respondError writes the error envelope. Internal errors are logged in full
// and reported with a generic message.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		msg = "internal error"
	}
	s.respondJSON(w, status, ErrorBody{Error: ErrorDetail{Code: string(code), Message: msg}})
}
