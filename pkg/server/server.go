// Package server exposes the tonegraph pipeline over HTTP.
//
// Every endpoint speaks JSON. Graph bodies use the stable graph JSON schema
// read by [gio.ReadJSON]; raw notation bodies go to the extract endpoint.
// Failures are reported as {"code": ..., "message": ...} with a status derived
// from the error code: INVALID_* maps to 400, NOT_FOUND and FILE_NOT_FOUND map
// to 404 and everything else to 500.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	srv := server.New(runner, st, server.WithLogger(logger))
//	http.ListenAndServe(":8080", srv)
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tonegraph/pkg/compare"
	"github.com/matzehuels/tonegraph/pkg/observability"
	"github.com/matzehuels/tonegraph/pkg/pipeline"
	"github.com/matzehuels/tonegraph/pkg/store"
)

// Server routes API requests to a pipeline runner and a graph store.
type Server struct {
	router      chi.Router
	runner      *pipeline.Runner
	store       store.Store
	logger      *log.Logger
	compareOpts compare.Options
	maxBody     int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCompareOptions sets the edit-distance budget used by /v1/compare.
func WithCompareOptions(opts compare.Options) Option {
	return func(s *Server) { s.compareOpts = opts }
}

// WithMaxBodyBytes caps request bodies. The default is pipeline.MaxInputBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// New builds a Server. With a nil store the /v1/graphs endpoints fail with
// UNSUPPORTED.
func New(runner *pipeline.Runner, st store.Store, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		store:   st,
		logger:  log.Default(),
		maxBody: pipeline.MaxInputBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       2 * time.Minute,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errc
		return nil
	}
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)

		r.Get("/parsers", s.handleParsers)
		r.Post("/extract/{parser}", s.handleExtract)
		r.Post("/validate", s.handleValidate)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/optimize", s.handleOptimize)
		r.Post("/transform/{code}", s.handleTransform)
		r.Post("/layout/{name}", s.handleLayout)
		r.Post("/compare", s.handleCompare)
		r.Post("/export/{format}", s.handleExport)

		r.Route("/graphs", func(r chi.Router) {
			r.Get("/", s.handleGraphList)
			r.Post("/", s.handleGraphCreate)
			r.Put("/{id}", s.handleGraphPut)
			r.Get("/{id}", s.handleGraphGet)
			r.Delete("/{id}", s.handleGraphDelete)
		})
	})

	return r
}

// observe reports each request to the registered HTTP hooks, keyed by the
// matched route pattern rather than the raw path.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.maxBody > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
		}
		next.ServeHTTP(w, r)
	})
}
