// Package server exposes the orchestrator over HTTP: a single POST /chat
// route plus health and metrics endpoints. Request routing, middleware and
// graceful shutdown live here; all domain logic stays behind the Handler
// interface.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler is the orchestrator-shaped dependency the server dispatches to.
type Handler interface {
	Handle(ctx context.Context, query core.Query) (core.ChatResponse, error)
}

// Options configures the Server.
type Options struct {
	// RequestTimeout bounds each request end to end via chi's Timeout
	// middleware; the deadline propagates through every downstream call.
	RequestTimeout time.Duration
	// MetricsEnabled mounts GET /metrics when true.
	MetricsEnabled bool
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Server hosts the HTTP surface.
type Server struct {
	handler        Handler
	addr           string
	requestTimeout time.Duration
	metricsEnabled bool
	logger         logging.Logger
}

// New constructs a Server listening on addr (e.g. ":8080").
func New(handler Handler, addr string, optFns ...func(o *Options)) *Server {
	opts := Options{
		RequestTimeout: 60 * time.Second,
		MetricsEnabled: true,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Server{
		handler:        handler,
		addr:           addr,
		requestTimeout: opts.RequestTimeout,
		metricsEnabled: opts.MetricsEnabled,
		logger:         opts.Logger,
	}
}

// Router assembles the chi router with middleware and routes. Exposed so
// tests can drive the full stack through httptest.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout))

	r.Post("/chat", s.handleChat)
	r.Get("/healthz", s.handleHealth)
	if s.metricsEnabled {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully with a bounded drain window.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.requestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server.listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("server.shutdown.start")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("server.request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
