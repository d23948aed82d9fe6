// Package web provides the HTTP server: the registration form, the HR review
// panel, its JSON and CSV outputs, and the live event stream.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/TrainingReg/internal/core"
	"github.com/JonMunkholm/TrainingReg/internal/metrics"
	"github.com/JonMunkholm/TrainingReg/internal/review"
	mw "github.com/JonMunkholm/TrainingReg/internal/web/middleware"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Service  *core.Service
	Pipeline *review.Pipeline
	Metrics  *metrics.Metrics // optional
	Health   HealthChecker    // optional
}

// Options tune the HTTP surface.
type Options struct {
	RequestTimeout  time.Duration
	EventHeartbeat  time.Duration
	SubmitPerMinute int // 0 disables submission rate limiting
	TrustedProxies  []string
	EnableCSP       bool
	Location        *time.Location // time zone for dates in the HR table
}

// Server is the HTTP server for the registration service.
type Server struct {
	service  *core.Service
	pipeline *review.Pipeline
	metrics  *metrics.Metrics
	health   HealthChecker
	opts     Options
	limiter  *rateLimiter
	router   *chi.Mux

	mu      sync.Mutex
	server  *http.Server
	stopped bool
}

// NewServer wires routes and middleware.
func NewServer(deps Deps, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.EventHeartbeat <= 0 {
		opts.EventHeartbeat = 25 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	s := &Server{
		service:  deps.Service,
		pipeline: deps.Pipeline,
		metrics:  deps.Metrics,
		health:   deps.Health,
		opts:     opts,
		router:   chi.NewRouter(),
	}
	if opts.SubmitPerMinute > 0 {
		s.limiter = newRateLimiter(opts.SubmitPerMinute, time.Minute)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.opts.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}
	s.router.Use(securityHeaders(s.opts.EnableCSP))
}

func (s *Server) setupRoutes() {
	// The event stream is long-lived: no timeout, no compression.
	s.router.Get("/hr/events", s.handleEvents)

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))
		r.Use(middleware.Compress(5))

		r.Get("/", s.handleIndex)
		r.With(s.rateLimit).Post("/registrations", s.handleSubmit)

		r.Get("/hr/table", s.handleTable)
		r.Get("/hr/export", s.handleExport)

		r.Route("/api", func(r chi.Router) {
			r.Get("/registrations", s.handleListRegistrations)
			r.Get("/catalog", s.handleCatalog)
		})

		r.Get("/healthz", s.handleHealth)
		if s.metrics != nil {
			r.Handle("/metrics", s.metrics.Handler())
		}
	})
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr until Shutdown is called. It returns nil after a
// graceful shutdown.
func (s *Server) Start(addr string, readTimeout, writeTimeout, idleTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.server = srv
	s.mu.Unlock()

	slog.Info("starting server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server and the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.stop()
	}
	s.mu.Lock()
	s.stopped = true
	srv := s.server
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// securityHeaders adds security headers to all responses.
func securityHeaders(csp bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if csp {
				// Inline script and styles are part of the page.
				h.Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}
