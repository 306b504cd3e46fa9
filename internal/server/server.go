// Package server exposes the rrgraph pipeline over HTTP.
//
// Routes:
//
//	GET  /health                  build info and liveness
//	GET  /metrics                 Prometheus metrics
//	POST /api/v1/layout           sectors → layout JSON
//	POST /api/v1/render/{format}  sectors → svg, png, pdf, json or msgpack
//	POST /api/v1/classify         sectors → quadrant per sector
//	GET  /api/v1/session          websocket hover session
//
// POST bodies are JSON {"sectors": [...], "options": {...}}. A body sent as
// application/msgpack is decoded as a bare sector list with default options.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/rrgraph/internal/config"
	"github.com/matzehuels/rrgraph/pkg/pipeline"
)

// requestTimeout bounds POST handlers. Websocket sessions are exempt.
const requestTimeout = 60 * time.Second

// Server is the rrgraph HTTP API.
type Server struct {
	cfg      *config.Config
	runner   *pipeline.Runner
	log      *log.Logger
	router   chi.Router
	registry *prometheus.Registry
	metrics  *Metrics
	sessions *sessions
	upgrader websocket.Upgrader
	http     *http.Server
}

// New creates a server. Metrics are registered on a private registry and
// installed as the global observability hooks.
func New(cfg *config.Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := NewMetrics(reg)
	metrics.Install()

	s := &Server{
		cfg:      cfg,
		runner:   runner,
		log:      logger,
		router:   chi.NewRouter(),
		registry: reg,
		metrics:  metrics,
		sessions: newSessions(cfg.Server.MaxSessions),
		upgrader: websocket.Upgrader{
			CheckOrigin:       originChecker(cfg.Server.AllowedOrigins),
			EnableCompression: true,
		},
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.http = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Cache", "X-Request-ID", "X-Sectors-Hash"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/session", s.handleSession)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Post("/layout", s.handleLayout)
			r.Post("/render/{format}", s.handleRender)
			r.Post("/classify", s.handleClassify)
		})
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server", "addr", s.cfg.Server.Addr)
		errc <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.sessions.closeAll()
	return s.http.Shutdown(shutdownCtx)
}

// originChecker mirrors the CORS origin list for websocket upgrades.
func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}
