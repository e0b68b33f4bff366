// Package server exposes bean graph queries over HTTP.
//
// # Routes
//
//	GET /graph-data   ?root=&excludeSpring=&excludeThirdParty=&packages=   resolution JSON
//	GET /roots        ?excludeSpring=&excludeThirdParty=&packages=         roots and unused chains
//	GET /packages                                                          third-party packages
//	GET /graph.dot    same parameters as /graph-data                       Graphviz DOT
//	GET /graph.svg    same parameters as /graph-data                       rendered SVG
//	GET /healthz                                                           liveness and node count
//	GET /metrics                                                           Prometheus exposition
//	GET /                                                                  <static>/index.html
//	GET /static/*                                                          files under <static>
//
// Boolean parameters are true for 1, true, yes and on (case-insensitive);
// anything else is false. Packages may be comma-separated, repeated, or both.
//
// The served [service.Service] can be replaced at any time with [Server.Swap];
// requests in flight finish against the service they started with.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/beanchain/pkg/config"
	"github.com/matzehuels/beanchain/pkg/errors"
	"github.com/matzehuels/beanchain/pkg/service"
)

// ShutdownTimeout bounds graceful shutdown after the serve context ends.
const ShutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	// StaticDir holds index.html and the assets served under /static/.
	// Defaults to [config.DefaultStaticDir].
	StaticDir string

	// Logger receives request and lifecycle logs. Defaults to [log.Default].
	Logger *log.Logger

	// Gatherer backs /metrics. Defaults to [prometheus.DefaultGatherer].
	Gatherer prometheus.Gatherer
}

// Server serves one swappable service.
type Server struct {
	svc       atomic.Pointer[service.Service]
	logger    *log.Logger
	staticDir string
	gatherer  prometheus.Gatherer
	router    chi.Router
}

// New creates a server for svc.
func New(svc *service.Service, opts Options) *Server {
	s := &Server{
		logger:    opts.Logger,
		staticDir: opts.StaticDir,
		gatherer:  opts.Gatherer,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.staticDir == "" {
		s.staticDir = config.DefaultStaticDir
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	s.svc.Store(svc)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/graph-data", s.handleGraphData)
	r.Get("/roots", s.handleRoots)
	r.Get("/packages", s.handlePackages)
	r.Get("/graph.dot", s.handleDOT)
	r.Get("/graph.svg", s.handleSVG)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Get("/", s.handleIndex)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Service returns the service currently served.
func (s *Server) Service() *service.Service { return s.svc.Load() }

// Swap replaces the served service.
func (s *Server) Swap(svc *service.Service) {
	s.svc.Store(svc)
	s.logger.Info("swapped bean graph", "nodes", svc.Graph().NodeCount())
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "listen on %s", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("serving bean graph", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "serve")
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
	}
	return nil
}
