package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cuemby/burrow/pkg/config"
	"github.com/cuemby/burrow/pkg/kube"
	"github.com/cuemby/burrow/pkg/log"
	"github.com/cuemby/burrow/pkg/metrics"
)

// Server is the HTTP front of the service: it parses tenant requests,
// dispatches to the orchestration manager, and forwards proxy traffic into
// the cluster.
type Server struct {
	cfg         *config.Config
	manager     *kube.Manager
	store       *RequestStore
	logger      zerolog.Logger
	version     string
	httpServer  *http.Server
	proxyClient *http.Client
}

// NewServer creates a server around an orchestration manager.
func NewServer(cfg *config.Config, manager *kube.Manager, version string) *Server {
	return &Server{
		cfg:     cfg,
		manager: manager,
		store:   NewRequestStore(),
		logger:  log.WithComponent("api"),
		version: version,
		// No client timeout: proxied responses stream and the request
		// context carries cancellation.
		proxyClient: &http.Client{},
	}
}

// Handler builds the full route tree. Everything tenant-facing lives under
// the API prefix and flows through one dispatcher; instrumentation endpoints
// sit beside it.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.HandleFunc("/api/v1", s.handleAPI)
	r.HandleFunc("/api/v1/*", s.handleAPI)

	// Anything else still gets a CORS-aware answer from the dispatcher,
	// including OPTIONS on arbitrary paths.
	r.NotFound(s.handleAPI)
	r.MethodNotAllowed(s.handleAPI)

	return r
}

// Start serves until the context is cancelled, then drains gracefully. A
// failure to bind is returned to the caller and becomes a nonzero exit.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.logger.Info().Str("addr", addr).Msg("api listening")

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// instrument tags every request with an id, logs it, and feeds the HTTP
// metrics.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := ParsePath(r.URL.Path).Route
		metrics.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
