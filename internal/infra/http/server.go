package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server is the admin listener: health, metrics and, in webhook mode, the
// Telegram delivery endpoint.
type Server struct {
	addr   string
	router chi.Router
	server *http.Server
	ln     net.Listener
	log    *zerolog.Logger
}

func NewServer(port int, logger *zerolog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	s := &Server{addr: fmt.Sprintf(":%d", port), router: r, log: logger}
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	r.Get("/health", s.handleHealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return s
}

// HandleWebhook mounts the Telegram webhook handler at path (POST only).
func (s *Server) HandleWebhook(path string, h http.Handler) {
	s.router.Method(http.MethodPost, path, h)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Listen binds the admin port without serving yet. Connections made before
// Start wait in the accept queue. Start calls it when it has not been called.
func (s *Server) Listen() error {
	if s.ln != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("http listen %s: %w", s.addr, err)
	}
	s.ln = ln
	return nil
}

// Addr is the bound address once Listen succeeded, else the configured one.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Start blocks serving requests until Shutdown is called. After Shutdown it
// returns nil right away.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	s.log.Info().Str("addr", s.Addr()).Msg("admin http server listening")
	if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func requestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			ev := logger.Debug()
			if ww.Status() >= http.StatusInternalServerError {
				ev = logger.Warn()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Str("request_id", middleware.GetReqID(r.Context())).
				Dur("duration", time.Since(start)).
				Msg("http request")
		})
	}
}
