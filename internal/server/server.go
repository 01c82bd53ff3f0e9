// Package server implements the CutStack HTTP service.
//
// The service exposes the imposition job over three endpoints: POST /process
// returns the imposed document, POST /count-pages returns source metadata,
// and GET /healthz reports liveness. Processing requests pass through a
// two-level admission gate (waiting room semaphore, then a render lock)
// so a burst of uploads degrades into fast 503s instead of piling up.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Sreyas-J-S/CutStack/pkg/errors"
	"github.com/Sreyas-J-S/CutStack/pkg/impose"
	"github.com/Sreyas-J-S/CutStack/pkg/observability"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
)

// Server wires the imposition runner into an HTTP handler.
type Server struct {
	cfg    Config
	runner *impose.Runner
	gate   *Gate
	logger *log.Logger
}

// New creates a server around an already-configured runner.
func New(cfg Config, runner *impose.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:    cfg,
		runner: runner,
		gate:   NewGate(cfg.WaitingRoom, cfg.RetryAfterSeconds),
		logger: logger,
	}
}

// Handler builds the routing table. Exposed separately from ListenAndServe
// so tests can drive the full middleware stack through httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/process", s.handleProcess)
	r.Post("/count-pages", s.handleCountPages)

	return r
}

// ListenAndServe runs the server until ctx is canceled, then drains in-flight
// requests within the configured grace period.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "waiting_room", s.cfg.WaitingRoom)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "grace", s.cfg.ShutdownGrace())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
	}
	return <-errCh
}

// ctxKey namespaces context values set by the middleware stack.
type ctxKey int

const requestIDKey ctxKey = iota

// RequestID returns the request ID attached by the middleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestID tags every request with a unique ID, honoring one supplied by
// the client, and echoes it in the response headers.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// logRequests emits one structured line per request and feeds the server
// observability hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)
		duration := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), duration)

		s.logger.Info("request",
			"request_id", RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration)
	})
}
