package trigger

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"

	"github.com/amishk599/jobscout/internal/pipeline"
)

const shutdownTimeout = 10 * time.Second

type runResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	*pipeline.Result
}

// Server exposes ingestion runs over HTTP.
type Server struct {
	ingester pipeline.Ingester
	logger   *slog.Logger
}

// NewServer creates a trigger server. Concurrent POST /run requests are only
// collapsed into one run if ingester does so (see pipeline.Runner).
func NewServer(ingester pipeline.Ingester, logger *slog.Logger) *Server {
	return &Server{ingester: ingester, logger: logger}
}

// Handler returns the router: POST /run and GET /healthz.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/run", s.handleRun)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, runResponse{Status: "error", Error: "method " + req.Method + " not allowed"})
	})
	return r
}

func (s *Server) handleRun(w http.ResponseWriter, req *http.Request) {
	// A client hanging up must not abort a run other callers may have joined.
	ctx := context.WithoutCancel(req.Context())

	res, err := s.ingester.Run(ctx)
	if err != nil {
		s.logger.Error("triggered run failed", "run_id", res.RunID, "error", err)
		writeJSON(w, http.StatusInternalServerError, runResponse{Status: "error", Error: err.Error()})
		return
	}

	s.logger.Info("triggered run complete", "run_id", res.RunID, "created", res.Created, "updated", res.Updated)
	writeJSON(w, http.StatusOK, runResponse{Status: "ok", Result: &res})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, letting in-flight runs finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("trigger server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	s.logger.Info("shutting down trigger server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
