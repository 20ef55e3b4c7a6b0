package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Server serves the metrics registry over HTTP.
type Server struct {
	addr    string
	path    string
	metrics *Metrics
	log     *zap.Logger
}

// NewServer creates a metrics server listening on addr, e.g. ":9102".
func NewServer(addr, path string, metrics *Metrics, log *zap.Logger) *Server {
	if path == "" {
		path = "/metrics"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{addr: addr, path: path, metrics: metrics, log: log}
}

// Handler returns the HTTP handler with the metrics and health endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(s.path, promhttp.HandlerFor(
		s.metrics.Registry(),
		promhttp.HandlerOpts{EnableOpenMetrics: true},
	))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

// Serve listens until ctx is done, then shuts the HTTP server down.
func (s *Server) Serve(ctx context.Context) error {
	if s.metrics == nil {
		return errors.New("metrics server: nil metrics")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("metrics server listen on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info("metrics server listening", zap.String("address", ln.Addr().String()), zap.String("path", s.path))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	return nil
}
