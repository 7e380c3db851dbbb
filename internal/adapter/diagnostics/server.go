// Package diagnostics serves Prometheus metrics, a textual stats
// endpoint, and Swagger UI for a running or completed simulation.
package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/fleetsim/citysim/internal/report"
	"github.com/fleetsim/citysim/pkg/logger"
	wrap "github.com/fleetsim/citysim/pkg/logger/wrapper"
)

// Server exposes /metrics, /stats, and /swagger for one simulation
// run's lifetime.
type Server struct {
	mux    *http.ServeMux
	server *http.Server
	stats  *statsHandler
	addr   string
	log    logger.Logger
}

// New constructs a diagnostics server bound to addr ("host:port").
// Stats are read lazily from statsFn, so the server can be started
// before a run completes and will report zero values until then.
func New(addr string, statsFn func() report.Stats, log logger.Logger) *Server {
	mux := http.NewServeMux()
	s := &Server{
		mux:   mux,
		stats: &statsHandler{statsFn: statsFn},
		addr:  addr,
		log:   log,
	}

	mux.HandleFunc("/health", s.health)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/stats", s.stats)
	mux.HandleFunc("/swagger/", httpSwagger.Handler(httpSwagger.InstanceName("diagnostics")))

	s.server = &http.Server{Addr: addr, Handler: mux}
	return s
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

// Run starts the server in the background, sending a fatal error to
// errCh if it fails to bind.
func (s *Server) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "diagnostics_server_start")
		s.log.Info(ctx, "started diagnostics server", "address", s.addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start diagnostics server: %w", err)
		}
	}()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "diagnostics_server_stop")

	s.log.Debug(ctx, "shutting down diagnostics server...", "address", s.addr)
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down diagnostics server: %w", err)
	}
	return nil
}
