package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/switchyard-io/switchyard/internal/metrics"
	"github.com/switchyard-io/switchyard/pkg/lifecycle"
)

const metricsShutdownTimeout = 5 * time.Second

// metricsServer exposes the worker registry and a liveness probe on a
// standalone listener.
type metricsServer struct {
	http   *http.Server
	logger *slog.Logger
}

func newMetricsServer(addr string, m *metrics.WorkerMetrics, logger *slog.Logger) *metricsServer {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return &metricsServer{
		http: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
		logger: logger.With("system", "metrics"),
	}
}

func (s *metricsServer) Start(lc *lifecycle.Coordinator) {
	go func() {
		s.logger.Info("metrics listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server error", "error", err)
		}
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()

		if err := s.http.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("metrics shutdown error", "error", err)
		}
	})
}
