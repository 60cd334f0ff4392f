package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/switchyard-io/switchyard/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	worker, err := NewWorker(context.Background(), cfg)
	if err != nil {
		log.Fatal("worker init failed:", err)
	}

	if err := worker.Start(); err != nil {
		log.Fatal("worker start failed:", err)
	}

	worker.infra.Logger.Info(
		"switchyard worker starting",
		"version", cfg.Version,
		"metrics_addr", cfg.Worker.MetricsAddr,
		"env", cfg.Env(),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := worker.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		worker.infra.Logger.Error("shutdown incomplete", "error", err)
	}

	worker.infra.Logger.Info("switchyard worker stopped")
}
