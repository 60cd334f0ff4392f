// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, database, storage, queue, graph)
// that domain systems require in both the API server and the ingestion worker.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/switchyard-io/switchyard/internal/config"
	"github.com/switchyard-io/switchyard/internal/graph"
	"github.com/switchyard-io/switchyard/internal/queue"
	"github.com/switchyard-io/switchyard/pkg/database"
	"github.com/switchyard-io/switchyard/pkg/lifecycle"
	"github.com/switchyard-io/switchyard/pkg/resilience"
	"github.com/switchyard-io/switchyard/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, blob storage, the ingestion queue, and the
// provenance graph.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Queue     *queue.Queue
	Graph     graph.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	exec := resilience.NewExecutor(resilience.DefaultConfig(), logger)
	q, err := queue.New(cfg.Queue, exec, logger)
	if err != nil {
		return nil, fmt.Errorf("queue init failed: %w", err)
	}

	g, err := graph.New(ctx, cfg.Graph, logger)
	if err != nil {
		return nil, fmt.Errorf("graph init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Queue:     q,
		Graph:     g,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database and storage hooks are registered for startup and shutdown
// coordination; the queue and graph close once shutdown begins.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}

	i.Lifecycle.OnShutdown(func() {
		<-i.Lifecycle.Context().Done()
		i.Queue.Close()
		if err := i.Graph.Close(context.Background()); err != nil {
			i.Logger.Error("graph close failed", "error", err)
		}
	})

	return nil
}
