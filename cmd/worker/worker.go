package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/switchyard-io/switchyard/internal/classify"
	"github.com/switchyard-io/switchyard/internal/config"
	"github.com/switchyard-io/switchyard/internal/departments"
	"github.com/switchyard-io/switchyard/internal/documents"
	"github.com/switchyard-io/switchyard/internal/extraction"
	"github.com/switchyard-io/switchyard/internal/infrastructure"
	"github.com/switchyard-io/switchyard/internal/llm"
	"github.com/switchyard-io/switchyard/internal/metrics"
	"github.com/switchyard-io/switchyard/internal/notify"
	"github.com/switchyard-io/switchyard/internal/pipeline"
	"github.com/switchyard-io/switchyard/internal/prompts"
	"github.com/switchyard-io/switchyard/internal/sections"
	"github.com/switchyard-io/switchyard/internal/summaries"
	"github.com/switchyard-io/switchyard/internal/textextract"
)

// Worker consumes ingestion jobs from the queue and drives them through
// the processing pipeline.
type Worker struct {
	infra    *infrastructure.Infrastructure
	pipeline *pipeline.Pipeline
	metrics  *metricsServer
}

func NewWorker(ctx context.Context, cfg *config.Config) (*Worker, error) {
	infra, err := infrastructure.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	db := infra.Database.Connection()
	logger := infra.Logger

	model, err := llm.New(cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("llm init failed: %w", err)
	}

	classifier, err := newClassifySystem(cfg, logger)
	if err != nil {
		return nil, err
	}

	promptsSystem := prompts.New(db, logger, cfg.API.Pagination)
	sectionsSystem := sections.New(db, logger)

	docsSystem := documents.New(
		db,
		infra.Storage,
		infra.Queue,
		infra.Graph,
		sectionsSystem,
		logger,
		cfg.API.Pagination,
	)

	departmentsSystem := departments.New(db, docsSystem, logger, cfg.API.Pagination)

	summariesSystem := summaries.New(
		db,
		model,
		promptsSystem,
		docsSystem,
		sectionsSystem,
		logger,
	)

	workerMetrics := metrics.NewWorkerMetrics()

	p := pipeline.New(pipeline.Runtime{
		Documents:        docsSystem,
		Departments:      departmentsSystem,
		Sections:         sectionsSystem,
		Chunker:          sections.NewChunker(cfg.Worker.SectionWindow, cfg.Worker.SectionOverlap),
		Classifier:       classifier,
		Extractor:        textextract.New(logger),
		Embedder:         model,
		Summaries:        summariesSystem,
		Graph:            infra.Graph,
		Notify:           notify.New(cfg.Notify, logger),
		Metrics:          workerMetrics,
		EmbedConcurrency: cfg.Worker.EmbedConcurrency,
		Logger:           logger,
	})

	return &Worker{
		infra:    infra,
		pipeline: p,
		metrics:  newMetricsServer(cfg.Worker.MetricsAddr, workerMetrics, logger),
	}, nil
}

func newClassifySystem(cfg *config.Config, logger *slog.Logger) (classify.System, error) {
	catalog, err := cfg.Classify.Catalog()
	if err != nil {
		return nil, fmt.Errorf("load rule catalog: %w", err)
	}

	var extractor classify.Extractor
	switch cfg.Classify.Extractor {
	case classify.ExtractorRemote:
		extractor = extraction.NewRemote(cfg.Classify.RemoteURL, nil)
	default:
		extractor = extraction.NewLexical()
	}

	return classify.New(catalog, extractor, cfg.Classify.OnExtractorFailure, logger), nil
}

// Start brings up infrastructure, the metrics listener, and the queue
// subscription. The subscription consumes until the lifecycle context is
// cancelled, then drains in-flight deliveries before the hook returns,
// so Shutdown waits for the last job to finish.
func (w *Worker) Start() error {
	w.infra.Logger.Info("starting worker")

	if err := w.infra.Start(); err != nil {
		return err
	}

	w.metrics.Start(w.infra.Lifecycle)

	w.infra.Lifecycle.OnShutdown(func() {
		err := w.infra.Queue.SubscribeIngest(w.infra.Lifecycle.Context(), w.pipeline.Process)
		if err != nil {
			w.infra.Logger.Error("ingest subscription ended with error", "error", err)
		}
	})

	go func() {
		w.infra.Lifecycle.WaitForStartup()
		w.infra.Logger.Info("worker ready")
	}()

	return nil
}

func (w *Worker) Shutdown(timeout time.Duration) error {
	w.infra.Logger.Info("initiating worker shutdown")
	return w.infra.Lifecycle.Shutdown(timeout)
}
