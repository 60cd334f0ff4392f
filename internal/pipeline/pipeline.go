// Package pipeline implements the ingestion worker: it consumes queued
// documents and drives them through extraction, classification, routing,
// sectioning, provenance, and summarization. Stages that only enrich a
// document degrade on failure; stages that persist its content are fatal
// and mark the document failed.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/switchyard-io/switchyard/internal/classify"
	"github.com/switchyard-io/switchyard/internal/departments"
	"github.com/switchyard-io/switchyard/internal/documents"
	"github.com/switchyard-io/switchyard/internal/graph"
	"github.com/switchyard-io/switchyard/internal/metrics"
	"github.com/switchyard-io/switchyard/internal/notify"
	"github.com/switchyard-io/switchyard/internal/queue"
	"github.com/switchyard-io/switchyard/internal/sections"
	"github.com/switchyard-io/switchyard/internal/summaries"
	"github.com/switchyard-io/switchyard/internal/textextract"
	"github.com/switchyard-io/switchyard/internal/translation"
)

// Stage names recorded on the stage-failure metric.
const (
	stageDownload  = "download"
	stageExtract   = "extract"
	stageClassify  = "classify"
	stageRouting   = "routing"
	stageSections  = "sections"
	stageGraph     = "graph"
	stageSummarize = "summarize"
	stageNotify    = "notify"
)

// embedBatchSize is the number of sections embedded per model call.
const embedBatchSize = 16

// Embedder is the slice of the language model client used here.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Summarizer generates, stores, and reads back document summaries.
type Summarizer interface {
	Generate(ctx context.Context, documentID uuid.UUID, text, language string) (*summaries.Summary, error)
	ForDocument(ctx context.Context, documentID uuid.UUID) (*summaries.Summary, error)
}

// Runtime carries the collaborators a Pipeline drives.
type Runtime struct {
	Documents   documents.System
	Departments departments.System
	Sections    sections.System
	Chunker     *sections.Chunker
	Classifier  classify.System
	Extractor   textextract.Extractor
	Embedder    Embedder
	Summaries   Summarizer
	Graph       graph.System
	Notify      notify.System
	Metrics     *metrics.WorkerMetrics

	// EmbedConcurrency bounds concurrent embedding batches per job.
	EmbedConcurrency int

	Logger *slog.Logger
}

// Pipeline processes ingestion jobs end to end.
type Pipeline struct {
	rt     Runtime
	logger *slog.Logger
}

// New creates a Pipeline over the given runtime.
func New(rt Runtime) *Pipeline {
	if rt.EmbedConcurrency < 1 {
		rt.EmbedConcurrency = 1
	}
	if rt.Chunker == nil {
		rt.Chunker = sections.NewChunker(sections.DefaultWindowSentences, sections.DefaultOverlapSentences)
	}
	return &Pipeline{
		rt:     rt,
		logger: rt.Logger.With("system", "pipeline"),
	}
}

// Process runs one ingestion job. The returned error reports jobs that
// ended failed; degraded stages are logged and counted but do not fail
// the job.
func (p *Pipeline) Process(ctx context.Context, job queue.IngestJob) error {
	start := time.Now()
	p.rt.Metrics.StartJob()

	err := p.process(ctx, job.DocumentID)

	outcome := "ready"
	if err != nil {
		outcome = "failed"
	}
	p.rt.Metrics.FinishJob(outcome, time.Since(start))

	return err
}

func (p *Pipeline) process(ctx context.Context, id uuid.UUID) error {
	log := p.logger.With("document_id", id)

	if err := p.rt.Documents.MarkProcessing(ctx, id); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	text, language, err := p.extract(ctx, id)
	if err != nil {
		return p.fail(ctx, id, err)
	}

	result := p.classifyAndRoute(ctx, id, text, log)
	if result == nil {
		// Routing persistence failed; classifyAndRoute already marked
		// the document.
		return fmt.Errorf("routing persistence failed for %s", id)
	}

	if err := p.storeSections(ctx, id, text); err != nil {
		p.rt.Metrics.RecordStageFailure(stageSections)
		return p.fail(ctx, id, fmt.Errorf("store sections: %w", err))
	}

	p.recordProvenance(ctx, id, result, log)
	p.summarize(ctx, id, text, language, log)

	if err := p.rt.Documents.MarkReady(ctx, id); err != nil {
		return fmt.Errorf("mark ready: %w", err)
	}

	p.sendNotices(ctx, id, result, log)

	log.InfoContext(ctx, "document processed",
		"language", language,
		"text_length", utf8.RuneCountInString(text),
		"departments", len(result.Predicted),
	)
	return nil
}

// extract downloads the blob, extracts text, detects the language, and
// records both on the document. All failures here are fatal.
func (p *Pipeline) extract(ctx context.Context, id uuid.UUID) (string, string, error) {
	dl, err := p.rt.Documents.Download(ctx, id)
	if err != nil {
		p.rt.Metrics.RecordStageFailure(stageDownload)
		return "", "", fmt.Errorf("download: %w", err)
	}
	defer dl.Content.Close()

	text, err := p.extractText(ctx, dl)
	if err != nil {
		p.rt.Metrics.RecordStageFailure(stageExtract)
		return "", "", fmt.Errorf("extract: %w", err)
	}

	language := translation.DetectLanguage(text)
	if err := p.rt.Documents.RecordExtraction(ctx, id, language, utf8.RuneCountInString(text)); err != nil {
		return "", "", fmt.Errorf("record extraction: %w", err)
	}

	return text, language, nil
}

func (p *Pipeline) extractText(ctx context.Context, dl *documents.Download) (string, error) {
	var r io.Reader = dl.Content
	return p.rt.Extractor.Extract(ctx, dl.ContentType, r)
}

// classifyAndRoute classifies the text and persists the routing links.
// Classification failure degrades: the diagnostic is recorded and an
// empty result returned. Routing persistence failure is fatal and
// returns nil after marking the document failed.
func (p *Pipeline) classifyAndRoute(ctx context.Context, id uuid.UUID, text string, log *slog.Logger) *classify.Result {
	result, err := p.rt.Classifier.Classify(ctx, id.String(), text)
	if err != nil {
		p.rt.Metrics.RecordStageFailure(stageClassify)
		log.WarnContext(ctx, "classification failed, storing diagnostic", "error", err)

		diagnostic := fmt.Sprintf("classification failed: %v", err)
		result = &classify.Result{
			Metadata:   classify.NewMetadata(),
			Diagnostic: diagnostic,
		}
	}

	links := make([]departments.RoutingLink, 0, len(result.Predicted))
	for _, score := range result.Predicted {
		links = append(links, departments.RoutingLink{
			Code:    score.Code,
			Score:   score.Normalized,
			Reasons: score.Reasons,
		})
	}

	if err := p.rt.Departments.ReplaceRouting(ctx, id, links); err != nil {
		p.rt.Metrics.RecordStageFailure(stageRouting)
		p.fail(ctx, id, fmt.Errorf("replace routing: %w", err))
		return nil
	}

	var diagnostic *string
	if result.Diagnostic != "" {
		diagnostic = &result.Diagnostic
	}
	if err := p.rt.Documents.RecordClassification(ctx, id, diagnostic); err != nil {
		p.rt.Metrics.RecordStageFailure(stageRouting)
		p.fail(ctx, id, fmt.Errorf("record classification: %w", err))
		return nil
	}

	return result
}

// storeSections chunks the text, embeds every chunk, and atomically
// replaces the document's stored sections.
func (p *Pipeline) storeSections(ctx context.Context, id uuid.UUID, text string) error {
	chunks := p.rt.Chunker.Chunk(text)

	embedded := make([]sections.Embedded, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.rt.EmbedConcurrency)

	for start := 0; start < len(chunks); start += embedBatchSize {
		start := start
		end := min(start+embedBatchSize, len(chunks))

		g.Go(func() error {
			vectors, err := p.rt.Embedder.Embed(gctx, chunks[start:end])
			if err != nil {
				return fmt.Errorf("embed sections %d..%d: %w", start, end-1, err)
			}
			for i, vec := range vectors {
				embedded[start+i] = sections.Embedded{
					Index:     start + i,
					Content:   chunks[start+i],
					Embedding: vec,
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return p.rt.Sections.Replace(ctx, id, embedded)
}

// recordProvenance mirrors the routing outcome into the knowledge graph.
// Failures degrade.
func (p *Pipeline) recordProvenance(ctx context.Context, id uuid.UUID, result *classify.Result, log *slog.Logger) {
	doc, err := p.rt.Documents.Find(ctx, id)
	if err != nil {
		p.rt.Metrics.RecordStageFailure(stageGraph)
		log.WarnContext(ctx, "provenance skipped, document lookup failed", "error", err)
		return
	}

	routes := make([]graph.Route, 0, len(result.Predicted))
	for _, score := range result.Predicted {
		routes = append(routes, graph.Route{Department: score.Code, Score: score.Normalized})
	}

	provenance := graph.Provenance{
		DocumentID: id,
		Filename:   doc.Filename,
		Routes:     routes,
		Authors:    result.Metadata[classify.CategoryGeneral][classify.EntityPerson],
		Citations:  result.Metadata[classify.CategoryLegal][classify.PatternLawSection],
	}

	if err := p.rt.Graph.RecordProvenance(ctx, provenance); err != nil {
		p.rt.Metrics.RecordStageFailure(stageGraph)
		log.WarnContext(ctx, "provenance recording failed", "error", err)
	}
}

// summarize generates and stores the document summary. Failures degrade.
func (p *Pipeline) summarize(ctx context.Context, id uuid.UUID, text, language string, log *slog.Logger) {
	if _, err := p.rt.Summaries.Generate(ctx, id, text, language); err != nil {
		p.rt.Metrics.RecordStageFailure(stageSummarize)
		log.WarnContext(ctx, "summary generation failed", "error", err)
	}
}

// sendNotices emails each routed department. Failures degrade.
func (p *Pipeline) sendNotices(ctx context.Context, id uuid.UUID, result *classify.Result, log *slog.Logger) {
	if len(result.Predicted) == 0 {
		return
	}

	doc, err := p.rt.Documents.Find(ctx, id)
	if err != nil {
		p.rt.Metrics.RecordStageFailure(stageNotify)
		log.WarnContext(ctx, "notices skipped, document lookup failed", "error", err)
		return
	}

	summary := ""
	if s, err := p.rt.Summaries.ForDocument(ctx, id); err == nil {
		summary = s.Summary
	}

	for _, score := range result.Predicted {
		notice := notify.RoutingNotice{
			DocumentID: id,
			Filename:   doc.Filename,
			Code:       score.Code,
			Department: score.Name,
			Score:      score.Normalized,
			Summary:    summary,
		}
		if err := p.rt.Notify.SendRoutingNotice(ctx, notice); err != nil {
			p.rt.Metrics.RecordStageFailure(stageNotify)
			log.WarnContext(ctx, "routing notice failed", "department", score.Code, "error", err)
		}
	}
}

// fail marks the document failed with the error as diagnostic and
// returns the error for job accounting.
func (p *Pipeline) fail(ctx context.Context, id uuid.UUID, err error) error {
	if markErr := p.rt.Documents.MarkFailed(ctx, id, err.Error()); markErr != nil {
		p.logger.ErrorContext(ctx, "mark failed errored",
			"document_id", id,
			"error", markErr,
		)
	}
	return err
}
