package summaries

import (
	"context"

	"github.com/google/uuid"

	"github.com/switchyard-io/switchyard/internal/documents"
	"github.com/switchyard-io/switchyard/internal/llm"
	"github.com/switchyard-io/switchyard/internal/prompts"
	"github.com/switchyard-io/switchyard/internal/sections"
)

// Completer is the slice of the language model client used here.
type Completer interface {
	Complete(ctx context.Context, req llm.CompleteRequest) (string, error)
}

// InstructionSource resolves the effective instructions for a stage.
type InstructionSource interface {
	Instructions(ctx context.Context, stage prompts.Stage) (string, error)
}

// DocumentSource resolves document records for regeneration.
type DocumentSource interface {
	Find(ctx context.Context, id uuid.UUID) (*documents.Document, error)
}

// SectionSource provides a document's stored sections, the text source
// for regeneration after the original extraction has been discarded.
type SectionSource interface {
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]sections.Section, error)
}

// System defines the public contract for summary operations. Generate is
// the ingestion worker's write path; the rest serve the HTTP surface.
type System interface {
	Handler() *Handler

	// ForDocument returns the stored summary for a document.
	ForDocument(ctx context.Context, documentID uuid.UUID) (*Summary, error)

	// Generate summarizes the given text and replaces the document's
	// stored summary. Text below the minimum length stores a canonical
	// placeholder without a model call.
	Generate(ctx context.Context, documentID uuid.UUID, text, language string) (*Summary, error)

	// Regenerate rebuilds a document's summary from its stored sections.
	Regenerate(ctx context.Context, documentID uuid.UUID) (*Summary, error)

	// Batch regenerates summaries for up to maxBatchSize documents,
	// reporting per-document outcomes.
	Batch(ctx context.Context, documentIDs []uuid.UUID) ([]BatchEntry, error)
}
