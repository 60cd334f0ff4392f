package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/switchyard-io/switchyard/internal/sections"
	"github.com/switchyard-io/switchyard/pkg/pagination"
)

// Publisher enqueues ingestion jobs for uploaded documents.
type Publisher interface {
	PublishIngest(ctx context.Context, documentID uuid.UUID) error
}

// System defines the public contract for document domain operations.
// The Mark and Record methods are the worker's interface to the status
// machine; the rest serve the HTTP surface.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)

	// Create uploads the blob, registers the document, and enqueues
	// ingestion. A checksum collision returns the existing document
	// together with ErrDuplicate.
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)

	Download(ctx context.Context, id uuid.UUID) (*Download, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Reprocess resets the document to uploaded and re-enqueues it.
	Reprocess(ctx context.Context, id uuid.UUID) error

	// Classification returns the persisted routing outcome with the
	// worker's processing diagnostics.
	Classification(ctx context.Context, id uuid.UUID) (*Classification, error)

	// Sections lists the document's stored sections in index order.
	Sections(ctx context.Context, id uuid.UUID) ([]sections.Section, error)

	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkReady(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, diagnostic string) error

	// RecordExtraction stores the detected language and extracted text
	// length after the extract stage.
	RecordExtraction(ctx context.Context, id uuid.UUID, language string, textLength int) error

	// RecordClassification stamps classified_at, with an optional
	// diagnostic when classification degraded.
	RecordClassification(ctx context.Context, id uuid.UUID, diagnostic *string) error
}
