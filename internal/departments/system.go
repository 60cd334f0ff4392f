package departments

import (
	"context"

	"github.com/google/uuid"

	"github.com/switchyard-io/switchyard/internal/documents"
	"github.com/switchyard-io/switchyard/pkg/pagination"
)

// System defines the public contract for department catalog operations.
// ReplaceRouting is the ingestion worker's write path; the remaining
// methods serve the HTTP surface.
type System interface {
	Handler() *Handler

	// List returns every catalog department with its routed document
	// count, ordered by code.
	List(ctx context.Context) ([]Department, error)

	// Find returns a single department by its lowercase code.
	Find(ctx context.Context, code string) (*Department, error)

	// Documents lists the documents routed to a department.
	Documents(
		ctx context.Context,
		code string,
		page pagination.PageRequest,
	) (*pagination.PageResult[documents.Document], error)

	// Digest returns the most recent document summaries routed to a
	// department, newest first.
	Digest(ctx context.Context, code string) (*Digest, error)

	// ReplaceRouting atomically swaps a document's routing links for
	// the given set. An empty set clears the document's routing.
	ReplaceRouting(ctx context.Context, documentID uuid.UUID, links []RoutingLink) error
}
