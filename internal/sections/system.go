package sections

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for section storage operations.
// Sections have no handler of their own: listing is exposed through the
// documents routes and search through the ask endpoint.
type System interface {
	// Replace atomically swaps a document's stored sections for the
	// given set. Replacing with an empty set clears the document.
	Replace(ctx context.Context, documentID uuid.UUID, sections []Embedded) error

	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Section, error)

	// Search returns the sections nearest to the query embedding by
	// cosine distance, optionally restricted to the given documents.
	Search(ctx context.Context, embedding []float32, limit int, documentIDs []uuid.UUID) ([]Match, error)
}
