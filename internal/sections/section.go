// Package sections implements document section storage and retrieval for
// Switchyard. Extracted text is chunked into overlapping sentence windows,
// embedded, and stored with pgvector for cosine similarity search.
package sections

import "github.com/google/uuid"

// Section represents a stored window of a document's extracted text.
type Section struct {
	ID           uuid.UUID `json:"id"`
	DocumentID   uuid.UUID `json:"document_id"`
	SectionIndex int       `json:"section_index"`
	Content      string    `json:"content"`
}

// Embedded pairs a section's content with its embedding vector for storage.
type Embedded struct {
	Index     int
	Content   string
	Embedding []float32
}

// Match is a section returned by similarity search, with its cosine
// similarity to the query embedding.
type Match struct {
	DocumentID   uuid.UUID `json:"document_id"`
	SectionIndex int       `json:"section_index"`
	Content      string    `json:"content"`
	Similarity   float64   `json:"similarity"`
}
