// Package summaries generates and stores per-document summaries through
// the language model collaborator. A document keeps one summary, written
// in its detected language and replaced on regeneration.
package summaries

import (
	"time"

	"github.com/google/uuid"
)

// Summary is the stored summary for one document.
type Summary struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	Language   string    `json:"language"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `json:"created_at"`
}

// BatchRequest carries the document set for a batch summarization run.
type BatchRequest struct {
	DocumentIDs []uuid.UUID `json:"document_ids"`
}

// BatchEntry is the per-document outcome of a batch run. Failed documents
// carry an error message instead of a summary.
type BatchEntry struct {
	DocumentID uuid.UUID `json:"document_id"`
	Summary    *Summary  `json:"summary,omitempty"`
	Error      string    `json:"error,omitempty"`
}
