// Package departments exposes the destination catalog for document
// routing. It provides per-department document listings and summary
// digests, plus the routing-link upsert the ingestion worker uses
// after classification.
package departments

import (
	"time"

	"github.com/google/uuid"
)

// Department is one catalog entry together with the number of documents
// currently routed to it.
type Department struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	DocumentCount int    `json:"document_count"`
}

// RoutingLink is one department prediction to persist for a document.
// Score is the normalized classification score and Reasons lists the
// contributing signals in scoring order.
type RoutingLink struct {
	Code    string   `json:"code"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}

// Digest is the recent-activity view for one department.
type Digest struct {
	Department Department    `json:"department"`
	Entries    []DigestEntry `json:"entries"`
}

// DigestEntry is one summarized document routed to the department.
type DigestEntry struct {
	DocumentID  uuid.UUID `json:"document_id"`
	Filename    string    `json:"filename"`
	Score       float64   `json:"score"`
	Summary     string    `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`
}
