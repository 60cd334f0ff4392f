package classify

import (
	"context"
	"log/slog"
)

// System defines the public contract for classification operations.
type System interface {
	Handler() *Handler

	// Classify runs the full pipeline for one document: entity and
	// pattern extraction, rule scoring, dominance, normalization, and
	// thresholding. Stage failures are converted into a diagnostic
	// result; an error is returned only when extraction fails and the
	// failure mode is set to fail.
	Classify(ctx context.Context, documentID, text string) (*Result, error)

	// Preview classifies ad hoc text without a document identifier.
	Preview(ctx context.Context, text string) (*Result, error)

	Catalog() *Catalog
}

// New creates a classification system over the given catalog and
// extractor. The failure mode controls whether extractor outages degrade
// to keyword-only scoring or fail the document.
func New(catalog *Catalog, extractor Extractor, failureMode string, logger *slog.Logger) System {
	return &classifier{
		engine:      NewEngine(catalog),
		extractor:   extractor,
		failureMode: failureMode,
		logger:      logger.With("system", "classify"),
	}
}
