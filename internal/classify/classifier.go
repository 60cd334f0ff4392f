// Package classify implements the rule-weighted department routing engine
// for Switchyard. It scores extracted entities, lexical pattern matches,
// and keyword hits against a configurable rule catalog, resolves
// multi-department ambiguity through a dominance/suppression pass, and
// produces normalized, thresholded department predictions.
package classify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// classifier orchestrates extraction and scoring for single documents.
// It holds no per-run state and is safe for concurrent use.
type classifier struct {
	engine      *Engine
	extractor   Extractor
	failureMode string
	logger      *slog.Logger
}

func (c *classifier) Handler() *Handler {
	return NewHandler(c, c.logger)
}

func (c *classifier) Catalog() *Catalog {
	return c.engine.Catalog()
}

func (c *classifier) Preview(ctx context.Context, text string) (*Result, error) {
	return c.Classify(ctx, "", text)
}

func (c *classifier) Classify(ctx context.Context, documentID, text string) (*Result, error) {
	meta := NewMetadata()
	degraded := false
	diagnostic := ""

	// Whitespace-only text short-circuits extraction; scoring an empty
	// document yields zero scores and an empty prediction set.
	if strings.TrimSpace(text) != "" {
		if err := c.extract(ctx, text, meta); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			if c.failureMode == FailureModeFail {
				return nil, fmt.Errorf("%w: %w", ErrExtractionUnavailable, err)
			}

			meta = NewMetadata()
			degraded = true
			diagnostic = "entity extraction unavailable; scored on keywords only"

			c.logger.WarnContext(
				ctx, "extraction failed, degrading to keyword-only scoring",
				"document_id", documentID,
				"error", err,
			)
		}
	}

	scores, err := c.engine.Score(meta, text)
	if err != nil {
		c.logger.ErrorContext(
			ctx, "scoring failed",
			"document_id", documentID,
			"error", err,
		)
		return c.failed(documentID, text, err), nil
	}

	result := &Result{
		DocumentID: documentID,
		Metadata:   meta,
		Scores:     scores,
		Predicted:  PredictedOf(scores),
		TextLength: utf8.RuneCountInString(text),
		Degraded:   degraded,
		Diagnostic: diagnostic,
	}

	codes := make([]string, len(result.Predicted))
	for i, p := range result.Predicted {
		codes[i] = p.Code
	}

	c.logger.InfoContext(
		ctx, "document classified",
		"document_id", documentID,
		"text_length", result.TextLength,
		"predicted", codes,
		"degraded", degraded,
	)

	return result, nil
}

func (c *classifier) extract(ctx context.Context, text string, meta Metadata) error {
	entities, err := c.extractor.ExtractEntities(ctx, text)
	if err != nil {
		return fmt.Errorf("extract entities: %w", err)
	}
	meta.AddEntities(entities)

	patterns, err := c.extractor.ExtractPatterns(ctx, text)
	if err != nil {
		return fmt.Errorf("extract patterns: %w", err)
	}
	meta.AddPatterns(patterns)

	return nil
}

// failed builds the result recorded when a stage fails: empty metadata,
// no predictions, and a diagnostic for the caller to surface. A failed
// classification never blocks document storage.
func (c *classifier) failed(documentID, text string, err error) *Result {
	return &Result{
		DocumentID: documentID,
		Metadata:   NewMetadata(),
		Scores:     make([]DepartmentScore, 0),
		Predicted:  make([]DepartmentScore, 0),
		TextLength: utf8.RuneCountInString(text),
		Diagnostic: fmt.Sprintf("classification failed: %v", err),
	}
}
