package summaries

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/switchyard-io/switchyard/internal/llm"
	"github.com/switchyard-io/switchyard/internal/prompts"
	"github.com/switchyard-io/switchyard/internal/translation"
	"github.com/switchyard-io/switchyard/pkg/repository"
)

const (
	// maxBatchSize caps one batch summarization request.
	maxBatchSize = 10

	// maxSummaryInputRunes truncates the text handed to the model.
	maxSummaryInputRunes = 50000

	// minSummaryInputRunes gates the model call entirely.
	minSummaryInputRunes = 10
)

type repo struct {
	db       *sql.DB
	llm      Completer
	prompts  InstructionSource
	docs     DocumentSource
	sections SectionSource
	logger   *slog.Logger
}

// New creates a summary system implementing the System interface.
func New(
	db *sql.DB,
	completer Completer,
	source InstructionSource,
	docs DocumentSource,
	sectionSys SectionSource,
	logger *slog.Logger,
) System {
	return &repo{
		db:       db,
		llm:      completer,
		prompts:  source,
		docs:     docs,
		sections: sectionSys,
		logger:   logger.With("system", "summaries"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

const findQuery = `
	SELECT id, document_id, language, summary, created_at
	FROM document_summaries
	WHERE document_id = $1`

func (r *repo) ForDocument(ctx context.Context, documentID uuid.UUID) (*Summary, error) {
	summary, err := repository.QueryOne(ctx, r.db, findQuery, []any{documentID}, scanSummary)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, nil)
	}
	return &summary, nil
}

func (r *repo) Generate(ctx context.Context, documentID uuid.UUID, text, language string) (*Summary, error) {
	content, err := r.summarize(ctx, text, language)
	if err != nil {
		return nil, err
	}
	return r.store(ctx, documentID, language, content)
}

func (r *repo) Regenerate(ctx context.Context, documentID uuid.UUID) (*Summary, error) {
	doc, err := r.docs.Find(ctx, documentID)
	if err != nil {
		return nil, err
	}

	stored, err := r.sections.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	if len(stored) == 0 {
		return nil, fmt.Errorf("%w: document %s", ErrNoContent, documentID)
	}

	parts := make([]string, len(stored))
	for i, s := range stored {
		parts[i] = s.Content
	}
	text := strings.Join(parts, "\n")

	language := translation.DetectLanguage(text)
	if doc.Language != nil && *doc.Language != "" {
		language = *doc.Language
	}

	return r.Generate(ctx, documentID, text, language)
}

func (r *repo) Batch(ctx context.Context, documentIDs []uuid.UUID) ([]BatchEntry, error) {
	if len(documentIDs) == 0 {
		return nil, fmt.Errorf("%w: no documents given", ErrNoContent)
	}
	if len(documentIDs) > maxBatchSize {
		return nil, fmt.Errorf("%w: limit %d", ErrBatchTooLarge, maxBatchSize)
	}

	entries := make([]BatchEntry, 0, len(documentIDs))
	for _, id := range documentIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		summary, err := r.Regenerate(ctx, id)
		if err != nil {
			r.logger.WarnContext(ctx, "batch summary failed", "document_id", id, "error", err)
			entries = append(entries, BatchEntry{DocumentID: id, Error: err.Error()})
			continue
		}
		entries = append(entries, BatchEntry{DocumentID: id, Summary: summary})
	}

	return entries, nil
}

func (r *repo) summarize(ctx context.Context, text, language string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minSummaryInputRunes {
		return tooShortSummary, nil
	}

	if runes := []rune(trimmed); len(runes) > maxSummaryInputRunes {
		trimmed = string(runes[:maxSummaryInputRunes])
	}

	instructions, err := r.prompts.Instructions(ctx, prompts.StageSummarize)
	if err != nil {
		return "", fmt.Errorf("resolve summarize instructions: %w", err)
	}
	if language == translation.LanguageMalayalam {
		instructions += "\n\nWrite the summary in Malayalam."
	}

	summary, err := r.llm.Complete(ctx, llm.CompleteRequest{
		System: instructions,
		Prompt: trimmed,
	})
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	return summary, nil
}

func (r *repo) store(ctx context.Context, documentID uuid.UUID, language, content string) (*Summary, error) {
	id := uuid.New()

	summary, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Summary, error) {
		if _, err := tx.ExecContext(
			ctx,
			"DELETE FROM document_summaries WHERE document_id = $1",
			documentID,
		); err != nil {
			return Summary{}, fmt.Errorf("clear summary: %w", err)
		}

		const insert = `
			INSERT INTO document_summaries (id, document_id, language, summary)
			VALUES ($1, $2, $3, $4)
			RETURNING id, document_id, language, summary, created_at`

		return repository.QueryOne(ctx, tx, insert, []any{id, documentID, language, content}, scanSummary)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, nil)
	}

	r.logger.InfoContext(ctx, "summary stored",
		"document_id", documentID,
		"language", language,
	)
	return &summary, nil
}

func scanSummary(s repository.Scanner) (Summary, error) {
	var sum Summary
	err := s.Scan(&sum.ID, &sum.DocumentID, &sum.Language, &sum.Summary, &sum.CreatedAt)
	return sum, err
}
