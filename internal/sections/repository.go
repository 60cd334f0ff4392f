package sections

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/switchyard-io/switchyard/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a section repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "sections"),
	}
}

func (r *repo) Replace(ctx context.Context, documentID uuid.UUID, sections []Embedded) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(
			ctx,
			"DELETE FROM document_sections WHERE document_id = $1",
			documentID,
		); err != nil {
			return struct{}{}, fmt.Errorf("clear sections: %w", err)
		}

		for _, s := range sections {
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO document_sections (document_id, section_index, content, embedding)
				VALUES ($1, $2, $3, $4::vector)`,
				documentID, s.Index, s.Content, vectorParam(s.Embedding),
			); err != nil {
				return struct{}{}, fmt.Errorf("insert section %d: %w", s.Index, err)
			}
		}

		return struct{}{}, nil
	})

	if err != nil {
		return err
	}

	r.logger.DebugContext(ctx, "sections replaced",
		"document_id", documentID,
		"count", len(sections),
	)
	return nil
}

func (r *repo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Section, error) {
	q := `
		SELECT id, document_id, section_index, content
		FROM document_sections
		WHERE document_id = $1
		ORDER BY section_index`

	list, err := repository.QueryMany(ctx, r.db, q, []any{documentID}, scanSection)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	return list, nil
}

func (r *repo) Search(
	ctx context.Context,
	embedding []float32,
	limit int,
	documentIDs []uuid.UUID,
) ([]Match, error) {
	q := `
		SELECT document_id, section_index, content,
			1 - (embedding <=> $1::vector) AS similarity
		FROM document_sections`

	args := []any{vectorParam(embedding)}

	if len(documentIDs) > 0 {
		placeholders := make([]string, len(documentIDs))
		for i, id := range documentIDs {
			args = append(args, id)
			placeholders[i] = "$" + strconv.Itoa(len(args))
		}
		q += "\n\t\tWHERE document_id IN (" + strings.Join(placeholders, ", ") + ")"
	}

	args = append(args, limit)
	q += fmt.Sprintf("\n\t\tORDER BY embedding <=> $1::vector\n\t\tLIMIT $%d", len(args))

	matches, err := repository.QueryMany(ctx, r.db, q, args, scanMatch)
	if err != nil {
		return nil, fmt.Errorf("search sections: %w", err)
	}
	return matches, nil
}

func scanSection(s repository.Scanner) (Section, error) {
	var sec Section
	err := s.Scan(
		&sec.ID,
		&sec.DocumentID,
		&sec.SectionIndex,
		&sec.Content,
	)
	return sec, err
}

func scanMatch(s repository.Scanner) (Match, error) {
	var m Match
	err := s.Scan(
		&m.DocumentID,
		&m.SectionIndex,
		&m.Content,
		&m.Similarity,
	)
	return m, err
}

// vectorParam formats an embedding in pgvector's text input syntax.
func vectorParam(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
