package departments

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/switchyard-io/switchyard/internal/documents"
	"github.com/switchyard-io/switchyard/pkg/pagination"
	"github.com/switchyard-io/switchyard/pkg/repository"
)

// digestLimit caps a department digest at the most recent summaries.
const digestLimit = 10

type repo struct {
	db         *sql.DB
	docs       documents.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a department repository implementing the System interface.
// Routed document listings delegate to the documents system.
func New(
	db *sql.DB,
	docs documents.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		docs:       docs,
		logger:     logger.With("system", "departments"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

const catalogQuery = `
	SELECT dep.code, dep.name, COUNT(dd.document_id)
	FROM departments dep
	LEFT JOIN document_departments dd ON dd.department_code = dep.code`

func (r *repo) List(ctx context.Context) ([]Department, error) {
	q := catalogQuery + `
	GROUP BY dep.code, dep.name
	ORDER BY dep.code`

	deps, err := repository.QueryMany(ctx, r.db, q, nil, scanDepartment)
	if err != nil {
		return nil, fmt.Errorf("query departments: %w", err)
	}

	if deps == nil {
		deps = []Department{}
	}
	return deps, nil
}

func (r *repo) Find(ctx context.Context, code string) (*Department, error) {
	q := catalogQuery + `
	WHERE dep.code = $1
	GROUP BY dep.code, dep.name`

	dep, err := repository.QueryOne(ctx, r.db, q, []any{code}, scanDepartment)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &dep, nil
}

func (r *repo) Documents(
	ctx context.Context,
	code string,
	page pagination.PageRequest,
) (*pagination.PageResult[documents.Document], error) {
	dep, err := r.Find(ctx, code)
	if err != nil {
		return nil, err
	}

	return r.docs.List(ctx, page, documents.Filters{Department: &dep.Code})
}

func (r *repo) Digest(ctx context.Context, code string) (*Digest, error) {
	dep, err := r.Find(ctx, code)
	if err != nil {
		return nil, err
	}

	q := `
		SELECT d.id, d.filename, dd.score, ds.summary, ds.created_at
		FROM document_departments dd
		JOIN documents d ON d.id = dd.document_id
		JOIN document_summaries ds ON ds.document_id = dd.document_id
		WHERE dd.department_code = $1
		ORDER BY ds.created_at DESC
		LIMIT $2`

	entries, err := repository.QueryMany(ctx, r.db, q, []any{dep.Code, digestLimit}, scanDigestEntry)
	if err != nil {
		return nil, fmt.Errorf("query digest entries: %w", err)
	}

	if entries == nil {
		entries = []DigestEntry{}
	}

	return &Digest{Department: *dep, Entries: entries}, nil
}

func (r *repo) ReplaceRouting(ctx context.Context, documentID uuid.UUID, links []RoutingLink) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(
			ctx,
			"DELETE FROM document_departments WHERE document_id = $1",
			documentID,
		); err != nil {
			return struct{}{}, fmt.Errorf("clear routing links: %w", err)
		}

		for _, link := range links {
			reasons := link.Reasons
			if reasons == nil {
				reasons = []string{}
			}
			payload, err := json.Marshal(reasons)
			if err != nil {
				return struct{}{}, fmt.Errorf("marshal reasons for %s: %w", link.Code, err)
			}

			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO document_departments (document_id, department_code, score, reasons)
				VALUES ($1, $2, $3, $4)`,
				documentID, link.Code, link.Score, payload,
			); err != nil {
				return struct{}{}, fmt.Errorf("insert routing link %s: %w", link.Code, err)
			}
		}

		return struct{}{}, nil
	})

	if err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "routing links replaced",
		"document_id", documentID,
		"links", len(links),
	)
	return nil
}

func scanDepartment(s repository.Scanner) (Department, error) {
	var d Department
	err := s.Scan(&d.Code, &d.Name, &d.DocumentCount)
	return d, err
}

func scanDigestEntry(s repository.Scanner) (DigestEntry, error) {
	var e DigestEntry
	err := s.Scan(&e.DocumentID, &e.Filename, &e.Score, &e.Summary, &e.GeneratedAt)
	return e, err
}
