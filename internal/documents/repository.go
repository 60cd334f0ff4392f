package documents

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/switchyard-io/switchyard/internal/graph"
	"github.com/switchyard-io/switchyard/internal/sections"
	"github.com/switchyard-io/switchyard/pkg/pagination"
	"github.com/switchyard-io/switchyard/pkg/query"
	"github.com/switchyard-io/switchyard/pkg/repository"
	"github.com/switchyard-io/switchyard/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	queue      Publisher
	graph      graph.System
	sections   sections.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	publisher Publisher,
	graphSys graph.System,
	sectionSys sections.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		queue:      publisher,
		graph:      graphSys,
		sections:   sectionSys,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "ContentType")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) findByChecksum(ctx context.Context, checksum string) (*Document, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("Checksum", checksum).
		BuildSingleOrNull()

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	sum := sha256.Sum256(cmd.Data)
	checksum := hex.EncodeToString(sum[:])

	existing, err := r.findByChecksum(ctx, checksum)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return existing, ErrDuplicate
	}

	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	q := `
		INSERT INTO documents(id, filename, content_type, size_bytes, page_count, checksum, storage_key, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + insertReturning

	insertArgs := []any{
		id,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		cmd.PageCount,
		checksum,
		key,
		cmd.UploadedBy,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanDocument)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}

		mapped := repository.MapError(err, ErrNotFound, ErrDuplicate)
		if errors.Is(mapped, ErrDuplicate) {
			// Concurrent upload of the same file won the insert race.
			if racedExisting, findErr := r.findByChecksum(ctx, checksum); findErr == nil {
				return racedExisting, ErrDuplicate
			}
		}
		return nil, mapped
	}

	if err := r.queue.PublishIngest(ctx, d.ID); err != nil {
		// The document stays uploaded; a reprocess re-enqueues it.
		r.logger.ErrorContext(ctx, "ingest enqueue failed",
			"id", d.ID,
			"error", err,
		)
	}

	r.logger.Info("document created", "id", d.ID, "filename", d.Filename)
	return &d, nil
}

func (r *repo) Download(ctx context.Context, id uuid.UUID) (*Download, error) {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := r.storage.Download(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: blob missing for %s", ErrNotFound, doc.StorageKey)
		}
		return nil, fmt.Errorf("download document blob: %w", err)
	}

	return &Download{
		Content:     result.Body,
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		SizeBytes:   result.ContentLength,
	}, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM documents WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, doc.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", doc.StorageKey,
			"error", delErr,
		)
	}

	if graphErr := r.graph.Remove(ctx, id); graphErr != nil {
		r.logger.Warn("graph delete failed after DB delete", "id", id, "error", graphErr)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

func (r *repo) Reprocess(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE documents SET status = $1, diagnostic = NULL, updated_at = now() WHERE id = $2",
			StatusUploaded, id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.queue.PublishIngest(ctx, id); err != nil {
		return fmt.Errorf("enqueue reprocess: %w", err)
	}

	r.logger.Info("document reprocess enqueued", "id", id)
	return nil
}

func (r *repo) Classification(ctx context.Context, id uuid.UUID) (*Classification, error) {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	q := `
		SELECT dd.department_code, dep.name, dd.score, dd.reasons, dd.routed_at
		FROM document_departments dd
		JOIN departments dep ON dep.code = dd.department_code
		WHERE dd.document_id = $1
		ORDER BY dd.score DESC`

	routed, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanRoutedDepartment)
	if err != nil {
		return nil, fmt.Errorf("query routing links: %w", err)
	}

	return &Classification{
		DocumentID:   doc.ID,
		Status:       doc.Status,
		Language:     doc.Language,
		TextLength:   doc.TextLength,
		Diagnostic:   doc.Diagnostic,
		ClassifiedAt: doc.ClassifiedAt,
		Departments:  routed,
	}, nil
}

func (r *repo) Sections(ctx context.Context, id uuid.UUID) ([]sections.Section, error) {
	if _, err := r.Find(ctx, id); err != nil {
		return nil, err
	}
	return r.sections.ListByDocument(ctx, id)
}

func (r *repo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, StatusProcessing)
}

func (r *repo) MarkReady(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, StatusReady)
}

func (r *repo) MarkFailed(ctx context.Context, id uuid.UUID, diagnostic string) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE documents SET status = $1, diagnostic = $2, updated_at = now() WHERE id = $3",
		StatusFailed, diagnostic, id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.WarnContext(ctx, "document failed", "id", id, "diagnostic", diagnostic)
	return nil
}

func (r *repo) RecordExtraction(ctx context.Context, id uuid.UUID, language string, textLength int) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE documents SET language = $1, text_length = $2, updated_at = now() WHERE id = $3",
		language, textLength, id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) RecordClassification(ctx context.Context, id uuid.UUID, diagnostic *string) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE documents SET classified_at = $1, diagnostic = $2, updated_at = now() WHERE id = $3",
		time.Now().UTC(), diagnostic, id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) setStatus(ctx context.Context, id uuid.UUID, status Status) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE documents SET status = $1, updated_at = now() WHERE id = $2",
		status, id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

const insertReturning = `id, filename, content_type, size_bytes, page_count, checksum, storage_key, status, language, text_length, diagnostic, uploaded_by, uploaded_at, updated_at, classified_at`

func scanRoutedDepartment(s repository.Scanner) (RoutedDepartment, error) {
	var (
		rd      RoutedDepartment
		reasons []byte
	)

	if err := s.Scan(&rd.Code, &rd.Name, &rd.Score, &reasons, &rd.RoutedAt); err != nil {
		return rd, err
	}

	if len(reasons) > 0 {
		if err := json.Unmarshal(reasons, &rd.Reasons); err != nil {
			return rd, fmt.Errorf("decode routing reasons: %w", err)
		}
	}

	return rd, nil
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}
