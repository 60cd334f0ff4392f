package documents

import (
	"net/url"

	"github.com/switchyard-io/switchyard/pkg/query"
	"github.com/switchyard-io/switchyard/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("checksum", "Checksum").
	Project("storage_key", "StorageKey").
	Project("status", "Status").
	Project("language", "Language").
	Project("text_length", "TextLength").
	Project("diagnostic", "Diagnostic").
	Project("uploaded_by", "UploadedBy").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt").
	Project("classified_at", "ClassifiedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. Status, ContentType, and Language use exact
// matching. Filename uses case-insensitive contains matching. Department
// restricts to documents routed to the given department code.
type Filters struct {
	Status      *Status `json:"status,omitempty"`
	ContentType *string `json:"content_type,omitempty"`
	Language    *string `json:"language,omitempty"`
	Filename    *string `json:"filename,omitempty"`
	Department  *string `json:"department,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.
		WhereEquals("Status", f.Status).
		WhereEquals("ContentType", f.ContentType).
		WhereEquals("Language", f.Language).
		WhereContains("Filename", f.Filename)

	if f.Department != nil && *f.Department != "" {
		b.WhereExists(
			"SELECT 1 FROM document_departments dd WHERE dd.document_id = d.id AND dd.department_code = $%d",
			*f.Department,
		)
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		status := Status(s)
		f.Status = &status
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	if l := values.Get("language"); l != "" {
		f.Language = &l
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if d := values.Get("department"); d != "" {
		f.Department = &d
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.Checksum,
		&d.StorageKey,
		&d.Status,
		&d.Language,
		&d.TextLength,
		&d.Diagnostic,
		&d.UploadedBy,
		&d.UploadedAt,
		&d.UpdatedAt,
		&d.ClassifiedAt,
	)
	return d, err
}
