// Package documents implements the document domain for Switchyard.
// It provides types, data access, and business logic for document upload
// with checksum deduplication, blob storage integration, ingestion
// enqueueing, and the processing status machine.
package documents

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// Status tracks a document through the processing machine:
// uploaded → processing → ready | failed.
type Status string

// Valid document statuses.
const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// Document represents a registered document with its metadata, blob
// storage reference, and processing outcome.
type Document struct {
	ID           uuid.UUID  `json:"id"`
	Filename     string     `json:"filename"`
	ContentType  string     `json:"content_type"`
	SizeBytes    int64      `json:"size_bytes"`
	PageCount    *int       `json:"page_count"`
	Checksum     string     `json:"checksum"`
	StorageKey   string     `json:"storage_key"`
	Status       Status     `json:"status"`
	Language     *string    `json:"language"`
	TextLength   *int       `json:"text_length"`
	Diagnostic   *string    `json:"diagnostic"`
	UploadedBy   *uuid.UUID `json:"uploaded_by"`
	UploadedAt   time.Time  `json:"uploaded_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ClassifiedAt *time.Time `json:"classified_at"`
}

// CreateCommand carries the data needed to upload and register a new
// document. Data holds the raw file bytes. PageCount is optional and may
// be extracted by the caller via pdfcpu; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
	UploadedBy  *uuid.UUID
}

// Download carries a document's blob stream with its serving metadata.
// The caller must close Content.
type Download struct {
	Content     io.ReadCloser
	Filename    string
	ContentType string
	SizeBytes   int64
}

// Classification is the persisted routing outcome for a document: the
// predicted departments with their scores and reasons, plus the
// processing diagnostics recorded by the worker.
type Classification struct {
	DocumentID   uuid.UUID          `json:"document_id"`
	Status       Status             `json:"status"`
	Language     *string            `json:"language"`
	TextLength   *int               `json:"text_length"`
	Diagnostic   *string            `json:"diagnostic"`
	ClassifiedAt *time.Time         `json:"classified_at"`
	Departments  []RoutedDepartment `json:"departments"`
}

// RoutedDepartment is one predicted department in a classification
// outcome, joined with its canonical name.
type RoutedDepartment struct {
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Score    float64   `json:"score"`
	Reasons  []string  `json:"reasons"`
	RoutedAt time.Time `json:"routed_at"`
}

// DuplicateResponse is the upload response body when the file's checksum
// matches an already registered document.
type DuplicateResponse struct {
	Error    string    `json:"error"`
	Document *Document `json:"document"`
}
