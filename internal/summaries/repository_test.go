package summaries_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/switchyard-io/switchyard/internal/documents"
	"github.com/switchyard-io/switchyard/internal/llm"
	"github.com/switchyard-io/switchyard/internal/prompts"
	"github.com/switchyard-io/switchyard/internal/sections"
	"github.com/switchyard-io/switchyard/internal/summaries"
)

type fakeCompleter struct {
	out        string
	err        error
	calls      int
	lastSystem string
	lastPrompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.CompleteRequest) (string, error) {
	f.calls++
	f.lastSystem = req.System
	f.lastPrompt = req.Prompt
	return f.out, f.err
}

type fakeInstructions struct{}

func (fakeInstructions) Instructions(ctx context.Context, stage prompts.Stage) (string, error) {
	return "Summarize the document.", nil
}

type fakeDocs struct {
	doc *documents.Document
	err error
}

func (f *fakeDocs) Find(ctx context.Context, id uuid.UUID) (*documents.Document, error) {
	return f.doc, f.err
}

type fakeSections struct {
	list []sections.Section
	err  error
}

func (f *fakeSections) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]sections.Section, error) {
	return f.list, f.err
}

type fixture struct {
	sys       summaries.System
	mock      sqlmock.Sqlmock
	completer *fakeCompleter
	docs      *fakeDocs
	sections  *fakeSections
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	completer := &fakeCompleter{out: "A concise summary."}
	docs := &fakeDocs{}
	sectionSrc := &fakeSections{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		sys:       summaries.New(db, completer, fakeInstructions{}, docs, sectionSrc, logger),
		mock:      mock,
		completer: completer,
		docs:      docs,
		sections:  sectionSrc,
	}
}

func summaryRows(docID uuid.UUID, text string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "document_id", "language", "summary", "created_at"}).
		AddRow(uuid.New(), docID, "en", text, time.Now())
}

func expectStore(f *fixture, docID uuid.UUID, text string) {
	f.mock.ExpectBegin()
	f.mock.ExpectExec("DELETE FROM document_summaries").
		WithArgs(docID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectQuery("INSERT INTO document_summaries").
		WillReturnRows(summaryRows(docID, text))
	f.mock.ExpectCommit()
}

func TestForDocument(t *testing.T) {
	f := newFixture(t)
	docID := uuid.New()

	f.mock.ExpectQuery("SELECT id, document_id, language, summary, created_at").
		WithArgs(docID).
		WillReturnRows(summaryRows(docID, "stored summary"))

	summary, err := f.sys.ForDocument(context.Background(), docID)
	if err != nil {
		t.Fatalf("ForDocument error: %v", err)
	}
	if summary.Summary != "stored summary" {
		t.Errorf("summary = %q", summary.Summary)
	}
}

func TestForDocumentNotFound(t *testing.T) {
	f := newFixture(t)
	docID := uuid.New()

	f.mock.ExpectQuery("SELECT id, document_id, language, summary, created_at").
		WithArgs(docID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "document_id", "language", "summary", "created_at"}))

	_, err := f.sys.ForDocument(context.Background(), docID)
	if !errors.Is(err, summaries.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGenerate(t *testing.T) {
	f := newFixture(t)
	docID := uuid.New()
	expectStore(f, docID, "A concise summary.")

	summary, err := f.sys.Generate(context.Background(), docID, "The board approved the tender for track renewal works.", "en")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if summary.Summary != "A concise summary." {
		t.Errorf("summary = %q", summary.Summary)
	}
	if f.completer.calls != 1 {
		t.Errorf("model calls = %d, want 1", f.completer.calls)
	}
	if strings.Contains(f.completer.lastSystem, "Malayalam") {
		t.Error("english document should not request a Malayalam summary")
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestGenerateMalayalamInstructions(t *testing.T) {
	f := newFixture(t)
	docID := uuid.New()
	expectStore(f, docID, "A concise summary.")

	if _, err := f.sys.Generate(context.Background(), docID, "വളരെ പ്രധാനപ്പെട്ട ഔദ്യോഗിക രേഖ", "ml"); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if !strings.Contains(f.completer.lastSystem, "Write the summary in Malayalam.") {
		t.Errorf("system prompt = %q, missing Malayalam directive", f.completer.lastSystem)
	}
}

func TestGenerateShortTextSkipsModel(t *testing.T) {
	f := newFixture(t)
	docID := uuid.New()
	expectStore(f, docID, "Document content is too short to summarize.")

	summary, err := f.sys.Generate(context.Background(), docID, "too short", "en")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if f.completer.calls != 0 {
		t.Errorf("model calls = %d, want 0", f.completer.calls)
	}
	if summary.Summary != "Document content is too short to summarize." {
		t.Errorf("summary = %q", summary.Summary)
	}
}

func TestGenerateTruncatesLongInput(t *testing.T) {
	f := newFixture(t)
	docID := uuid.New()
	expectStore(f, docID, "A concise summary.")

	long := strings.Repeat("x", 60000)
	if _, err := f.sys.Generate(context.Background(), docID, long, "en"); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if got := len([]rune(f.completer.lastPrompt)); got != 50000 {
		t.Errorf("prompt runes = %d, want 50000", got)
	}
}

func TestGenerateModelFailure(t *testing.T) {
	f := newFixture(t)
	f.completer.err = errors.New("provider down")

	_, err := f.sys.Generate(context.Background(), uuid.New(), "A long enough document text.", "en")
	if err == nil {
		t.Fatal("expected error when the model fails")
	}
}

func TestRegenerateFromSections(t *testing.T) {
	f := newFixture(t)
	docID := uuid.New()

	lang := "en"
	f.docs.doc = &documents.Document{ID: docID, Language: &lang}
	f.sections.list = []sections.Section{
		{Content: "First stored section."},
		{Content: "Second stored section."},
	}

	expectStore(f, docID, "A concise summary.")

	summary, err := f.sys.Regenerate(context.Background(), docID)
	if err != nil {
		t.Fatalf("Regenerate error: %v", err)
	}

	if summary.Summary != "A concise summary." {
		t.Errorf("summary = %q", summary.Summary)
	}
	if !strings.Contains(f.completer.lastPrompt, "First stored section.") ||
		!strings.Contains(f.completer.lastPrompt, "Second stored section.") {
		t.Errorf("prompt should join stored sections: %q", f.completer.lastPrompt)
	}
}

func TestRegenerateNoSections(t *testing.T) {
	f := newFixture(t)
	f.docs.doc = &documents.Document{ID: uuid.New()}

	_, err := f.sys.Regenerate(context.Background(), uuid.New())
	if !errors.Is(err, summaries.ErrNoContent) {
		t.Errorf("error = %v, want ErrNoContent", err)
	}
}

func TestBatchLimits(t *testing.T) {
	f := newFixture(t)

	if _, err := f.sys.Batch(context.Background(), nil); err == nil {
		t.Error("expected error for empty batch")
	}

	ids := make([]uuid.UUID, 11)
	for i := range ids {
		ids[i] = uuid.New()
	}
	if _, err := f.sys.Batch(context.Background(), ids); !errors.Is(err, summaries.ErrBatchTooLarge) {
		t.Errorf("error = %v, want ErrBatchTooLarge", err)
	}
}

func TestBatchReportsPerDocumentFailures(t *testing.T) {
	f := newFixture(t)
	docID := uuid.New()

	f.docs.doc = &documents.Document{ID: docID}
	f.sections.err = errors.New("sections unavailable")

	entries, err := f.sys.Batch(context.Background(), []uuid.UUID{docID})
	if err != nil {
		t.Fatalf("Batch error: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Error == "" {
		t.Error("entry should carry the failure message")
	}
	if entries[0].Summary != nil {
		t.Error("failed entry should not carry a summary")
	}
}
