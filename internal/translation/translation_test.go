package translation_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/switchyard-io/switchyard/internal/llm"
	"github.com/switchyard-io/switchyard/internal/prompts"
	"github.com/switchyard-io/switchyard/internal/translation"
)

type fakeCompleter struct {
	fn    func(req llm.CompleteRequest) (string, error)
	calls []llm.CompleteRequest
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.CompleteRequest) (string, error) {
	f.calls = append(f.calls, req)
	if f.fn != nil {
		return f.fn(req)
	}
	return req.Prompt, nil
}

type fakeInstructions struct {
	text string
	err  error
}

func (f *fakeInstructions) Instructions(ctx context.Context, stage prompts.Stage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSystem(completer *fakeCompleter) translation.System {
	return translation.New(completer, &fakeInstructions{text: "Translate faithfully."}, testLogger())
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "quarterly procurement report", "en"},
		{"malayalam", "ടെൻഡർ അറിയിപ്പ്", "ml"},
		{"mixed scripts", "Tender notice ടെൻഡർ", "ml"},
		{"empty", "", "en"},
		{"numbers only", "12345", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translation.DetectLanguage(tt.text); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDirection(t *testing.T) {
	if src := translation.DirectionEN2ML.Source(); src != "en" {
		t.Errorf("en2ml source = %q, want en", src)
	}
	if tgt := translation.DirectionEN2ML.Target(); tgt != "ml" {
		t.Errorf("en2ml target = %q, want ml", tgt)
	}
	if src := translation.DirectionML2EN.Source(); src != "ml" {
		t.Errorf("ml2en source = %q, want ml", src)
	}
	if translation.Direction("fr2en").Valid() {
		t.Error("fr2en should not be valid")
	}
}

func TestTranslate(t *testing.T) {
	completer := &fakeCompleter{fn: func(req llm.CompleteRequest) (string, error) {
		return "translated: " + req.Prompt, nil
	}}
	sys := newSystem(completer)

	result, err := sys.Translate(context.Background(), translation.Request{
		Text: "tender notice for track maintenance",
	})
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}

	if result.Direction != translation.DirectionEN2ML {
		t.Errorf("direction = %s, want en2ml (inferred)", result.Direction)
	}
	if result.SourceLanguage != "en" || result.TargetLanguage != "ml" {
		t.Errorf("languages = %s->%s, want en->ml", result.SourceLanguage, result.TargetLanguage)
	}
	if result.Chunks != 1 {
		t.Errorf("chunks = %d, want 1", result.Chunks)
	}
	if !strings.Contains(result.Text, "translated:") {
		t.Errorf("text = %q, missing model output", result.Text)
	}

	if len(completer.calls) != 1 {
		t.Fatalf("model calls = %d, want 1", len(completer.calls))
	}
	if !strings.Contains(completer.calls[0].System, "Malayalam") {
		t.Errorf("system prompt should name the target language: %q", completer.calls[0].System)
	}
	if !strings.Contains(completer.calls[0].System, "Translate faithfully.") {
		t.Error("system prompt should carry the stage instructions")
	}
}

func TestTranslateInfersMalayalamSource(t *testing.T) {
	completer := &fakeCompleter{}
	sys := newSystem(completer)

	result, err := sys.Translate(context.Background(), translation.Request{
		Text: "ഈ രേഖ പരിശോധിക്കുക",
	})
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if result.Direction != translation.DirectionML2EN {
		t.Errorf("direction = %s, want ml2en", result.Direction)
	}
}

func TestTranslatePreservesLinks(t *testing.T) {
	// Echo the prompt so placeholders survive the "model".
	completer := &fakeCompleter{}
	sys := newSystem(completer)

	input := "see [the order](https://example.com/order.pdf) for scope"
	result, err := sys.Translate(context.Background(), translation.Request{Text: input})
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}

	if !strings.Contains(result.Text, "[the order](https://example.com/order.pdf)") {
		t.Errorf("text = %q, link not restored", result.Text)
	}
	if strings.Contains(completer.calls[0].Prompt, "example.com") {
		t.Error("model prompt should not contain the raw link")
	}
}

func TestTranslateDroppedPlaceholder(t *testing.T) {
	completer := &fakeCompleter{fn: func(req llm.CompleteRequest) (string, error) {
		return "model output without any placeholder", nil
	}}
	sys := newSystem(completer)

	_, err := sys.Translate(context.Background(), translation.Request{
		Text: "see https://example.com/doc for details",
	})
	if !errors.Is(err, translation.ErrPlaceholderLost) {
		t.Errorf("error = %v, want ErrPlaceholderLost", err)
	}
}

func TestTranslateValidation(t *testing.T) {
	sys := newSystem(&fakeCompleter{})

	tests := []struct {
		name    string
		req     translation.Request
		wantErr error
	}{
		{"empty text", translation.Request{Text: "   "}, translation.ErrEmptyText},
		{"invalid direction", translation.Request{Text: "hello", Direction: "fr2en"}, translation.ErrInvalidDirection},
		{"too large", translation.Request{Text: strings.Repeat("x", 50001)}, translation.ErrTextTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sys.Translate(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTranslateChunksLongText(t *testing.T) {
	completer := &fakeCompleter{}
	sys := newSystem(completer)

	para := strings.Repeat("word ", 700) // ~3500 runes
	text := para + "\n\n" + para + "\n\n" + para

	result, err := sys.Translate(context.Background(), translation.Request{Text: text})
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}

	if result.Chunks < 2 {
		t.Errorf("chunks = %d, want >= 2", result.Chunks)
	}
	if len(completer.calls) != result.Chunks {
		t.Errorf("model calls = %d, want %d", len(completer.calls), result.Chunks)
	}
}

func TestHandlerTranslate(t *testing.T) {
	sys := newSystem(&fakeCompleter{})
	handler := sys.Handler()

	body, _ := json.Marshal(translation.Request{Text: "hello metro"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", bytes.NewReader(body))

	handler.Translate(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result translation.Translation
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.TargetLanguage != "ml" {
		t.Errorf("target = %s, want ml", result.TargetLanguage)
	}
}

func TestHandlerTranslateBadRequest(t *testing.T) {
	sys := newSystem(&fakeCompleter{})
	handler := sys.Handler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"text": ""}`))

	handler.Translate(rec, req)

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{translation.ErrEmptyText, 400},
		{translation.ErrInvalidDirection, 400},
		{translation.ErrTextTooLarge, 413},
		{translation.ErrPlaceholderLost, 502},
		{errors.New("anything else"), 500},
	}

	for _, tt := range tests {
		if got := translation.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
