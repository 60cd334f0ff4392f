// Package translation implements bilingual English/Malayalam translation
// through the language model collaborator. Links are protected by opaque
// placeholders and long texts are chunked at paragraph boundaries.
package translation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/switchyard-io/switchyard/internal/llm"
	"github.com/switchyard-io/switchyard/internal/prompts"
)

// maxTextRunes caps the total text accepted for one translation request.
const maxTextRunes = 50000

// Completer is the slice of the language model client used here.
type Completer interface {
	Complete(ctx context.Context, req llm.CompleteRequest) (string, error)
}

// InstructionSource resolves the effective instructions for a stage.
type InstructionSource interface {
	Instructions(ctx context.Context, stage prompts.Stage) (string, error)
}

// Request carries one translation request.
type Request struct {
	Text      string    `json:"text"`
	Direction Direction `json:"direction,omitempty"`
}

// Translation is the outcome of one translation request.
type Translation struct {
	Direction      Direction `json:"direction"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	Text           string    `json:"text"`
	Chunks         int       `json:"chunks"`
}

// System defines the public contract for translation operations.
type System interface {
	Handler() *Handler

	// Translate converts text between English and Malayalam. An empty
	// direction is inferred from the script of the input.
	Translate(ctx context.Context, req Request) (*Translation, error)
}

type translator struct {
	llm     Completer
	prompts InstructionSource
	logger  *slog.Logger
}

// New creates a translation system over the language model collaborator.
func New(completer Completer, source InstructionSource, logger *slog.Logger) System {
	return &translator{
		llm:     completer,
		prompts: source,
		logger:  logger.With("system", "translation"),
	}
}

func (t *translator) Handler() *Handler {
	return NewHandler(t, t.logger)
}

func (t *translator) Translate(ctx context.Context, req Request) (*Translation, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if utf8.RuneCountInString(text) > maxTextRunes {
		return nil, fmt.Errorf("%w: limit %d runes", ErrTextTooLarge, maxTextRunes)
	}

	direction := req.Direction
	if direction == "" {
		direction = DetectDirection(text)
	}
	if !direction.Valid() {
		return nil, ErrInvalidDirection
	}

	instructions, err := t.prompts.Instructions(ctx, prompts.StageTranslate)
	if err != nil {
		return nil, fmt.Errorf("resolve translate instructions: %w", err)
	}

	system := fmt.Sprintf(
		"%s\n\nTranslate from %s to %s.",
		instructions,
		languageName(direction.Source()),
		languageName(direction.Target()),
	)

	protected, links := protectLinks(text)
	chunks := chunkText(protected, chunkRunes)

	translated := make([]string, len(chunks))
	for i, chunk := range chunks {
		out, err := t.llm.Complete(ctx, llm.CompleteRequest{
			System: system,
			Prompt: chunk,
		})
		if err != nil {
			return nil, fmt.Errorf("translate chunk %d/%d: %w", i+1, len(chunks), err)
		}
		translated[i] = out
	}

	restored, err := restoreLinks(strings.Join(translated, "\n\n"), links)
	if err != nil {
		return nil, err
	}

	t.logger.InfoContext(ctx, "translation complete",
		"direction", direction,
		"chunks", len(chunks),
		"links", len(links),
	)

	return &Translation{
		Direction:      direction,
		SourceLanguage: direction.Source(),
		TargetLanguage: direction.Target(),
		Text:           restored,
		Chunks:         len(chunks),
	}, nil
}

func languageName(code string) string {
	if code == LanguageMalayalam {
		return "Malayalam"
	}
	return "English"
}
