// Package ask answers questions over the document archive: the question
// is embedded, the nearest stored sections are retrieved from pgvector,
// and the language model composes an answer grounded in those sections.
package ask

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/switchyard-io/switchyard/internal/llm"
	"github.com/switchyard-io/switchyard/internal/prompts"
	"github.com/switchyard-io/switchyard/internal/sections"
)

const (
	minQuestionRunes = 3
	maxQuestionRunes = 1000

	// retrievalLimit is the number of sections handed to the model.
	retrievalLimit = 3

	// Question embeddings are memoized so repeated questions skip the
	// embedding call.
	embedCacheTTL     = 10 * time.Minute
	embedCacheCleanup = 30 * time.Minute
)

// noContextAnswer is returned when retrieval finds nothing to ground an
// answer in.
const noContextAnswer = "The archive does not contain any indexed content to answer this question."

// Model is the slice of the language model client used here.
type Model interface {
	Complete(ctx context.Context, req llm.CompleteRequest) (string, error)
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Searcher retrieves the stored sections nearest to a query embedding.
type Searcher interface {
	Search(ctx context.Context, embedding []float32, limit int, documentIDs []uuid.UUID) ([]sections.Match, error)
}

// InstructionSource resolves the effective instructions for a stage.
type InstructionSource interface {
	Instructions(ctx context.Context, stage prompts.Stage) (string, error)
}

// Request carries one question, optionally scoped to specific documents.
type Request struct {
	Question    string      `json:"question"`
	DocumentIDs []uuid.UUID `json:"document_ids,omitempty"`
}

// Citation points at one section that grounded the answer.
type Citation struct {
	DocumentID   uuid.UUID `json:"document_id"`
	SectionIndex int       `json:"section_index"`
	Similarity   float64   `json:"similarity"`
}

// Answer is the outcome of one question.
type Answer struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// System defines the public contract for question answering.
type System interface {
	Handler() *Handler
	Ask(ctx context.Context, req Request) (*Answer, error)
}

type asker struct {
	llm      Model
	searcher Searcher
	prompts  InstructionSource
	cache    *gocache.Cache
	logger   *slog.Logger
}

// New creates a question answering system over the language model and
// section store.
func New(model Model, searcher Searcher, source InstructionSource, logger *slog.Logger) System {
	return &asker{
		llm:      model,
		searcher: searcher,
		prompts:  source,
		cache:    gocache.New(embedCacheTTL, embedCacheCleanup),
		logger:   logger.With("system", "ask"),
	}
}

func (a *asker) Handler() *Handler {
	return NewHandler(a, a.logger)
}

func (a *asker) Ask(ctx context.Context, req Request) (*Answer, error) {
	question := strings.TrimSpace(req.Question)
	if utf8.RuneCountInString(question) < minQuestionRunes {
		return nil, fmt.Errorf("%w: minimum %d characters", ErrQuestionTooShort, minQuestionRunes)
	}
	if utf8.RuneCountInString(question) > maxQuestionRunes {
		return nil, fmt.Errorf("%w: maximum %d characters", ErrQuestionTooLong, maxQuestionRunes)
	}

	embedding, err := a.questionEmbedding(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	matches, err := a.searcher.Search(ctx, embedding, retrievalLimit, req.DocumentIDs)
	if err != nil {
		return nil, fmt.Errorf("retrieve sections: %w", err)
	}

	if len(matches) == 0 {
		a.logger.InfoContext(ctx, "no sections retrieved", "question_length", len(question))
		return &Answer{Answer: noContextAnswer, Citations: []Citation{}}, nil
	}

	instructions, err := a.prompts.Instructions(ctx, prompts.StageAnswer)
	if err != nil {
		return nil, fmt.Errorf("resolve answer instructions: %w", err)
	}

	answer, err := a.llm.Complete(ctx, llm.CompleteRequest{
		System: instructions,
		Prompt: composePrompt(question, matches),
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	citations := make([]Citation, len(matches))
	for i, m := range matches {
		citations[i] = Citation{
			DocumentID:   m.DocumentID,
			SectionIndex: m.SectionIndex,
			Similarity:   m.Similarity,
		}
	}

	a.logger.InfoContext(ctx, "question answered", "citations", len(citations))
	return &Answer{Answer: answer, Citations: citations}, nil
}

func (a *asker) questionEmbedding(ctx context.Context, question string) ([]float32, error) {
	if cached, ok := a.cache.Get(question); ok {
		return cached.([]float32), nil
	}

	vectors, err := a.llm.Embed(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected one embedding, got %d", len(vectors))
	}

	a.cache.SetDefault(question, vectors[0])
	return vectors[0], nil
}

func composePrompt(question string, matches []sections.Match) string {
	var b strings.Builder
	b.WriteString("Context sections:\n")
	for i, m := range matches {
		fmt.Fprintf(&b, "\n[%d] %s\n", i+1, m.Content)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
