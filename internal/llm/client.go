// Package llm provides the language model collaborator used for
// summarization, translation, question answering, and embeddings. All
// calls run behind a rate limiter and a retry/circuit-breaker executor.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/switchyard-io/switchyard/pkg/resilience"
)

// System defines the public contract for language model operations.
type System interface {
	// Complete sends a chat completion request and returns the trimmed
	// response content.
	Complete(ctx context.Context, req CompleteRequest) (string, error)

	// Embed returns one embedding vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Available reports whether the provider is reachable.
	Available(ctx context.Context) bool

	// Dimensions returns the configured embedding vector width.
	Dimensions() int
}

// CompleteRequest carries a single chat completion. Zero values fall back
// to the configured defaults.
type CompleteRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

type client struct {
	api     *openai.Client
	cfg     Config
	timeout time.Duration
	exec    *resilience.Executor
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a language model client from a finalized config.
func New(cfg Config, logger *slog.Logger) (System, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: api_key required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	log := logger.With("system", "llm")

	return &client{
		api:     openai.NewClientWithConfig(clientConfig),
		cfg:     cfg,
		timeout: cfg.TimeoutDuration(),
		exec:    resilience.NewExecutor(cfg.Resilience, log),
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 5),
		logger:  log,
	}, nil
}

func (c *client) Dimensions() int {
	return c.cfg.EmbedDimensions
}

func (c *client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := c.api.ListModels(ctx); err != nil {
		c.logger.WarnContext(ctx, "provider unavailable", "error", err)
		return false
	}
	return true
}

func (c *client) Complete(ctx context.Context, req CompleteRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", ErrEmptyPrompt
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.cfg.MaxTokens
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = float32(c.cfg.Temperature)
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	var content string
	err := c.exec.Execute(ctx, "chat-completion", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.cfg.Model,
			Messages:    messages,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return ErrEmptyResponse
		}

		content = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	}, ClassifyError)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

func (c *client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var vectors [][]float32
	err := c.exec.Execute(ctx, "embeddings", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input:      texts,
			Model:      openai.EmbeddingModel(c.cfg.EmbedModel),
			Dimensions: c.cfg.EmbedDimensions,
		})
		if err != nil {
			return err
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("embedding count mismatch: got %d, want %d", len(resp.Data), len(texts))
		}

		vectors = make([][]float32, len(texts))
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(vectors) {
				return fmt.Errorf("embedding index %d out of range", d.Index)
			}
			vectors[d.Index] = d.Embedding
		}
		return nil
	}, ClassifyError)
	if err != nil {
		return nil, fmt.Errorf("embeddings: %w", err)
	}

	return vectors, nil
}
