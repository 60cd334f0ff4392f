package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Remote calls an NLP sidecar over HTTP for full named-entity recognition
// and pattern extraction. The sidecar owns the model lifecycle; this
// adapter only carries text across the wire.
type Remote struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemote creates a Remote extractor for the given base URL. A nil
// client gets a 15 second timeout default.
func NewRemote(baseURL string, client *http.Client) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Remote{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

type extractRequest struct {
	Text string `json:"text"`
}

type extractResponse struct {
	Entities map[string][]string `json:"entities"`
	Patterns map[string][]string `json:"patterns"`
}

// ExtractEntities returns named entities grouped by category.
func (r *Remote) ExtractEntities(ctx context.Context, text string) (map[string][]string, error) {
	resp, err := r.post(ctx, "/entities", text)
	if err != nil {
		return nil, err
	}
	return resp.Entities, nil
}

// ExtractPatterns returns lexical pattern matches grouped by label.
func (r *Remote) ExtractPatterns(ctx context.Context, text string) (map[string][]string, error) {
	resp, err := r.post(ctx, "/patterns", text)
	if err != nil {
		return nil, err
	}
	return resp.Patterns, nil
}

func (r *Remote) post(ctx context.Context, path, text string) (*extractResponse, error) {
	body, err := json.Marshal(extractRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal extract request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extractor request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, formatHTTPError(resp)
	}

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode extract response: %w", err)
	}

	return &out, nil
}

func formatHTTPError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("extractor status: %s", resp.Status)
	}
	return fmt.Errorf("extractor status: %s: %s", resp.Status, msg)
}
