package llm

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/switchyard-io/switchyard/pkg/resilience"
)

// Domain errors for language model operations.
var (
	ErrEmptyPrompt   = errors.New("prompt is empty")
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// ClassifyError maps provider errors to a resilience classification:
// cancellations never retry, rate limits and 5xx responses retry and
// count against the breaker, other API errors are permanent.
func ClassifyError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if isRetryableStatus(apiErr.HTTPStatusCode) {
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		}
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
