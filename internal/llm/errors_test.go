package llm_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/switchyard-io/switchyard/internal/llm"
	"github.com/switchyard-io/switchyard/pkg/resilience"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want resilience.ErrorClassification
	}{
		{
			name: "nil",
			err:  nil,
			want: resilience.ErrorClassification{},
		},
		{
			name: "context canceled",
			err:  context.Canceled,
			want: resilience.ErrorClassification{Retryable: false, RecordFailure: false},
		},
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: resilience.ErrorClassification{Retryable: false, RecordFailure: false},
		},
		{
			name: "rate limited",
			err:  &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "rate limited"},
			want: resilience.ErrorClassification{Retryable: true, RecordFailure: true},
		},
		{
			name: "server error",
			err:  &openai.APIError{HTTPStatusCode: http.StatusInternalServerError, Message: "boom"},
			want: resilience.ErrorClassification{Retryable: true, RecordFailure: true},
		},
		{
			name: "bad request",
			err:  &openai.APIError{HTTPStatusCode: http.StatusBadRequest, Message: "invalid model"},
			want: resilience.ErrorClassification{Retryable: false, RecordFailure: false},
		},
		{
			name: "network timeout",
			err:  &net.DNSError{Err: "timeout", IsTimeout: true},
			want: resilience.ErrorClassification{Retryable: true, RecordFailure: true},
		},
		{
			name: "unknown",
			err:  errors.New("unexpected"),
			want: resilience.ErrorClassification{Retryable: false, RecordFailure: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := llm.ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
