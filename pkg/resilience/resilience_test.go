package resilience_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/switchyard-io/switchyard/pkg/resilience"
)

func testExecutor(cfg resilience.Config) *resilience.Executor {
	return resilience.NewExecutor(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func retryAll(error) resilience.ErrorClassification {
	return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
}

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	exec := testExecutor(resilience.Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: "1ms",
		RetryMaxBackoff:     "2ms",
	})

	attempts := 0
	err := exec.Execute(context.Background(), "flaky", func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, retryAll)

	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestExecuteStopsOnPermanentError(t *testing.T) {
	exec := testExecutor(resilience.Config{
		RetryMaxAttempts:    5,
		RetryInitialBackoff: "1ms",
	})

	permanent := errors.New("bad request")
	attempts := 0

	err := exec.Execute(context.Background(), "permanent", func(ctx context.Context) error {
		attempts++
		return permanent
	}, func(error) resilience.ErrorClassification {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	})

	if !errors.Is(err, permanent) {
		t.Errorf("error = %v, want the permanent error", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestExecuteExhaustsAttempts(t *testing.T) {
	exec := testExecutor(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: "1ms",
	})

	attempts := 0
	err := exec.Execute(context.Background(), "always-failing", func(ctx context.Context) error {
		attempts++
		return errors.New("transient")
	}, retryAll)

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestExecuteHonorsContextCancellation(t *testing.T) {
	exec := testExecutor(resilience.Config{
		RetryMaxAttempts:    10,
		RetryInitialBackoff: "50ms",
	})

	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := exec.Execute(ctx, "cancelled", func(ctx context.Context) error {
		attempts++
		cancel()
		return errors.New("transient")
	}, retryAll)

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	exec := testExecutor(resilience.Config{
		RetryMaxAttempts:    1,
		RetryInitialBackoff: "1ms",
		BreakerEnabled:      true,
		BreakerMinRequests:  2,
		BreakerFailureRatio: 0.5,
		BreakerOpenTimeout:  "1m",
	})

	fail := func(ctx context.Context) error { return errors.New("down") }

	for range 3 {
		exec.Execute(context.Background(), "breaker-op", fail, retryAll)
	}

	err := exec.Execute(context.Background(), "breaker-op", fail, retryAll)
	if !resilience.IsCircuitOpen(err) {
		t.Errorf("error = %v, want open circuit", err)
	}
}
