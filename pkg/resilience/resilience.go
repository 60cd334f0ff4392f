// Package resilience wraps outbound calls with retry and per-operation
// circuit breaking. Callers classify errors so that permanent failures
// neither retry nor trip the breaker.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrorClassification tells the executor how to treat a failure.
// Retryable errors are attempted again with backoff; RecordFailure
// errors count toward the circuit breaker's failure ratio.
type ErrorClassification struct {
	Retryable     bool
	RecordFailure bool
}

// ErrorClassifier maps an error to its classification.
type ErrorClassifier func(err error) ErrorClassification

// Executor runs operations with retry and a lazily created circuit
// breaker per operation name. Safe for concurrent use.
type Executor struct {
	policy policy
	logger *slog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

// NewExecutor creates an Executor with the given config and logger.
func NewExecutor(cfg Config, logger *slog.Logger) *Executor {
	return &Executor{
		policy:   cfg.normalize(),
		logger:   logger.With("system", "resilience"),
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

// Execute runs fn under the operation's circuit breaker, retrying
// failures the classifier marks retryable. A nil classifier treats every
// error as permanent but recorded.
func (e *Executor) Execute(
	ctx context.Context,
	operation string,
	fn func(context.Context) error,
	classifier ErrorClassifier,
) error {
	if fn == nil {
		return fmt.Errorf("resilience: operation callback is nil")
	}
	if classifier == nil {
		classifier = defaultClassifier
	}

	if !e.policy.breakerEnabled {
		return e.executeWithRetry(ctx, operation, fn, classifier)
	}

	breaker := e.circuitBreaker(operation, classifier)
	_, err := breaker.Execute(func() (any, error) {
		return nil, e.executeWithRetry(ctx, operation, fn, classifier)
	})
	return err
}

func (e *Executor) executeWithRetry(
	ctx context.Context,
	operation string,
	fn func(context.Context) error,
	classifier ErrorClassifier,
) error {
	backoff := e.policy.retryInitialBackoff

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}

		class := classifier(err)
		if !class.Retryable || attempt == e.policy.retryMaxAttempts {
			return err
		}

		wait := backoff
		if wait > e.policy.retryMaxBackoff {
			wait = e.policy.retryMaxBackoff
		}

		e.logger.Warn(
			"retrying operation",
			"operation", operation,
			"attempt", attempt,
			"max_attempts", e.policy.retryMaxAttempts,
			"backoff", wait,
			"error", err,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * e.policy.retryMultiplier)
		if backoff > e.policy.retryMaxBackoff {
			backoff = e.policy.retryMaxBackoff
		}
	}
}

func (e *Executor) circuitBreaker(operation string, classifier ErrorClassifier) *gobreaker.CircuitBreaker[any] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if breaker, ok := e.breakers[operation]; ok {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        operation,
		MaxRequests: e.policy.breakerHalfOpenMaxCalls,
		Timeout:     e.policy.breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < e.policy.breakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= e.policy.breakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return !classifier(err).RecordFailure
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Warn(
				"circuit breaker state change",
				"operation", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	breaker := gobreaker.NewCircuitBreaker[any](settings)
	e.breakers[operation] = breaker
	return breaker
}

// IsCircuitOpen reports whether err came from an open or saturated breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func defaultClassifier(error) ErrorClassification {
	return ErrorClassification{Retryable: false, RecordFailure: true}
}
