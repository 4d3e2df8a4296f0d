package middleware

import (
	"errors"
	"testing"
	"time"

	"github.com/flowforge/engine/pkg/executor"
	"github.com/flowforge/engine/pkg/types"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		BackoffFactor:  2.0,
	}
}

func TestRetryMiddleware_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	mw := NewRetryMiddlewareWithConfig(fastRetryConfig())

	handler := func(ctx executor.ExecutionContext, node types.Node, input interface{}) (interface{}, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection refused")
		}
		return "ok", nil
	}

	result, err := mw.Process(nil, types.Node{}, nil, handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %v, want ok", result)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryMiddleware_ExhaustsRetriesAndReturnsError(t *testing.T) {
	attempts := 0
	mw := NewRetryMiddlewareWithConfig(fastRetryConfig())

	handler := func(ctx executor.ExecutionContext, node types.Node, input interface{}) (interface{}, error) {
		attempts++
		return nil, errors.New("boom")
	}

	_, err := mw.Process(nil, types.Node{}, nil, handler)
	if err == nil {
		t.Fatal("expected an error once retries are exhausted")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3 (1 + MaxRetries)", attempts)
	}
}

func TestConditionalRetryMiddleware_RetriesOnlyMatchingErrors(t *testing.T) {
	attempts := 0
	mw := NewConditionalRetryMiddlewareWithConfig(fastRetryConfig(), []string{"connection refused", "i/o timeout"})

	handler := func(ctx executor.ExecutionContext, node types.Node, input interface{}) (interface{}, error) {
		attempts++
		return nil, errors.New("validation failed: missing field")
	}

	_, err := mw.Process(nil, types.Node{}, nil, handler)
	if err == nil {
		t.Fatal("expected the non-retryable error to surface")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1: a non-retryable error must not be retried", attempts)
	}
}

func TestConditionalRetryMiddleware_RetriesMatchingErrorUntilSuccess(t *testing.T) {
	attempts := 0
	mw := NewConditionalRetryMiddlewareWithConfig(fastRetryConfig(), []string{"connection refused"})

	handler := func(ctx executor.ExecutionContext, node types.Node, input interface{}) (interface{}, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("dial tcp: connection refused")
		}
		return "ok", nil
	}

	result, err := mw.Process(nil, types.Node{}, nil, handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %v, want ok", result)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}
