package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b := NewCircuitBreaker(2, 5*time.Second, 1)

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_ExecuteRecordsOutcome(t *testing.T) {
	b := NewCircuitBreaker(1, time.Minute, 1)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	sendErr := errors.New("ses throttled")
	if err := b.Execute(func() error { return sendErr }); !errors.Is(err, sendErr) {
		t.Fatalf("expected send error, got %v", err)
	}
	calls := 0
	if err := b.Execute(func() error { calls++; return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("fn must not run while open")
	}
}

func TestCircuitBreaker_NilAndDisabledPassThrough(t *testing.T) {
	var b *CircuitBreaker
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("nil breaker should allow: %v", err)
	}
	if got := NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: false}); got != nil {
		t.Fatalf("disabled config should yield nil breaker")
	}
	if got := NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: true}); got == nil || got.failureThreshold != 5 {
		t.Fatalf("enabled config should apply defaults, got %+v", got)
	}
}
