package cache

import (
	"errors"
	"testing"
	"time"
)

func testBreaker(cooldown time.Duration) *CircuitBreaker {
	return NewCircuitBreaker(BreakerConfig{
		MaxFailures:      3,
		Cooldown:         cooldown,
		HalfOpenMaxCalls: 2,
	})
}

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	cb := testBreaker(time.Second)

	for i := 0; i < 10; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	if cb.State() != BreakerClosed {
		t.Errorf("Expected closed state, got %v", cb.State())
	}
}

func TestBreakerOpensAfterMaxFailures(t *testing.T) {
	cb := testBreaker(time.Minute)
	failure := errors.New("redis down")

	for i := 0; i < 3; i++ {
		cb.Execute(func() error { return failure })
	}

	if cb.State() != BreakerOpen {
		t.Fatalf("Expected open state, got %v", cb.State())
	}

	err := cb.Execute(func() error {
		t.Error("Function should not run while breaker is open")
		return nil
	})
	if err != ErrBreakerOpen {
		t.Errorf("Expected ErrBreakerOpen, got %v", err)
	}
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := testBreaker(time.Minute)
	failure := errors.New("redis down")

	cb.Execute(func() error { return failure })
	cb.Execute(func() error { return failure })
	cb.Execute(func() error { return nil })
	cb.Execute(func() error { return failure })
	cb.Execute(func() error { return failure })

	if cb.State() != BreakerClosed {
		t.Errorf("Expected closed state after interleaved successes, got %v", cb.State())
	}
}

func TestBreakerRecoversAfterCooldown(t *testing.T) {
	cb := testBreaker(10 * time.Millisecond)
	failure := errors.New("redis down")

	for i := 0; i < 3; i++ {
		cb.Execute(func() error { return failure })
	}
	if cb.State() != BreakerOpen {
		t.Fatalf("Expected open state, got %v", cb.State())
	}

	time.Sleep(20 * time.Millisecond)

	// Enough successes in half-open close the breaker again.
	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("Expected call to pass after cooldown, got %v", err)
	}
	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("Expected call to pass in half-open, got %v", err)
	}

	if cb.State() != BreakerClosed {
		t.Errorf("Expected closed state after recovery, got %v", cb.State())
	}
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := testBreaker(10 * time.Millisecond)
	failure := errors.New("redis down")

	for i := 0; i < 3; i++ {
		cb.Execute(func() error { return failure })
	}

	time.Sleep(20 * time.Millisecond)

	cb.Execute(func() error { return nil })
	cb.Execute(func() error { return failure })

	if cb.State() != BreakerOpen {
		t.Errorf("Expected open state after half-open failure, got %v", cb.State())
	}
}

func TestBreakerStats(t *testing.T) {
	cb := testBreaker(time.Minute)

	stats := cb.Stats()
	if stats["state"] != "closed" {
		t.Errorf("Expected closed, got %v", stats["state"])
	}

	failure := errors.New("redis down")
	for i := 0; i < 3; i++ {
		cb.Execute(func() error { return failure })
	}

	stats = cb.Stats()
	if stats["state"] != "open" {
		t.Errorf("Expected open, got %v", stats["state"])
	}
	if stats["failure_count"].(int) != 3 {
		t.Errorf("Expected 3 failures, got %v", stats["failure_count"])
	}
}

func TestGuardedCacheMissIsNotFailure(t *testing.T) {
	mrCache, _ := setupTestCache(t)
	guarded := NewGuardedCache(mrCache, BreakerConfig{
		MaxFailures:      2,
		Cooldown:         time.Minute,
		HalfOpenMaxCalls: 1,
	})

	var dest testPayload
	for i := 0; i < 10; i++ {
		if err := guarded.Get("missing", &dest); err != ErrCacheMiss {
			t.Fatalf("Expected ErrCacheMiss, got %v", err)
		}
	}

	if guarded.Health() != nil {
		t.Error("Expected guarded cache to stay healthy through misses")
	}
}

func TestGuardedCacheFailsFastWhenRedisDies(t *testing.T) {
	mrCache, mr := setupTestCache(t)
	guarded := NewGuardedCache(mrCache, BreakerConfig{
		MaxFailures:      2,
		Cooldown:         time.Minute,
		HalfOpenMaxCalls: 1,
	})

	mr.Close()

	var dest testPayload
	guarded.Get("key", &dest)
	guarded.Get("key", &dest)

	if err := guarded.Get("key", &dest); err != ErrCacheDown {
		t.Errorf("Expected ErrCacheDown once breaker opened, got %v", err)
	}

	if guarded.Health() != ErrCacheDown {
		t.Error("Expected guarded health to report cache down")
	}
}
