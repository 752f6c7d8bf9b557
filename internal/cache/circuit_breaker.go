package cache

import (
	"errors"
	"sync"
	"time"
)

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

var ErrBreakerOpen = errors.New("circuit breaker is open")

// CircuitBreaker keeps a flapping redis from stalling every leaderboard
// request. After maxFailures consecutive errors the breaker opens and
// callers fail fast until the cooldown elapses.
type CircuitBreaker struct {
	mu              sync.RWMutex
	state           BreakerState
	failureCount    int
	successCount    int
	lastFailureTime time.Time

	maxFailures      int
	cooldown         time.Duration
	halfOpenMaxCalls int
}

type BreakerConfig struct {
	MaxFailures      int
	Cooldown         time.Duration
	HalfOpenMaxCalls int
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures:      5,
		Cooldown:         30 * time.Second,
		HalfOpenMaxCalls: 3,
	}
}

func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg = DefaultBreakerConfig()
	}

	return &CircuitBreaker{
		state:            BreakerClosed,
		maxFailures:      cfg.MaxFailures,
		cooldown:         cfg.Cooldown,
		halfOpenMaxCalls: cfg.HalfOpenMaxCalls,
	}
}

func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allow() {
		return ErrBreakerOpen
	}

	if err := fn(); err != nil {
		cb.recordFailure()
		return err
	}

	cb.recordSuccess()
	return nil
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	switch cb.state {
	case BreakerClosed:
		return true
	case BreakerOpen:
		return cb.cooldownElapsed()
	case BreakerHalfOpen:
		return cb.successCount < cb.halfOpenMaxCalls
	default:
		return false
	}
}

func (cb *CircuitBreaker) cooldownElapsed() bool {
	return time.Since(cb.lastFailureTime) >= cb.cooldown
}

func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailureTime = time.Now()

	switch cb.state {
	case BreakerClosed:
		if cb.failureCount >= cb.maxFailures {
			cb.state = BreakerOpen
		}
	case BreakerHalfOpen:
		cb.state = BreakerOpen
		cb.successCount = 0
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case BreakerClosed:
		cb.failureCount = 0
	case BreakerHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.halfOpenMaxCalls {
			cb.state = BreakerClosed
			cb.failureCount = 0
			cb.successCount = 0
		}
	case BreakerOpen:
		if cb.cooldownElapsed() {
			cb.state = BreakerHalfOpen
			cb.successCount = 1
		}
	}
}

func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

func (cb *CircuitBreaker) Stats() map[string]interface{} {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	stateName := "closed"
	switch cb.state {
	case BreakerOpen:
		stateName = "open"
	case BreakerHalfOpen:
		stateName = "half-open"
	}

	return map[string]interface{}{
		"state":            stateName,
		"failure_count":    cb.failureCount,
		"success_count":    cb.successCount,
		"last_failure":     cb.lastFailureTime.Unix(),
		"max_failures":     cb.maxFailures,
		"cooldown_seconds": cb.cooldown.Seconds(),
	}
}
