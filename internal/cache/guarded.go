package cache

import "time"

// GuardedCache wraps a Cache with a circuit breaker so a dead redis
// degrades into fast cache misses instead of per-request timeouts.
type GuardedCache struct {
	inner   Cache
	breaker *CircuitBreaker
}

func NewGuardedCache(inner Cache, cfg BreakerConfig) *GuardedCache {
	return &GuardedCache{
		inner:   inner,
		breaker: NewCircuitBreaker(cfg),
	}
}

func (g *GuardedCache) Set(key string, value interface{}, ttl time.Duration) error {
	return g.breaker.Execute(func() error {
		return g.inner.Set(key, value, ttl)
	})
}

func (g *GuardedCache) Get(key string, dest interface{}) error {
	var err error
	execErr := g.breaker.Execute(func() error {
		err = g.inner.Get(key, dest)
		if err == ErrCacheMiss {
			// A miss is a healthy answer, not a failure.
			return nil
		}
		return err
	})
	if execErr == ErrBreakerOpen {
		return ErrCacheDown
	}
	if err != nil {
		return err
	}
	return execErr
}

func (g *GuardedCache) Delete(key string) error {
	return g.breaker.Execute(func() error {
		return g.inner.Delete(key)
	})
}

func (g *GuardedCache) DeletePattern(pattern string) error {
	return g.breaker.Execute(func() error {
		return g.inner.DeletePattern(pattern)
	})
}

func (g *GuardedCache) Exists(key string) (bool, error) {
	var found bool
	err := g.breaker.Execute(func() error {
		var innerErr error
		found, innerErr = g.inner.Exists(key)
		return innerErr
	})
	return found, err
}

func (g *GuardedCache) Stats() map[string]interface{} {
	stats := g.inner.Stats()
	stats["circuit_breaker"] = g.breaker.Stats()
	return stats
}

func (g *GuardedCache) Health() error {
	if g.breaker.State() == BreakerOpen {
		return ErrCacheDown
	}
	return g.inner.Health()
}

func (g *GuardedCache) Close() error {
	return g.inner.Close()
}

var _ Cache = (*GuardedCache)(nil)
