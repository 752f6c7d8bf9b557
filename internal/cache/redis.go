package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"volunteer-hub/backend/internal/config"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("cache miss")
	ErrCacheDown = errors.New("cache unavailable")
)

// Cache is the read-through cache the leaderboard and rank lookups sit
// behind. Implementations must treat the cache as disposable.
type Cache interface {
	Set(key string, value interface{}, ttl time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	DeletePattern(pattern string) error
	Exists(key string) (bool, error)
	Stats() map[string]interface{}
	Health() error
	Close() error
}

type RedisCache struct {
	client  *redis.Client
	ctx     context.Context
	metrics *CacheMetrics
}

func NewRedisCache(cfg config.RedisConfig, addr string) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	return &RedisCache{
		client:  rdb,
		ctx:     context.Background(),
		metrics: NewCacheMetrics(),
	}
}

// NewRedisCacheFromClient wraps an existing client; used by tests with
// miniredis.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		ctx:     context.Background(),
		metrics: NewCacheMetrics(),
	}
}

func (r *RedisCache) Set(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	ctx, cancel := context.WithTimeout(r.ctx, 3*time.Second)
	defer cancel()

	if err := r.client.Set(ctx, key, data, expiration).Err(); err != nil {
		r.metrics.RecordError()
		return fmt.Errorf("failed to set cache: %w", err)
	}

	r.metrics.RecordSet()
	return nil
}

func (r *RedisCache) Get(key string, dest interface{}) error {
	ctx, cancel := context.WithTimeout(r.ctx, 3*time.Second)
	defer cancel()

	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			r.metrics.RecordMiss()
			return ErrCacheMiss
		}
		r.metrics.RecordError()
		return fmt.Errorf("failed to get from cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		r.metrics.RecordError()
		return fmt.Errorf("failed to unmarshal cached data: %w", err)
	}

	r.metrics.RecordHit()
	return nil
}

func (r *RedisCache) Delete(key string) error {
	ctx, cancel := context.WithTimeout(r.ctx, 3*time.Second)
	defer cancel()

	r.metrics.RecordDelete()
	return r.client.Del(ctx, key).Err()
}

func (r *RedisCache) DeletePattern(pattern string) error {
	ctx, cancel := context.WithTimeout(r.ctx, 10*time.Second)
	defer cancel()

	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return fmt.Errorf("failed to get keys for pattern %s: %w", pattern, err)
	}

	if len(keys) > 0 {
		r.metrics.RecordDelete()
		return r.client.Del(ctx, keys...).Err()
	}

	return nil
}

func (r *RedisCache) Exists(key string) (bool, error) {
	ctx, cancel := context.WithTimeout(r.ctx, 3*time.Second)
	defer cancel()

	result, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}

	return result > 0, nil
}

func (r *RedisCache) Health() error {
	ctx, cancel := context.WithTimeout(r.ctx, 2*time.Second)
	defer cancel()

	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Stats() map[string]interface{} {
	poolStats := r.client.PoolStats()
	metrics := r.metrics.GetStats()

	return map[string]interface{}{
		"hits":          metrics.Hits,
		"misses":        metrics.Misses,
		"errors":        metrics.Errors,
		"sets":          metrics.Sets,
		"deletes":       metrics.Deletes,
		"hit_rate":      r.metrics.HitRate(),
		"pool_hits":     poolStats.Hits,
		"pool_misses":   poolStats.Misses,
		"pool_timeouts": poolStats.Timeouts,
		"pool_total":    poolStats.TotalConns,
		"pool_idle":     poolStats.IdleConns,
		"pool_stale":    poolStats.StaleConns,
	}
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

var _ Cache = (*RedisCache)(nil)
