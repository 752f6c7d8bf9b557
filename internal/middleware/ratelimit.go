package middleware

import (
	"net/http"
	"sync"
	"time"

	"volunteer-hub/backend/internal/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	rps      rate.Limit
	burst    int
	lifetime time.Duration
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		clients:  make(map[string]*clientLimiter),
		rps:      rate.Limit(float64(cfg.RequestsPerMin) / 60.0),
		burst:    cfg.BurstSize,
		lifetime: cfg.CleanupInterval,
	}

	go rl.cleanupLoop()

	return rl
}

func (rl *RateLimiter) get(clientIP string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.clients[clientIP]
	if !exists {
		entry = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[clientIP] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (rl *RateLimiter) cleanupLoop() {
	interval := rl.lifetime
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-interval)
		for ip, entry := range rl.clients {
			if entry.lastSeen.Before(cutoff) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "Too many requests, slow down",
			})
			return
		}
		c.Next()
	}
}
