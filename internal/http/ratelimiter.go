package http

import (
	"sync"
	"time"
)

type clientBucket struct {
	tokens   float64
	last     time.Time
	lastSeen time.Time
}

// RateLimiter implements a token bucket limiter keyed by client identifier.
type RateLimiter struct {
	mu         sync.Mutex
	clients    map[string]*clientBucket
	maxTokens  float64
	refillRate float64
	ttl        time.Duration
	now        func() time.Time
}

// NewRateLimiter constructs a rate limiter with the provided settings.
func NewRateLimiter(maxTokens int, refillPerSecond float64, ttl time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:    make(map[string]*clientBucket),
		maxTokens:  float64(maxTokens),
		refillRate: refillPerSecond,
		ttl:        ttl,
		now:        time.Now,
	}

	if ttl > 0 {
		ticker := time.NewTicker(ttl)
		go func() {
			for range ticker.C {
				rl.pruneStale()
			}
		}()
	}

	return rl
}

// Allow consumes a token for the provided key if possible.
func (rl *RateLimiter) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}

	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	bucket, ok := rl.clients[key]
	if !ok {
		bucket = &clientBucket{
			tokens:   rl.maxTokens,
			last:     now,
			lastSeen: now,
		}
		rl.clients[key] = bucket
	}

	elapsed := now.Sub(bucket.last).Seconds()
	if elapsed > 0 {
		bucket.tokens += elapsed * rl.refillRate
		if bucket.tokens > rl.maxTokens {
			bucket.tokens = rl.maxTokens
		}
		bucket.last = now
	}

	if bucket.tokens < 1 {
		bucket.lastSeen = now
		return false
	}

	bucket.tokens -= 1
	bucket.lastSeen = now
	return true
}

func (rl *RateLimiter) pruneStale() {
	if rl.ttl <= 0 {
		return
	}

	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, bucket := range rl.clients {
		if now.Sub(bucket.lastSeen) > rl.ttl {
			delete(rl.clients, key)
		}
	}
}
