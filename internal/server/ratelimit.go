package server

import (
	"fmt"
	"sync"
	"time"
)

type RateLimitConfig struct {
	GlobalRPS   float64
	GlobalBurst int
	GrantLimit  int
	GrantWindow time.Duration

	// TrustProxyHeaders keys the grant throttle on X-Forwarded-For/X-Real-IP.
	// Those headers are client-controlled, so this must stay off unless a
	// trusted proxy in front of the gateway sets them.
	TrustProxyHeaders bool

	RedisAddr     string
	RedisPassword string
	RedisTimeout  time.Duration
}

type rateLimiter struct {
	global       *tokenBucket
	grantLimit   int
	grantWindow  time.Duration
	trustProxy   bool
	grantMu      sync.Mutex
	grantBuckets map[string]*ipLimiter
	store        tokenStore
}

type ipLimiter struct {
	bucket   *tokenBucket
	lastSeen time.Time
}

type tokenStore interface {
	Allow(key string, limit int, window time.Duration) (bool, time.Duration, error)
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	rl := &rateLimiter{
		grantLimit:   cfg.GrantLimit,
		grantWindow:  cfg.GrantWindow,
		trustProxy:   cfg.TrustProxyHeaders,
		grantBuckets: make(map[string]*ipLimiter),
	}
	if cfg.GlobalRPS > 0 {
		burst := cfg.GlobalBurst
		if burst <= 0 {
			burst = int(cfg.GlobalRPS)
			if burst < 1 {
				burst = 1
			}
		}
		rl.global = newTokenBucket(cfg.GlobalRPS, burst)
	}
	if rl.grantLimit <= 0 {
		rl.grantLimit = 0
	}
	if rl.grantWindow <= 0 {
		rl.grantWindow = time.Minute
	}
	if cfg.RedisAddr != "" && rl.grantLimit > 0 {
		timeout := cfg.RedisTimeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		rl.store = newRedisStore(cfg.RedisAddr, cfg.RedisPassword, timeout)
	}
	return rl
}

func (r *rateLimiter) AllowRequest() bool {
	if r == nil || r.global == nil {
		return true
	}
	return r.global.Allow()
}

// AllowGrant throttles grant-issuance requests per client key. When a shared
// counter store is configured the decision is cluster-wide; otherwise each
// process keeps its own buckets.
func (r *rateLimiter) AllowGrant(key string) (bool, time.Duration, error) {
	if r == nil || r.grantLimit <= 0 {
		return true, 0, nil
	}
	if r.store != nil {
		allowed, retryAfter, err := r.store.Allow(fmt.Sprintf("consentgate:grant:%s", key), r.grantLimit, r.grantWindow)
		return allowed, retryAfter, err
	}
	if key == "" {
		key = "unknown"
	}
	r.grantMu.Lock()
	bucket, exists := r.grantBuckets[key]
	if !exists {
		rate := float64(r.grantLimit) / r.grantWindow.Seconds()
		if rate <= 0 {
			rate = 1 / r.grantWindow.Seconds()
		}
		bucket = &ipLimiter{bucket: newTokenBucket(rate, r.grantLimit)}
		r.grantBuckets[key] = bucket
	}
	bucket.lastSeen = time.Now()
	r.cleanupLocked()
	r.grantMu.Unlock()

	if bucket.bucket.Allow() {
		return true, 0, nil
	}
	return false, time.Second, nil
}

func (r *rateLimiter) cleanupLocked() {
	if len(r.grantBuckets) == 0 {
		return
	}
	cutoff := time.Now().Add(-2 * r.grantWindow)
	for key, bucket := range r.grantBuckets {
		if bucket.lastSeen.Before(cutoff) {
			delete(r.grantBuckets, key)
		}
	}
}

type tokenBucket struct {
	mu        sync.Mutex
	rate      float64
	capacity  float64
	tokens    float64
	lastCheck time.Time
}

func newTokenBucket(rate float64, burst int) *tokenBucket {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = 1
	}
	now := time.Now()
	return &tokenBucket{
		rate:      rate,
		capacity:  float64(burst),
		tokens:    float64(burst),
		lastCheck: now,
	}
}

func (tb *tokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	now := time.Now()
	elapsed := now.Sub(tb.lastCheck).Seconds()
	tb.lastCheck = now
	tb.tokens += elapsed * tb.rate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
	if tb.tokens < 1 {
		return false
	}
	tb.tokens -= 1
	return true
}
