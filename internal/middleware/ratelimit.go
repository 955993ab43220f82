package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// TokenBucket refills continuously at refillRate tokens per second up to capacity.
type TokenBucket struct {
	mu         sync.Mutex
	capacity   float64
	tokens     float64
	refillRate float64
	last       time.Time
}

func NewTokenBucket(capacity, refillRate int, now time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		refillRate: float64(refillRate),
		last:       now,
	}
}

// Take removes cost tokens if they are available at now.
func (tb *TokenBucket) Take(cost int, now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if elapsed := now.Sub(tb.last).Seconds(); elapsed > 0 {
		tb.tokens = min(tb.tokens+elapsed*tb.refillRate, tb.capacity)
		tb.last = now
	}
	if tb.tokens < float64(cost) {
		return false
	}
	tb.tokens -= float64(cost)
	return true
}

func (tb *TokenBucket) idleSince(now time.Time) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return now.Sub(tb.last)
}

// RateLimiter keeps one bucket per key and drops buckets idle for ten minutes.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*TokenBucket
	capacity   int
	refillRate int
	lastSweep  time.Time
	now        func() time.Time
}

func NewRateLimiter(capacity, refillRate int) *RateLimiter {
	return &RateLimiter{
		buckets:    make(map[string]*TokenBucket),
		capacity:   capacity,
		refillRate: refillRate,
		now:        time.Now,
	}
}

// Allow charges cost tokens to key. A cost above capacity is capped so an
// expensive request can still pass on a full bucket.
func (rl *RateLimiter) Allow(key string, cost int) bool {
	now := rl.now()
	cost = min(max(cost, 1), rl.capacity)

	rl.mu.Lock()
	if now.Sub(rl.lastSweep) > 5*time.Minute {
		for k, b := range rl.buckets {
			if b.idleSince(now) > 10*time.Minute {
				delete(rl.buckets, k)
			}
		}
		rl.lastSweep = now
	}
	bucket, ok := rl.buckets[key]
	if !ok {
		bucket = NewTokenBucket(rl.capacity, rl.refillRate, now)
		rl.buckets[key] = bucket
	}
	rl.mu.Unlock()

	return bucket.Take(cost, now)
}

// RateLimitMiddleware limits each client+address pair. cost prices a request
// in tokens; nil charges one token per request. Public paths are never limited.
func RateLimitMiddleware(capacity, refillRate int, cost func(*http.Request) int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(capacity, refillRate)
	retryAfter := "1"
	if refillRate <= 0 {
		retryAfter = "60"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			ip := r.RemoteAddr
			if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				ip = host
			}
			key := GetClientFromContext(r.Context()) + ":" + ip

			n := 1
			if cost != nil {
				n = cost(r)
			}
			if !limiter.Allow(key, n) {
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, "rate limit exceeded, please try again later", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
