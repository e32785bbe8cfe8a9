package middleware

import (
	"net/http"
	"sync"
	"time"
)

// Buckets idle longer than this are dropped by the background sweep.
const bucketIdleCutoff = 10 * time.Minute

// RateLimiter throttles chat-widget traffic per visitor IP. Each IP owns
// a token bucket refilled at rps tokens per second up to burst; every
// message spends one token.
type RateLimiter struct {
	mu    sync.Mutex
	perIP map[string]*tokenBucket

	rps   float64
	burst float64
}

type tokenBucket struct {
	tokens float64
	seen   time.Time
}

// NewRateLimiter creates a per-IP limiter. A burst below 1 is raised to 1
// so the opening message of a session always goes through.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	rl := &RateLimiter{
		perIP: make(map[string]*tokenBucket),
		rps:   rps,
		burst: float64(burst),
	}
	go rl.sweep()
	return rl
}

// Allow spends one token from ip's bucket, reporting whether one was
// available.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.perIP[ip]
	if !ok {
		b = &tokenBucket{tokens: rl.burst, seen: now}
		rl.perIP[ip] = b
	}

	b.tokens += now.Sub(b.seen).Seconds() * rl.rps
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.seen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops buckets for visitors that went quiet so the map only
// tracks active IPs.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(bucketIdleCutoff / 2)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-bucketIdleCutoff)
		rl.mu.Lock()
		for ip, b := range rl.perIP {
			if b.seen.Before(cutoff) {
				delete(rl.perIP, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit wraps the widget routes with per-IP throttling. Rejected
// messages get a JSON 429 body the widget can render in the chat pane.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(rps, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// chi's RealIP rewrites RemoteAddr upstream; the header
			// covers the middleware used outside that chain.
			ip := r.RemoteAddr
			if xri := r.Header.Get("X-Real-Ip"); xri != "" {
				ip = xri
			}
			if !limiter.Allow(ip) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"too many messages, please slow down"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
