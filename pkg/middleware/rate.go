// Package middleware provides the HTTP middleware stack for Saman.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/nikhilrana/saman/pkg/response"
)

// bucket tracks a fixed-window request count for one client IP.
type bucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

func (b *bucket) allow(max int, window time.Duration) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if now.After(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(window)
	}

	b.count++
	return b.count <= max
}

// limiter holds the per-IP buckets and evicts expired ones in the background.
type limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	window  time.Duration
}

func newLimiter(window time.Duration) *limiter {
	l := &limiter{buckets: map[string]*bucket{}, window: window}
	go l.evict()
	return l
}

func (l *limiter) bucket(ip string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[ip]; ok {
		return b
	}
	b := &bucket{resetAt: time.Now().Add(l.window)}
	l.buckets[ip] = b
	return b
}

func (l *limiter) evict() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		for ip, b := range l.buckets {
			b.mu.Lock()
			expired := now.After(b.resetAt)
			b.mu.Unlock()
			if expired {
				delete(l.buckets, ip)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimit limits each client IP to max requests per window.
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
				ip = fwd
			}

			if !l.bucket(ip).allow(max, window) {
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
