package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter applies a sliding-window limit per client IP.
type RateLimiter struct {
	requests int
	window   time.Duration
	clients  map[string][]time.Time
	mu       sync.Mutex
}

func NewRateLimiter(requests, windowSeconds int) *RateLimiter {
	if requests <= 0 {
		requests = 100
	}
	if windowSeconds <= 0 {
		windowSeconds = 60
	}

	rl := &RateLimiter{
		requests: requests,
		window:   time.Duration(windowSeconds) * time.Second,
		clients:  make(map[string][]time.Time),
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) cleanup() {
	for range time.Tick(time.Minute) {
		rl.mu.Lock()
		cutoff := time.Now().Add(-2 * rl.window)
		for ip, stamps := range rl.clients {
			if len(stamps) == 0 || stamps[len(stamps)-1].Before(cutoff) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow reports whether a request from ip fits the window, along with the
// remaining quota and reset time.
func (rl *RateLimiter) Allow(ip string) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	stamps := rl.clients[ip]
	kept := stamps[:0]
	for _, ts := range stamps {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= rl.requests {
		rl.clients[ip] = kept
		return false, 0, kept[0].Add(rl.window)
	}

	kept = append(kept, now)
	rl.clients[ip] = kept
	return true, rl.requests - len(kept), now.Add(rl.window)
}

// RateLimit returns a middleware that applies the limiter per client IP.
func RateLimit(requests, windowSeconds int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(requests, windowSeconds)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			allowed, remaining, resetTime := limiter.Allow(ip)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				w.Header().Set("Retry-After", strconv.FormatInt(int64(time.Until(resetTime).Seconds())+1, 10))
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
