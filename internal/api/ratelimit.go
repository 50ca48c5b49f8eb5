package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the IP-based rate limiter
type RateLimitConfig struct {
	RequestsPerSecond float64       // Requests allowed per second per IP
	Burst             int           // Maximum burst size
	CleanupInterval   time.Duration // How often to clean up stale limiters
}

// DefaultRateLimitConfig allows a controller at 10 frames/sec plus reads.
var DefaultRateLimitConfig = RateLimitConfig{
	RequestsPerSecond: 20,
	Burst:             40,
	CleanupInterval:   5 * time.Minute,
}

type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // Unix nano
}

// IPRateLimiter provides IP-based rate limiting for HTTP requests
type IPRateLimiter struct {
	limiters sync.Map // map[string]*ipLimiterEntry
	config   RateLimitConfig
	stopChan chan struct{}
	stopOnce sync.Once

	rejected atomic.Uint64
	allowed  atomic.Uint64
}

// NewIPRateLimiter creates a limiter and starts its cleanup goroutine.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultRateLimitConfig.CleanupInterval
	}
	rl := &IPRateLimiter{
		config:   cfg,
		stopChan: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop stops the cleanup goroutine
func (rl *IPRateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopChan)
	})
}

func (rl *IPRateLimiter) limiterFor(ip string) *rate.Limiter {
	now := time.Now().UnixNano()

	if v, ok := rl.limiters.Load(ip); ok {
		e := v.(*ipLimiterEntry)
		e.lastSeen.Store(now)
		return e.limiter
	}

	e := &ipLimiterEntry{
		limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst),
	}
	e.lastSeen.Store(now)
	actual, _ := rl.limiters.LoadOrStore(ip, e)
	return actual.(*ipLimiterEntry).limiter
}

func (rl *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopChan:
			return
		case <-ticker.C:
			rl.cleanup(time.Now().Add(-rl.config.CleanupInterval * 2))
		}
	}
}

// cleanup drops limiters not used since cutoff
func (rl *IPRateLimiter) cleanup(cutoff time.Time) {
	rl.limiters.Range(func(key, value any) bool {
		if value.(*ipLimiterEntry).lastSeen.Load() < cutoff.UnixNano() {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// Allow reports whether a request from ip may proceed
func (rl *IPRateLimiter) Allow(ip string) bool {
	if rl.limiterFor(ip).Allow() {
		rl.allowed.Add(1)
		return true
	}
	rl.rejected.Add(1)
	return false
}

// Middleware rejects requests over the per-IP budget with 429
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(GetClientIP(r)) {
			RecordConnectionRejected("rate_limit")
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetStats returns rate limiter statistics
func (rl *IPRateLimiter) GetStats() map[string]uint64 {
	return map[string]uint64{
		"allowed":  rl.allowed.Load(),
		"rejected": rl.rejected.Load(),
	}
}

// GetClientIP extracts the client IP from an HTTP request.
// X-Forwarded-For can be spoofed unless a trusted proxy sets it.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// WebSocketRateLimiter limits concurrent WebSocket connections per IP
type WebSocketRateLimiter struct {
	mu       sync.Mutex
	conns    map[string]int
	maxPerIP int

	rejected atomic.Uint64
}

// NewWebSocketRateLimiter creates a WebSocket connection limiter
func NewWebSocketRateLimiter(maxPerIP int) *WebSocketRateLimiter {
	return &WebSocketRateLimiter{conns: make(map[string]int), maxPerIP: maxPerIP}
}

// Allow reserves a connection slot for ip
func (wrl *WebSocketRateLimiter) Allow(ip string) bool {
	wrl.mu.Lock()
	defer wrl.mu.Unlock()
	if wrl.conns[ip] >= wrl.maxPerIP {
		wrl.rejected.Add(1)
		return false
	}
	wrl.conns[ip]++
	return true
}

// Release frees a slot reserved by Allow
func (wrl *WebSocketRateLimiter) Release(ip string) {
	wrl.mu.Lock()
	defer wrl.mu.Unlock()
	if n := wrl.conns[ip]; n <= 1 {
		delete(wrl.conns, ip)
	} else {
		wrl.conns[ip] = n - 1
	}
}

// ConnectionCount returns the open connections for ip
func (wrl *WebSocketRateLimiter) ConnectionCount(ip string) int {
	wrl.mu.Lock()
	defer wrl.mu.Unlock()
	return wrl.conns[ip]
}

// DefaultOrigins are the browser origins accepted for CORS and WebSocket
// when none are configured. A trailing ":*" accepts any port.
var DefaultOrigins = []string{
	"http://localhost:*",
	"http://127.0.0.1:*",
}

// OriginChecker matches request origins against an allow list.
type OriginChecker struct {
	allowed []string
}

// NewOriginChecker builds a checker; nil uses DefaultOrigins.
func NewOriginChecker(origins []string) *OriginChecker {
	if origins == nil {
		origins = DefaultOrigins
	}
	return &OriginChecker{allowed: origins}
}

// Allowed reports whether origin is on the list
func (c *OriginChecker) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range c.allowed {
		if a == "*" || a == origin {
			return true
		}
		if prefix, ok := strings.CutSuffix(a, ":*"); ok {
			if rest, ok := strings.CutPrefix(origin, prefix+":"); ok && rest != "" && !strings.Contains(rest, "/") {
				return true
			}
		}
	}
	return false
}
