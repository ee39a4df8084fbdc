// Rate limiter for the endpoints that render PNG output.
// Fixed-window counting per client IP, pruned inline.
package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// pruneThreshold bounds how many client windows accumulate before expired
// ones are swept. One entry per recent client keeps the map tiny in practice.
const pruneThreshold = 1024

// Limiter counts requests per client IP within a fixed window.
type Limiter struct {
	mu     sync.Mutex
	seen   map[string]*window
	limit  int           // max requests per window
	period time.Duration // window length
}

type window struct {
	start time.Time
	count int
}

// NewLimiter creates a limiter allowing limit requests per period.
func NewLimiter(limit int, period time.Duration) *Limiter {
	return &Limiter{
		seen:   make(map[string]*window),
		limit:  limit,
		period: period,
	}
}

// Allow records a request from the given IP and reports whether it falls
// within the rate limit. An expired window restarts on the request.
func (l *Limiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.pruneLocked(now)

	w := l.seen[ip]
	if w == nil || now.Sub(w.start) >= l.period {
		l.seen[ip] = &window{start: now, count: 1}
		return true
	}
	if w.count < l.limit {
		w.count++
		return true
	}
	return false
}

// RetryAfter returns how many seconds until the IP's window expires.
func (l *Limiter) RetryAfter(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.seen[ip]
	if w == nil {
		return 0
	}
	left := l.period - time.Since(w.start)
	if left <= 0 {
		return 0
	}
	return int(left/time.Second) + 1
}

// pruneLocked sweeps long-expired windows once the map grows past the
// threshold. Caller holds the lock.
func (l *Limiter) pruneLocked(now time.Time) {
	if len(l.seen) < pruneThreshold {
		return
	}
	for ip, w := range l.seen {
		if now.Sub(w.start) >= 2*l.period {
			delete(l.seen, ip)
		}
	}
}

// limitMiddleware wraps a handler with rate limiting. Returns 429 when the
// window is exhausted.
func limitMiddleware(l *Limiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.Allow(ip) {
			w.Header().Set("Retry-After", strconv.Itoa(l.RetryAfter(ip)))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// clientIP extracts the request's client IP, honoring X-Forwarded-For for
// proxied requests.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
