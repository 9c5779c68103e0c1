package httpapi

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/olegrjumin/siteaudit/internal/logging"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// requestIDMiddleware keeps a client-supplied X-Request-ID or assigns a new one
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestID returns the ID stored by requestIDMiddleware
func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// requestLogger returns a logger carrying the request ID
func requestLogger(logger *logging.Logger, r *http.Request) *logging.Logger {
	return logger.With("request_id", requestID(r.Context()))
}

// responseWriter wraps http.ResponseWriter to capture the status code and size
type responseWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

// WriteHeader captures the status code and calls the underlying WriteHeader
func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += int64(n)
	return n, err
}

// Flush implements http.Flusher to support SSE streaming
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// loggingMiddleware logs each HTTP request with method, path, status, and duration
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{
			ResponseWriter: w,
			status:         http.StatusOK, // Default status if WriteHeader isn't called
		}

		next.ServeHTTP(wrapped, r)

		requestLogger(logger, r).Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"bytes", wrapped.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// rateLimitMiddleware applies a token bucket per client IP; rps <= 0 disables it
func rateLimitMiddleware(logger *logging.Logger, rps float64, burst int, trusted []netip.Prefix, next http.Handler) http.Handler {
	if rps <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	limiters := newRateLimiterMap()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, trusted)
		if !limiters.getLimiter(ip, rps, burst).Allow() {
			requestLogger(logger, r).Warn("Rate limit exceeded", "client_ip", ip)
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the remote address. Behind a trusted proxy it returns the
// nearest X-Forwarded-For hop that is not itself a trusted proxy.
func clientIP(r *http.Request, trusted []netip.Prefix) string {
	remote := hostOnly(r.RemoteAddr)
	if !isTrusted(remote, trusted) {
		return remote
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := hostOnly(strings.TrimSpace(hops[i]))
		if hop != "" && !isTrusted(hop, trusted) {
			return hop
		}
	}
	return remote
}

func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Idle limiters are swept on access, at most once per limiterSweepInterval
const (
	limiterSweepInterval = time.Minute
	limiterIdleTTL       = 5 * time.Minute
)

// rateLimiterMap manages per-IP rate limiters
type rateLimiterMap struct {
	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	lastSweep time.Time
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiterMap() *rateLimiterMap {
	return &rateLimiterMap{
		limiters:  make(map[string]*ipLimiter),
		lastSweep: time.Now(),
	}
}

func (m *rateLimiterMap) getLimiter(ip string, rps float64, burst int) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if now.Sub(m.lastSweep) > limiterSweepInterval {
		m.evictIdleLocked(now, limiterIdleTTL)
		m.lastSweep = now
	}

	l, ok := m.limiters[ip]
	if !ok {
		l = &ipLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
		m.limiters[ip] = l
	}
	l.lastSeen = now
	return l.limiter
}

func (m *rateLimiterMap) evictIdle(maxIdle time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictIdleLocked(time.Now(), maxIdle)
}

func (m *rateLimiterMap) evictIdleLocked(now time.Time, maxIdle time.Duration) {
	for ip, l := range m.limiters {
		if now.Sub(l.lastSeen) > maxIdle {
			delete(m.limiters, ip)
		}
	}
}
