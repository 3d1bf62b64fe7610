package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/okboz/okboz-backend-go/internal/handler/http/response"
	"golang.org/x/time/rate"
)

// ipLimiter stores per-IP rate limiters with automatic cleanup.
type ipLimiter struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(r rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     r,
		burst:    burst,
	}
}

func (ipl *ipLimiter) getLimiter(ip string) *rate.Limiter {
	ipl.mu.Lock()
	defer ipl.mu.Unlock()

	entry, exists := ipl.limiters[ip]
	if !exists {
		limiter := rate.NewLimiter(ipl.rate, ipl.burst)
		ipl.limiters[ip] = &limiterEntry{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	entry.lastSeen = time.Now()
	return entry.limiter
}

// sweep removes entries not seen within idle.
func (ipl *ipLimiter) sweep(idle time.Duration) {
	ipl.mu.Lock()
	defer ipl.mu.Unlock()
	for ip, entry := range ipl.limiters {
		if time.Since(entry.lastSeen) > idle {
			delete(ipl.limiters, ip)
		}
	}
}

// RateLimit limits mutating requests per client IP. Safe methods pass
// through untouched. The sweeper goroutine stops when stop is closed.
func RateLimit(r rate.Limit, burst int, stop <-chan struct{}) func(http.Handler) http.Handler {
	ipl := newIPLimiter(r, burst)

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ipl.sweep(10 * time.Minute)
			case <-stop:
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			if !ipl.getLimiter(extractIP(r)).Allow() {
				w.Header().Set("Retry-After", "60")
				response.TooManyRequests(w, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractIP gets the client IP, respecting X-Forwarded-For from reverse proxies.
func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
