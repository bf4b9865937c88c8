package httpapi

import (
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wordlex/wordlex/internal/logger"
	"golang.org/x/time/rate"
)

var rateLog = logger.Default("ratelimit")

// logInterval mirrors rate_limit.rs's LOG_INTERVAL: drop counts are logged
// in aggregate at most once per minute rather than once per dropped request.
const logInterval = 60 * time.Second

// RateLimiter is a per-client-IP token bucket. One *rate.Limiter per IP,
// created lazily and never evicted within a process lifetime — acceptable
// for the expected client cardinality of this service.
type RateLimiter struct {
	mu              sync.Mutex
	buckets         map[string]*rate.Limiter
	rps             rate.Limit
	burst           int
	droppedSinceLog atomic.Uint64
	lastLog         atomic.Int64
}

// NewRateLimiter builds a limiter refilling at rps tokens/sec with the given
// burst capacity per client IP.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*rate.Limiter),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
	rl.lastLog.Store(time.Now().UnixNano())
	return rl
}

func (rl *RateLimiter) limiterFor(clientID string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.buckets[clientID]
	if !ok {
		l = rate.NewLimiter(rl.rps, rl.burst)
		rl.buckets[clientID] = l
	}
	return l
}

func (rl *RateLimiter) logDropsIfNeeded() {
	now := time.Now()
	last := time.Unix(0, rl.lastLog.Load())
	if now.Sub(last) < logInterval {
		return
	}
	if !rl.lastLog.CompareAndSwap(last.UnixNano(), now.UnixNano()) {
		return
	}
	dropped := rl.droppedSinceLog.Swap(0)
	if dropped > 0 {
		rateLog.Warnf("dropped %d requests in the last minute", dropped)
	}
}

// Middleware rejects requests from a client whose bucket is empty with 429,
// otherwise passes through to next.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := clientIP(r)
		if clientID != "" && !rl.limiterFor(clientID).Allow() {
			rl.droppedSinceLog.Add(1)
			rl.logDropsIfNeeded()
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limited"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP trusts a proxy-set forwarding header when present, otherwise
// falls back to the TCP remote address, mirroring rate_limit.rs's
// Fly-Client-IP convention.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("Fly-Client-IP"); fwd != "" {
		return fwd
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
