package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// bucketIdleTTL is how long an untouched bucket survives cleanup.
const bucketIdleTTL = 10 * time.Minute

// RateLimiter hands out per-client token buckets. Every Limit call gets its
// own bucket set, so a client's budget on one route group does not drain
// another.
type RateLimiter struct {
	mu       sync.Mutex
	limits   []*limitBuckets
	stop     chan struct{}
	stopOnce sync.Once
}

type limitBuckets struct {
	perMinute int
	buckets   sync.Map // client ip -> *bucket
}

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a rate limiter that evicts idle buckets every
// cleanupInterval. Call Stop on shutdown.
func NewRateLimiter(cleanupInterval time.Duration) *RateLimiter {
	rl := &RateLimiter{stop: make(chan struct{})}
	go rl.cleanup(cleanupInterval)
	return rl
}

// Stop terminates the cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Limit returns middleware allowing maxPerMinute requests per client IP,
// refilled continuously. Rejected requests get 429 with Retry-After.
func (rl *RateLimiter) Limit(maxPerMinute int) Middleware {
	lb := &limitBuckets{perMinute: maxPerMinute}

	rl.mu.Lock()
	rl.limits = append(rl.limits, lb)
	rl.mu.Unlock()

	retryAfter := strconv.Itoa(int(math.Ceil(60.0 / float64(maxPerMinute))))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !lb.take(clientIP(r), time.Now()) {
				w.Header().Set("Retry-After", retryAfter)
				writeJSONError(w, http.StatusTooManyRequests, map[string]any{
					"error": "rate limit exceeded",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (lb *limitBuckets) take(ip string, now time.Time) bool {
	val, _ := lb.buckets.LoadOrStore(ip, &bucket{
		tokens:     float64(lb.perMinute),
		lastRefill: now,
	})
	b := val.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	capacity := float64(lb.perMinute)
	b.tokens = math.Min(capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*capacity/60)
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (lb *limitBuckets) evictIdle(now time.Time) {
	lb.buckets.Range(func(key, value any) bool {
		b := value.(*bucket)
		b.mu.Lock()
		idle := now.Sub(b.lastRefill)
		b.mu.Unlock()
		if idle > bucketIdleTTL {
			lb.buckets.Delete(key)
		}
		return true
	})
}

func (rl *RateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			limits := rl.limits
			rl.mu.Unlock()
			for _, lb := range limits {
				lb.evictIdle(now)
			}
		}
	}
}

// clientIP drops the port so every connection from a host shares one bucket.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
