package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/metrics"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultRateLimit = 60
	DefaultBurstSize = 10

	sweepInterval = 5 * time.Minute
	idleTTL       = 10 * time.Minute
)

// RateLimiter is a token bucket per caller. Buckets idle for longer than ten
// minutes are dropped.
type RateLimiter struct {
	perMinute int
	limit     rate.Limit
	burst     int

	mu      sync.Mutex
	buckets map[string]*bucket

	stopCh   chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// decision is the outcome of one take, enough to fill the X-RateLimit headers
type decision struct {
	allowed   bool
	remaining int
	reset     time.Time
}

// NewRateLimiter creates a RateLimiter with the default limits
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(DefaultRateLimit, DefaultBurstSize)
}

// NewRateLimiterWithConfig creates a RateLimiter refilling perMinute tokens a minute
// into a bucket of size burst
func NewRateLimiterWithConfig(perMinute, burst int) *RateLimiter {
	rl := &RateLimiter{
		perMinute: perMinute,
		limit:     rate.Limit(float64(perMinute) / 60),
		burst:     burst,
		buckets:   make(map[string]*bucket),
		stopCh:    make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

// Allow takes one token for key
func (r *RateLimiter) Allow(key string) bool {
	return r.take(key, time.Now()).allowed
}

func (r *RateLimiter) take(key string, now time.Time) decision {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.buckets[key] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)
	if tokens < 0 {
		tokens = 0
	}
	missing := float64(r.burst) - tokens
	refill := time.Duration(missing / float64(r.limit) * float64(time.Second))

	return decision{allowed: allowed, remaining: int(tokens), reset: now.Add(refill)}
}

// sweep drops buckets last used before now-idleTTL
func (r *RateLimiter) sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, b := range r.buckets {
		if now.Sub(b.lastSeen) > idleTTL {
			delete(r.buckets, key)
		}
	}
}

func (r *RateLimiter) janitor() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			r.sweep(now)
		case <-r.stopCh:
			return
		}
	}
}

// Stop ends the janitor goroutine. Safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// rateLimitKey prefers the resolved member, then the token subject, then the client IP
func rateLimitKey(c echo.Context) string {
	if memberID := GetMemberID(c); memberID != 0 {
		return "member:" + strconv.FormatInt(int64(memberID), 10)
	}
	if sub := GetAuth0ID(c); sub != "" {
		return "sub:" + sub
	}
	return "ip:" + c.RealIP()
}

// RateLimitMiddleware rejects callers over their budget with 429 and a Retry-After header
func RateLimitMiddleware(rl *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateLimitKey(c)
			d := rl.take(key, time.Now())

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(rl.perMinute))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(d.reset.Unix(), 10))

			if d.allowed {
				return next(c)
			}

			retryAfter := int(time.Until(d.reset).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			h.Set("Retry-After", strconv.Itoa(retryAfter))
			metrics.RateLimited.Inc()

			log.Warn().
				Str("key", key).
				Str("path", c.Path()).
				Int("retry_after", retryAfter).
				Msg("Rate limit exceeded")

			return rateLimitError(c, retryAfter)
		}
	}
}
