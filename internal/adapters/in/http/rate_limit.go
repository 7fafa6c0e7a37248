package http

import (
	"net/http"
	"sync"
	"time"

	"orderledger/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

// SessionLimiter applies a token bucket per session user and evicts idle buckets.
type SessionLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu    sync.Mutex
	byKey map[string]*limiterEntry
	hits  uint64
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewSessionLimiter returns nil, which allows everything, when rps or burst is not
// positive.
func NewSessionLimiter(rps float64, burst int) *SessionLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	return &SessionLimiter{
		limit: rate.Limit(rps),
		burst: burst,
		now:   time.Now,
		byKey: make(map[string]*limiterEntry),
	}
}

func (l *SessionLimiter) Allow(key string) bool {
	if l == nil || key == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.byKey[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-limiterIdleTTL)
		for k, v := range l.byKey {
			if v.lastSeen.Before(cutoff) {
				delete(l.byKey, k)
			}
		}
	}
	return allowed
}

// RateLimit rejects requests of a session over its budget with 429. It must run after
// Authenticate.
func RateLimit(limiter *SessionLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if session, ok := sessionFrom(c); ok {
				key = session.UserID.String()
			}
			if !limiter.Allow(key) {
				metrics.HTTPRateLimitedTotal.Inc()
				return c.JSON(http.StatusTooManyRequests, Error{
					Code:    http.StatusTooManyRequests,
					Kind:    "RateLimited",
					Message: "too many requests",
				})
			}
			return next(c)
		}
	}
}
