package middleware

import (
	"sync"
	"time"

	"vidhub/config"
	domainerrors "vidhub/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	defaultRateRequests = 10
	defaultRateWindow   = time.Minute
	defaultRateBurst    = 5
	defaultRateTTL      = 10 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware throttles credential endpoints per client IP.
type RateLimitMiddleware struct {
	enabled bool

	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

// NewRateLimitMiddleware allows rateLimit.requests per rateLimit.window with
// rateLimit.burst extra capacity. Idle clients are forgotten after rateLimit.ttl.
func NewRateLimitMiddleware(cfg *config.Config) *RateLimitMiddleware {
	rl := config.RateLimitConfig{}
	if cfg.RateLimit != nil {
		rl = *cfg.RateLimit
	}

	return newRateLimitMiddleware(rl, time.Now)
}

func newRateLimitMiddleware(cfg config.RateLimitConfig, now func() time.Time) *RateLimitMiddleware {
	requests, window, burst, ttl := cfg.Requests, cfg.Window, cfg.Burst, cfg.TTL
	if requests <= 0 {
		requests = defaultRateRequests
	}
	if window <= 0 {
		window = defaultRateWindow
	}
	if burst <= 0 {
		burst = defaultRateBurst
	}
	if ttl <= 0 {
		ttl = defaultRateTTL
	}

	return &RateLimitMiddleware{
		enabled:  cfg.Enabled,
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    burst,
		ttl:      ttl,
		now:      now,
	}
}

// Limit rejects requests over the budget with 429.
func (m *RateLimitMiddleware) Limit(next echo.HandlerFunc) echo.HandlerFunc {
	if !m.enabled {
		return next
	}

	return func(c echo.Context) error {
		if !m.allow(c.RealIP()) {
			return domainerrors.ErrTooManyRequests
		}

		return next(c)
	}
}

func (m *RateLimitMiddleware) allow(key string) bool {
	if key == "" {
		key = "unknown"
	}

	now := m.now()

	m.mu.Lock()
	v, ok := m.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.visitors[key] = v
	}
	v.lastSeen = now
	m.evictLocked(now)
	m.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

func (m *RateLimitMiddleware) evictLocked(now time.Time) {
	for key, v := range m.visitors {
		if now.Sub(v.lastSeen) > m.ttl {
			delete(m.visitors, key)
		}
	}
}
