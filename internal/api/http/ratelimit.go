package http

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/spec-kit/helpdesk/internal/config"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

const clientIdleTTL = 10 * time.Minute

type clientBucket struct {
	tokens   *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter keeps one token bucket per client address for the
// unauthenticated auth endpoints.
type ClientLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*clientBucket
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewClientLimiter allows cfg.AuthPerMinute requests per client with
// cfg.AuthBurst headroom. A non-positive rate disables throttling.
func NewClientLimiter(cfg config.RateLimitConfig) *ClientLimiter {
	limit := rate.Inf
	if cfg.AuthPerMinute > 0 {
		limit = rate.Limit(float64(cfg.AuthPerMinute) / time.Minute.Seconds())
	}
	return &ClientLimiter{
		buckets: make(map[string]*clientBucket),
		limit:   limit,
		burst:   max(cfg.AuthBurst, 1),
		now:     time.Now,
	}
}

// Allow spends one token from key's bucket.
func (l *ClientLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= clientIdleTTL {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) >= clientIdleTTL {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &clientBucket{tokens: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.tokens.AllowN(now, 1)
}

// Handler throttles by client IP and answers 429 with a Retry-After hint.
// A nil limiter lets everything through.
func (l *ClientLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l == nil || l.Allow(c.IP()) {
			return c.Next()
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(l.retryAfterSeconds()))
		return apperrors.NewTooManyRequests()
	}
}

func (l *ClientLimiter) retryAfterSeconds() int {
	if l.limit == rate.Inf || l.limit <= 0 {
		return 1
	}
	return int(math.Ceil(1 / float64(l.limit)))
}

func (l *ClientLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
