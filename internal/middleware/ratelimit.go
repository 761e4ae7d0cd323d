package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Policy is one row of the per-endpoint rate-limit table.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Endpoint policies. Entries apply to POST requests only.
var Policies = map[string]Policy{
	"create_post":       {Limit: 10, Window: 60 * time.Second},
	"create_comment":    {Limit: 20, Window: 60 * time.Second},
	"login":             {Limit: 10, Window: 300 * time.Second},
	"divulgacao_upload": {Limit: 5, Window: 300 * time.Second},
}

// RateLimiter keeps per-key sliding windows of request timestamps in
// process memory. Multi-worker deploys get one bucket per worker, an
// accepted loose bound.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	now     func() time.Time
}

func NewRateLimiter() *RateLimiter {
	l := &RateLimiter{
		buckets: make(map[string][]time.Time),
		now:     time.Now,
	}
	go l.sweep()
	return l
}

// NewRateLimiterAt builds a limiter with an injectable clock.
func NewRateLimiterAt(now func() time.Time) *RateLimiter {
	return &RateLimiter{buckets: make(map[string][]time.Time), now: now}
}

// Check trims expired timestamps for key, then either records the request
// or denies it with the seconds until the oldest entry leaves the window.
func (l *RateLimiter) Check(key string, p Policy) (allowed bool, retryAfter int) {
	now := l.now()
	cutoff := now.Add(-p.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	stamps := l.buckets[key]
	kept := stamps[:0]
	for _, t := range stamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= p.Limit {
		l.buckets[key] = kept
		wait := kept[0].Add(p.Window).Sub(now).Seconds()
		retry := int(math.Ceil(wait))
		if retry < 1 {
			retry = 1
		}
		return false, retry
	}

	l.buckets[key] = append(kept, now)
	return true, 0
}

// Endpoint returns a fiber middleware enforcing the named policy. An
// internal limiter failure never blocks the request.
func (l *RateLimiter) Endpoint(name string) fiber.Handler {
	policy, known := Policies[name]
	return func(c *fiber.Ctx) error {
		if !known || c.Method() != fiber.MethodPost {
			return c.Next()
		}

		allowed, retryAfter := true, 0
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Warn("rate limiter failure", "endpoint", name, "panic", r)
					allowed = true
				}
			}()
			allowed, retryAfter = l.Check(l.key(c, name), policy)
		}()

		if allowed {
			return c.Next()
		}
		c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", retryAfter))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":       "rate_limited",
			"retry_after": retryAfter,
		})
	}
}

// key builds endpoint:ip:user, with the user part empty for anonymous
// requests.
func (l *RateLimiter) key(c *fiber.Ctx, endpoint string) string {
	userPart := ""
	if id, err := CurrentUserID(c); err == nil {
		userPart = id.String()
	}
	return fmt.Sprintf("%s:%s:%s", endpoint, c.IP(), userPart)
}

// sweep drops buckets that have gone fully stale so the map stays bounded.
func (l *RateLimiter) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := l.now().Add(-10 * time.Minute)
		l.mu.Lock()
		for key, stamps := range l.buckets {
			if len(stamps) == 0 || !stamps[len(stamps)-1].After(cutoff) {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}
