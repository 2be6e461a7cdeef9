package middleware

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"nftickets/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills the bucket stored at KEYS[1] for the elapsed
// intervals, then takes one token if available. It returns
// {allowed, remaining, retry_after_ms}.
const tokenBucketScript = `
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local interval_ms = tonumber(ARGV[3])
local ttl_seconds = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 then
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals)
		last_refill = last_refill + (intervals * interval_ms)
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`

// RateLimitConfig configures the token bucket.
type RateLimitConfig struct {
	Prefix         string
	Capacity       int
	RefillInterval time.Duration // one token is added per interval
	TTL            time.Duration
}

// RateLimiter is a Redis-backed token bucket keyed by client IP and path.
// It fails open: when Redis is unavailable requests pass through.
type RateLimiter struct {
	rdb redis.Scripter
	cfg RateLimitConfig
	log *logger.Logger
	now func() time.Time
}

// NewRateLimiter creates a RateLimiter. A nil rdb disables limiting.
func NewRateLimiter(rdb redis.Scripter, cfg RateLimitConfig, log *logger.Logger) *RateLimiter {
	if cfg.Prefix == "" {
		cfg.Prefix = "ratelimit"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	return &RateLimiter{rdb: rdb, cfg: cfg, log: log, now: time.Now}
}

// WithClock replaces the limiter's time source.
func (l *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	l.now = now
	return l
}

func (l *RateLimiter) key(c *fiber.Ctx) string {
	ip := c.IP()
	if ip == "" {
		ip = "unknown"
	}
	return strings.Join([]string{l.cfg.Prefix, ip, c.Path()}, ":")
}

// Handler returns the Fiber middleware.
func (l *RateLimiter) Handler() fiber.Handler {
	if l == nil || l.rdb == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return func(c *fiber.Ctx) error {
		key := l.key(c)
		args := []interface{}{
			l.now().UnixMilli(),
			l.cfg.Capacity,
			l.cfg.RefillInterval.Milliseconds(),
			int64(l.cfg.TTL / time.Second),
		}

		vals, err := l.rdb.Eval(c.UserContext(), tokenBucketScript, []string{key}, args...).Result()
		if err != nil {
			l.log.Warnw("Rate limiter unavailable", "key", key, "error", err)
			return c.Next()
		}

		arr, ok := vals.([]interface{})
		if !ok || len(arr) != 3 {
			l.log.Warnw("Unexpected rate limiter result", "key", key, "result", fmt.Sprintf("%#v", vals))
			return c.Next()
		}
		allowed := asInt64(arr[0]) == 1
		remaining := asInt64(arr[1])
		retryMs := asInt64(arr[2])

		c.Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Capacity))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			secs := int(math.Ceil(float64(retryMs) / 1000.0))
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message":    "Too many requests",
				"error":      "rate limit exceeded",
				"retryAfter": secs,
			})
		}
		return c.Next()
	}
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
