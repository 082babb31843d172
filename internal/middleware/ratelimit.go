package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/eventella/internal/config"
)

// tokenBucketScript refills and takes one token atomically.
// KEYS[1] bucket hash; ARGV: now_ms, capacity, refill_tokens, interval_ms, ttl_s.
// Returns {allowed (0|1), tokens left, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_s = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last = tonumber(state[2])
if tokens == nil or last == nil then
    tokens = capacity
    last = now_ms
end

if interval_ms > 0 and refill > 0 then
    local steps = math.floor(math.max(0, now_ms - last) / interval_ms)
    if steps > 0 then
        tokens = math.min(capacity, tokens + steps * refill)
        last = last + steps * interval_ms
    end
end

local allowed = 0
local retry_ms = 0
if tokens > 0 then
    allowed = 1
    tokens = tokens - 1
else
    retry_ms = math.max(0, interval_ms - (now_ms - last))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last)
redis.call('EXPIRE', key, ttl_s)
return { allowed, tokens, retry_ms }
`)

// bucketResult is the decoded reply of tokenBucketScript.
type bucketResult struct {
	allowed   bool
	remaining int64
	retry     time.Duration
}

func parseBucketResult(v interface{}) (bucketResult, bool) {
	arr, ok := v.([]interface{})
	if !ok || len(arr) != 3 {
		return bucketResult{}, false
	}
	return bucketResult{
		allowed:   asInt64(arr[0]) == 1,
		remaining: asInt64(arr[1]),
		retry:     time.Duration(asInt64(arr[2])) * time.Millisecond,
	}, true
}

// NewTokenBucket limits requests per key (see buildRateKey) with a token
// bucket kept in a Redis hash.  Redis errors let the request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
	}
	if log == nil {
		log = zap.NewNop()
	}
	limit := strconv.Itoa(cfg.Capacity)
	ttlSeconds := int64(cfg.TTL / time.Second)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			vals, err := tokenBucketScript.Run(c.Request().Context(), rdb, []string{key},
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				ttlSeconds,
			).Result()
			if err != nil {
				log.Warn("ratelimit: redis error", zap.String("key", key), zap.Error(err))
				return next(c)
			}
			res, ok := parseBucketResult(vals)
			if !ok {
				log.Warn("ratelimit: unexpected script result", zap.String("key", key), zap.Any("result", vals))
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.remaining, 10))
			if res.allowed {
				return next(c)
			}

			secs := int(math.Ceil(res.retry.Seconds()))
			h.Set("Retry-After", strconv.Itoa(secs))
			log.Debug("ratelimit: blocked", zap.String("key", key), zap.Duration("retry", res.retry))
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"message":     "Too many requests, please try again later",
				"retry_after": secs,
			})
		}
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

// buildRateKey composes the bucket key from the configured strategy:
// any "_"-joined combination of ip, user and route, e.g. "ip_route".
// Unknown strategies use all three.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	parts := []string{cfg.Prefix}
	strategy := strings.ToLower(cfg.KeyStrategy)
	known := false
	for _, dim := range strings.Split(strategy, "_") {
		switch dim {
		case "ip":
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			parts = append(parts, "ip", ip)
			known = true
		case "user":
			parts = append(parts, "user", userID(c))
			known = true
		case "route":
			parts = append(parts, "route", c.Request().Method+" "+c.Path())
			known = true
		}
	}
	if !known {
		parts = append(parts, "ip", c.RealIP(), "user", userID(c), "route", c.Request().Method+" "+c.Path())
	}
	return strings.Join(parts, ":")
}
