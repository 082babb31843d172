package config

import "time"

// RateLimitConfig configures the Redis token bucket in front of the auth
// endpoints.  A bucket holds Capacity tokens and gains RefillTokens every
// RefillInterval; each request takes one.  KeyStrategy is an "_"-joined
// list of ip, user and route, e.g. "ip_route".
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration // idle buckets are dropped after this long
	KeyStrategy    string
	Prefix         string
}

func LoadRateLimitConfig() RateLimitConfig {
	rl := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       max(envInt("RATE_LIMIT_CAPACITY", 20), 1),
		RefillTokens:   max(envInt("RATE_LIMIT_REFILL_TOKENS", 1), 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 3*time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    getenv("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
		Prefix:         getenv("RATE_LIMIT_PREFIX", "eventella:rl"),
	}
	if rl.RefillInterval <= 0 {
		rl.RefillInterval = time.Second
	}
	// a bucket must outlive a few refills or it resets to full too early
	rl.TTL = max(rl.TTL, 5*rl.RefillInterval)
	return rl
}
