package config

import (
	"strings"
	"time"
)

// Cache key strategies.  CacheKeyRoute keys on method and path only, so
// every filter combination of the catalog shares one entry; it suits
// deployments that front the API with their own query-aware cache.
const (
	CacheKeyRoute      = "route"
	CacheKeyRouteQuery = "route_query"
)

// CacheConfig configures the catalog response cache.  Caching is off when
// Enabled is false or Redis is unreachable.  Prefix namespaces both the
// entries and the generation counter that invalidates them.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // upper-case HTTP methods eligible for caching
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int // larger responses are served but not stored; <=0 means unlimited
}

// LoadCacheConfig reads the CACHE_* variables.
func LoadCacheConfig() CacheConfig {
	c := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      methodSet(getenv("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  strings.ToLower(getenv("CACHE_KEY_STRATEGY", CacheKeyRouteQuery)),
		Prefix:       getenv("CACHE_PREFIX", "eventella:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if c.TTL <= 0 {
		c.TTL = 30 * time.Second
	}
	if c.KeyStrategy != CacheKeyRoute {
		c.KeyStrategy = CacheKeyRouteQuery
	}
	return c
}

// methodSet parses a comma separated method list, e.g. "get, head".
func methodSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, m := range splitList(list) {
		set[strings.ToUpper(m)] = true
	}
	return set
}
