package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/eventella/internal/config"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func cacheCfg() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		KeyStrategy:  config.CacheKeyRouteQuery,
		Prefix:       "test:cache",
		MaxBodyBytes: 1 << 20,
	}
}

func cachedEcho(rc *ResponseCache, hits *int) *echo.Echo {
	e := echo.New()
	h := func(c echo.Context) error {
		*hits++
		return c.JSON(http.StatusOK, echo.Map{"n": *hits, "id": c.Param("id")})
	}
	e.GET("/events", h, rc.Middleware())
	e.GET("/events/:id", h, rc.Middleware())
	e.GET("/missing", func(c echo.Context) error {
		*hits++
		return c.JSON(http.StatusNotFound, echo.Map{"message": "nope"})
	}, rc.Middleware())
	return e
}

func TestResponseCacheHitAndMiss(t *testing.T) {
	_, rdb := newRedis(t)
	rc := NewResponseCache(cacheCfg(), rdb, nil)
	hits := 0
	e := cachedEcho(rc, &hits)

	first := serve(t, e, http.MethodGet, "/events?category=Movie", "")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := serve(t, e, http.MethodGet, "/events?category=Movie", "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, 1, hits)

	other := serve(t, e, http.MethodGet, "/events?category=Play", "")
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, 2, hits)
}

func TestResponseCacheSeparatesPathParams(t *testing.T) {
	_, rdb := newRedis(t)
	rc := NewResponseCache(cacheCfg(), rdb, nil)
	hits := 0
	e := cachedEcho(rc, &hits)

	a := serve(t, e, http.MethodGet, "/events/1", "")
	b := serve(t, e, http.MethodGet, "/events/2", "")
	assert.Contains(t, a.Body.String(), `"id":"1"`)
	assert.Contains(t, b.Body.String(), `"id":"2"`)
	assert.Equal(t, 2, hits)
}

func TestResponseCacheInvalidate(t *testing.T) {
	_, rdb := newRedis(t)
	rc := NewResponseCache(cacheCfg(), rdb, nil)
	hits := 0
	e := cachedEcho(rc, &hits)

	serve(t, e, http.MethodGet, "/events", "")
	serve(t, e, http.MethodGet, "/events", "")
	require.Equal(t, 1, hits)

	require.NoError(t, rc.Invalidate(context.Background()))
	rec := serve(t, e, http.MethodGet, "/events", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, hits)
}

func TestResponseCacheSkipsErrors(t *testing.T) {
	_, rdb := newRedis(t)
	rc := NewResponseCache(cacheCfg(), rdb, nil)
	hits := 0
	e := cachedEcho(rc, &hits)

	serve(t, e, http.MethodGet, "/missing", "")
	serve(t, e, http.MethodGet, "/missing", "")
	assert.Equal(t, 2, hits)
}

func TestResponseCacheSkipsTruncatedBodies(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := cacheCfg()
	cfg.MaxBodyBytes = 8
	rc := NewResponseCache(cfg, rdb, nil)
	hits := 0
	e := cachedEcho(rc, &hits)

	serve(t, e, http.MethodGet, "/events", "")
	rec := serve(t, e, http.MethodGet, "/events", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, hits)
}

func TestNilResponseCache(t *testing.T) {
	assert.Nil(t, NewResponseCache(cacheCfg(), nil, nil))
	disabled := cacheCfg()
	disabled.Enabled = false
	_, rdb := newRedis(t)
	rc := NewResponseCache(disabled, rdb, nil)
	require.Nil(t, rc)
	assert.NoError(t, rc.Invalidate(context.Background()))

	hits := 0
	e := cachedEcho(rc, &hits)
	serve(t, e, http.MethodGet, "/events", "")
	serve(t, e, http.MethodGet, "/events", "")
	assert.Equal(t, 2, hits)
}

func TestResponseCacheRedisDown(t *testing.T) {
	mr, rdb := newRedis(t)
	rc := NewResponseCache(cacheCfg(), rdb, nil)
	hits := 0
	e := cachedEcho(rc, &hits)
	mr.Close()

	rec := serve(t, e, http.MethodGet, "/events", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, hits)
}

func TestResponseCacheQueryOrderShared(t *testing.T) {
	_, rdb := newRedis(t)
	rc := NewResponseCache(cacheCfg(), rdb, nil)
	hits := 0
	e := cachedEcho(rc, &hits)

	serve(t, e, http.MethodGet, "/events?category=Movie&location=Oslo", "")
	rec := serve(t, e, http.MethodGet, "/events?location=Oslo&category=Movie", "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, hits)
}

func TestResponseCacheRouteStrategyIgnoresQuery(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := cacheCfg()
	cfg.KeyStrategy = config.CacheKeyRoute
	rc := NewResponseCache(cfg, rdb, nil)
	hits := 0
	e := cachedEcho(rc, &hits)

	serve(t, e, http.MethodGet, "/events?category=Movie", "")
	rec := serve(t, e, http.MethodGet, "/events?category=Play", "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, hits)
}

func TestResponseCacheEntryTTL(t *testing.T) {
	mr, rdb := newRedis(t)
	rc := NewResponseCache(cacheCfg(), rdb, nil)
	hits := 0
	e := cachedEcho(rc, &hits)

	serve(t, e, http.MethodGet, "/events", "")
	mr.FastForward(2 * time.Minute)
	rec := serve(t, e, http.MethodGet, "/events", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, hits)
}

func TestResponseCacheKeepsCORSPerRequest(t *testing.T) {
	_, rdb := newRedis(t)
	rc := NewResponseCache(cacheCfg(), rdb, nil)
	hits := 0
	e := echo.New()
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:5174"},
		AllowCredentials: true,
	}))
	e.GET("/events", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, echo.Map{"n": hits})
	}, rc.Middleware())

	get := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		req.Header.Set(echo.HeaderOrigin, origin)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	first := get("http://localhost:5173")
	require.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := get("http://localhost:5174")
	require.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, hits)

	h := second.Header()
	assert.Equal(t, []string{"http://localhost:5174"}, h.Values(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, []string{"true"}, h.Values(echo.HeaderAccessControlAllowCredentials))
	assert.Equal(t, []string{echo.HeaderOrigin}, h.Values(echo.HeaderVary))
	assert.Len(t, h.Values(echo.HeaderXRequestID), 1)
	assert.NotEqual(t, first.Header().Get(echo.HeaderXRequestID), h.Get(echo.HeaderXRequestID))
	assert.Len(t, h.Values(echo.HeaderContentType), 1)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestCacheableHeaders(t *testing.T) {
	assert.True(t, cacheable("Content-Type"))
	for _, h := range []string{"access-control-allow-origin", "Access-Control-Expose-Headers", "vary", "X-Request-ID", "content-length"} {
		assert.False(t, cacheable(h), h)
	}
}
