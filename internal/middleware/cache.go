package middleware

// cache.go serves the public catalog reads from Redis.  Entries are keyed
// by a catalog generation counter; any event or booking write bumps the
// counter, which makes every older entry unreachable at once instead of
// hunting down individual keys.

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/eventella/internal/config"
)

// cachedResponse is what one cache entry holds.  Body is base64 in JSON.
type cachedResponse struct {
	Status int         `json:"s"`
	Header http.Header `json:"h"`
	Body   []byte      `json:"b"`
}

// bodyRecorder tees the response to the client and keeps up to limit bytes.
// size counts everything written so an oversized body is never stored cut.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (w *bodyRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.size += int64(len(b))
	if w.limit <= 0 || w.size <= w.limit {
		w.buf.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) complete() bool { return w.limit <= 0 || w.size <= w.limit }

// perRequestHeaders depend on the request rather than the resource, so
// they are neither stored nor replayed.  CORS headers belong here: they are
// set for the current Origin by the CORS middleware before the cache runs.
var perRequestHeaders = map[string]bool{
	"Content-Length": true,
	"Vary":           true,
	"X-Request-Id":   true,
	"X-Cache":        true,
}

func cacheable(header string) bool {
	h := http.CanonicalHeaderKey(header)
	return !perRequestHeaders[h] && !strings.HasPrefix(h, "Access-Control-")
}

// ResponseCache stores successful catalog responses in Redis.  A nil
// *ResponseCache is a valid, disabled cache.
type ResponseCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
	log *zap.Logger
}

// NewResponseCache returns nil when caching is disabled or Redis is absent.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger) *ResponseCache {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return &ResponseCache{cfg: cfg, rdb: rdb, log: log}
}

func (rc *ResponseCache) genKey() string { return rc.cfg.Prefix + ":gen" }

// generation returns the current catalog generation, "0" before the first
// write.
func (rc *ResponseCache) generation(ctx context.Context) (string, error) {
	gen, err := rc.rdb.Get(ctx, rc.genKey()).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

// entryKey names the entry for this request under generation gen.  The
// query string is re-encoded so parameter order does not split entries.
func (rc *ResponseCache) entryKey(r *http.Request, gen string) string {
	h := sha256.New()
	h.Write([]byte(r.Method))
	h.Write([]byte{0})
	h.Write([]byte(r.URL.Path))
	if rc.cfg.KeyStrategy != config.CacheKeyRoute {
		h.Write([]byte{0})
		h.Write([]byte(r.URL.Query().Encode()))
	}
	return rc.cfg.Prefix + ":g" + gen + ":" + hex.EncodeToString(h.Sum(nil)[:16])
}

// Invalidate bumps the generation counter.  Old entries expire on their
// own TTL.
func (rc *ResponseCache) Invalidate(ctx context.Context) error {
	if rc == nil {
		return nil
	}
	return rc.rdb.Incr(ctx, rc.genKey()).Err()
}

// Middleware returns the caching middleware; pass-through when rc is nil.
// Redis failures never fail the request; they degrade to a miss.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
	if rc == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !rc.cfg.Methods[req.Method] {
				return next(c)
			}
			ctx := req.Context()
			gen, err := rc.generation(ctx)
			if err != nil {
				rc.log.Warn("cache: generation lookup failed", zap.Error(err))
				return next(c)
			}
			key := rc.entryKey(req, gen)

			if raw, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
				var hit cachedResponse
				if json.Unmarshal(raw, &hit) == nil && hit.Status != 0 {
					return rc.replay(c, hit)
				}
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(rc.cfg.MaxBodyBytes)}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if rec.status == http.StatusOK && rec.complete() {
				rc.store(ctx, key, cachedResponse{Status: rec.status, Header: c.Response().Header(), Body: rec.buf.Bytes()})
			}
			return nil
		}
	}
}

func (rc *ResponseCache) replay(c echo.Context, hit cachedResponse) error {
	out := c.Response().Header()
	for k, vals := range hit.Header {
		if cacheable(k) {
			out[k] = append([]string(nil), vals...)
		}
	}
	out.Set("X-Cache", "HIT")
	c.Response().WriteHeader(hit.Status)
	_, err := c.Response().Write(hit.Body)
	return err
}

func (rc *ResponseCache) store(ctx context.Context, key string, entry cachedResponse) {
	hdr := make(http.Header, len(entry.Header))
	for k, vals := range entry.Header {
		if cacheable(k) {
			hdr[k] = append([]string(nil), vals...)
		}
	}
	entry.Header = hdr
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	// the client may be gone already; the entry is still worth keeping
	if err := rc.rdb.Set(context.WithoutCancel(ctx), key, raw, rc.cfg.TTL).Err(); err != nil {
		rc.log.Warn("cache: store failed", zap.Error(err))
	}
}
