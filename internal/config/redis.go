package config

// Redis backs the catalog response cache and the auth rate limiter.  Both
// are optional: when the server cannot be reached at startup the caller
// gets an error, logs it, and runs with pass-through middleware.

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes how to reach Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

// LoadRedisConfig reads REDIS_HOST + REDIS_PORT, falling back to REDIS_ADDR
// and then localhost:6379, plus REDIS_PASSWORD, REDIS_DB and REDIS_TLS.
func LoadRedisConfig() RedisConfig {
	addr := getenv("REDIS_ADDR", "localhost:6379")
	if host, port := getenv("REDIS_HOST", ""), getenv("REDIS_PORT", ""); host != "" && port != "" {
		addr = net.JoinHostPort(host, port)
	}
	return RedisConfig{
		Addr:     addr,
		Password: getenv("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
		TLS:      envBool("REDIS_TLS", false),
	}
}

// Connect opens a client and pings it.  On failure the client is closed and
// the error says which address was tried.
func (rc RedisConfig) Connect(ctx context.Context) (*redis.Client, error) {
	opts := &redis.Options{Addr: rc.Addr, Password: rc.Password, DB: rc.DB}
	if rc.TLS {
		host, _, _ := strings.Cut(rc.Addr, ":")
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", rc.Addr, err)
	}
	return client, nil
}
