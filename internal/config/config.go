package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; see Load for names and defaults.
type Config struct {
	Env          string        // application environment (development, production)
	Port         string        // HTTP port to listen on
	DBUser       string        // database username
	DBPass       string        // database password (optional)
	DBHost       string        // database host address
	DBPort       string        // database port number
	DBName       string        // database name
	JWTSecret    string        // secret used to sign JWTs
	TokenTTL     time.Duration // lifetime of issued bearer tokens
	BcryptCost   int           // bcrypt cost for password hashing
	CORSOrigins  []string      // browser origins allowed to call the API
	LogLevel     string        // zap level name
	LogFormat    string        // json or console
	AMQPURL      string        // RabbitMQ connection string
	QueueEnabled bool          // publish booking lifecycle messages
	BookingLog   string        // file written by the booking consumer

	// Admin bootstrap, applied with --migrate when AdminEmail is set.
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

// defaultOrigins mirrors the front-end dev servers.
var defaultOrigins = "http://localhost:5173,http://localhost:5174,http://127.0.0.1:5173,http://127.0.0.1:5174"

// Load reads configuration values from environment variables.  Required
// variables that are missing, and numeric values that do not parse, are
// reported together in the returned error.
func Load() (Config, error) {
	var errs []error
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("missing required env var: %s", key))
		}
		return v
	}
	mustInt := func(key string, def int) int {
		s := os.Getenv(key)
		if s == "" {
			return def
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid int for %s: %q", key, s))
			return def
		}
		return n
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = getenv("PORT", "9460")
	}

	cfg := Config{
		Env:          getenv("APP_ENV", "development"),
		Port:         port,
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		TokenTTL:     time.Duration(mustInt("TOKEN_TTL_DAYS", 30)) * 24 * time.Hour,
		BcryptCost:   mustInt("BCRYPT_COST", 10),
		CORSOrigins:  splitList(getenv("CORS_ORIGINS", defaultOrigins)),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFormat:    getenv("LOG_FORMAT", "json"),
		AMQPURL:      amqpURL(),
		QueueEnabled: envBool("QUEUE_ENABLED", true),
		BookingLog:   getenv("BOOKING_LOG_PATH", "logs/booking.log"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminName:     getenv("ADMIN_NAME", "Admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL_DAYS must be positive"))
	}
	return cfg, errors.Join(errs...)
}

// IsProduction reports whether error details must be hidden from clients.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production") || strings.EqualFold(c.Env, "prod")
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
