// Package logger builds the zap loggers used by the server and the booking
// consumer.
package logger

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing to stdout.  format "json" selects the JSON
// encoder; anything else selects the console encoder, unless env is
// production, which always logs JSON.
func New(env, level, format string) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(env, "production") || strings.EqualFold(format, "json") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// ParseLevel maps a level name to a zap level.  Unknown names mean info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewFile returns a logger that appends plain lines to path, creating the
// parent directory when needed.  It is used for the booking log, where every
// line is one message and no level or caller is wanted.
func NewFile(path string) (*zap.Logger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:     "time",
		MessageKey:  "msg",
		EncodeTime:  zapcore.ISO8601TimeEncoder,
		LineEnding:  zapcore.DefaultLineEnding,
		EncodeLevel: nil,
	})
	core := zapcore.NewCore(enc, zapcore.AddSync(f), zapcore.InfoLevel)
	return zap.New(core), nil
}
