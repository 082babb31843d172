package main // booking log consumer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/iliyamo/eventella/internal/config"
	"github.com/iliyamo/eventella/internal/logger"
	"github.com/iliyamo/eventella/internal/queue"
)

// The consumer drains the booking lifecycle queues and appends one line per
// message to the booking log.  It runs as its own process so the API never
// blocks on the broker.
func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	logPath := pflag.String("log-file", "", "booking log path (overrides BOOKING_LOG_PATH)")
	pflag.Parse()

	_ = godotenv.Load(*envFile)
	cfg := config.LoadQueueConfig()
	if *logPath != "" {
		cfg.BookingLog = *logPath
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	out, err := logger.NewFile(cfg.BookingLog)
	if err != nil {
		log.Error("open booking log", zap.String("path", cfg.BookingLog), zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	defer func() { _ = out.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("booking-consumer: starting", zap.String("log", cfg.BookingLog))
	if err := queue.StartBookingConsumer(ctx, cfg.AMQPURL, out, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("booking-consumer: stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("booking-consumer: stopped")
}
