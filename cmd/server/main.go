package main // Entry point package for the HTTP API

import (
	"context"   // shutdown deadline and startup timeouts
	"errors"    // matching http.ErrServerClosed
	"fmt"       // startup errors before the logger exists
	"net/http"  // ErrServerClosed and method names for CORS
	"os"        // exit codes
	"os/signal" // SIGINT/SIGTERM handling
	"syscall"   // SIGTERM
	"time"      // timeouts

	"github.com/google/uuid"                         // request id generator
	"github.com/joho/godotenv"                       // .env loading for local runs
	"github.com/labstack/echo/v4"                    // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Echo's stock middleware
	"github.com/spf13/pflag"                         // command-line flags
	"go.uber.org/zap"                                // structured logging

	"github.com/iliyamo/eventella/internal/config"     // environment configuration
	"github.com/iliyamo/eventella/internal/database"   // MySQL pool and schema
	"github.com/iliyamo/eventella/internal/handler"    // HTTP handlers
	"github.com/iliyamo/eventella/internal/logger"     // zap construction
	"github.com/iliyamo/eventella/internal/middleware" // auth, cache, rate limit, request log
	"github.com/iliyamo/eventella/internal/repository" // MySQL repositories
	"github.com/iliyamo/eventella/internal/router"     // route registration
	"github.com/iliyamo/eventella/internal/service"    // business logic
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	migrate := pflag.Bool("migrate", true, "create missing tables at startup")
	pflag.Parse()

	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load(*envFile)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Env, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log, *migrate); err != nil {
		log.Error("server stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.Logger, migrate bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	log.Info("database connected", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))

	if migrate {
		if err := database.Migrate(ctx, db, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Redis is optional: without it the cache and the limiter pass through.
	rdb, err := config.LoadRedisConfig().Connect(ctx)
	if err != nil {
		log.Warn("redis unavailable; response cache and rate limiting disabled", zap.Error(err))
	} else {
		defer rdb.Close()
	}
	rc := middleware.NewResponseCache(config.LoadCacheConfig(), rdb, log)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log)

	// Interface values stay nil unless the backing component exists.
	var catalogCache service.CatalogCache
	if rc != nil {
		catalogCache = rc
	}
	var publisher service.EventPublisher
	if cfg.QueueEnabled {
		publisher = service.NewAMQPPublisher(cfg.AMQPURL)
	}

	users := repository.NewUserRepo(db)
	events := repository.NewEventRepo(db)
	bookings := repository.NewBookingRepo(db)

	authSvc := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost)
	eventSvc := service.NewEventService(events, catalogCache, log)
	bookingSvc := service.NewBookingService(bookings, catalogCache, publisher, log)

	// Registration only creates plain users; the first admin comes from here.
	if migrate && cfg.AdminEmail != "" {
		admin, err := authSvc.EnsureAdmin(ctx, service.AdminInput{
			Name: cfg.AdminName, Email: cfg.AdminEmail, Password: cfg.AdminPassword,
		})
		if err != nil {
			log.Warn("admin bootstrap skipped", zap.String("email", cfg.AdminEmail), zap.Error(err))
		} else {
			log.Info("admin account ready", zap.Uint64("id", admin.ID), zap.String("email", admin.Email))
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(cfg.IsProduction(), log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodPatch, http.MethodOptions,
		},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RequestLogger(log))

	authn := middleware.JWTAuth(authSvc)
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc), authn, limiter)
	router.RegisterEvents(e, handler.NewEventHandler(eventSvc), authn, rc.Middleware())
	router.RegisterBookings(e, handler.NewBookingHandler(bookingSvc), authn)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env),
			zap.Bool("cache", rc != nil), zap.Bool("queue", publisher != nil))
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_ = bookingSvc.Close(flushCtx)
		cancel()
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = e.Shutdown(shutdownCtx)
	// in-flight requests are done; flush their booking events
	if cerr := bookingSvc.Close(shutdownCtx); cerr != nil {
		log.Warn("booking events not flushed", zap.Error(cerr))
	}
	return err
}
