package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	httpapi "github.com/i474232898/farmsight/internal/api/http"
	"github.com/i474232898/farmsight/internal/config"
	"github.com/i474232898/farmsight/internal/farm"
	"github.com/i474232898/farmsight/internal/scheduler"
	"github.com/i474232898/farmsight/internal/store"
	"github.com/i474232898/farmsight/internal/weather"
	"github.com/i474232898/farmsight/internal/weather/providers"
)

func main() {
	// Load configuration (also picks up an optional .env file).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound forecast calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	var limiter *rate.Limiter
	if cfg.FetchRatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Duration(float64(time.Minute)/cfg.FetchRatePerMinute)), 1)
	}
	fetcher := providers.NewOpenWeatherForecast(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherForecastURL, limiter)

	kv, closeKV := openKV(cfg)
	defer closeKV()

	dataset, err := farm.LoadDataset()
	if err != nil {
		log.Fatalf("failed to load farm dataset: %v", err)
	}

	resolver := weather.NewResolver(fetcher, store.NewForecastCache(kv), weather.ResolverConfig{
		CacheNamespace: cfg.CacheNamespace,
		CacheDuration:  cfg.CacheDuration,
		Zones:          dataset.ZoneIDs(),
		Events:         weather.LogEvents(),
	})

	var geo farm.ReverseGeocoder
	if g := farm.NewGoogleGeocoder(cfg.GeocoderAPIKey); g != nil {
		geo = g
	}

	session, err := farm.NewSession(context.Background(), resolver, kv, farm.SessionConfig{
		Namespace:       cfg.CacheNamespace,
		DefaultLocation: cfg.FarmLocation,
		Geocoder:        geo,
		Dataset:         dataset,
	})
	if err != nil {
		log.Fatalf("failed to create farm session: %v", err)
	}
	log.Printf("INFO: tracking %s", session.Location().Name)

	// Scheduler that periodically refreshes the forecast.
	sched := scheduler.New(session, cfg.RefreshInterval, cfg.HTTPTimeout+5*time.Second)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "farmsight",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout + 5*time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "farmsight",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, session)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// openKV returns the configured backing store. A redis backend that cannot
// be reached falls back to memory so the dashboard still serves static data.
func openKV(cfg *config.AppConfig) (store.KV, func()) {
	mem := store.NewMemoryKV(cfg.StoreMaxAge)
	if cfg.CacheBackend != config.BackendRedis {
		return mem, func() {}
	}

	rkv := store.NewRedisKV(store.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rkv.Ping(ctx); err != nil {
		log.Printf("ERROR: redis at %s unreachable, using in-memory store: %v", cfg.RedisAddr, err)
		_ = rkv.Close()
		return mem, func() {}
	}

	log.Printf("INFO: using redis store at %s", cfg.RedisAddr)
	return rkv, func() {
		if err := rkv.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}
}
