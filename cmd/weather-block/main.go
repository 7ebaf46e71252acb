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
	"github.com/sony/gobreaker"

	httpapi "github.com/i474232898/weather-block/internal/api/http"
	"github.com/i474232898/weather-block/internal/block"
	"github.com/i474232898/weather-block/internal/config"
	"github.com/i474232898/weather-block/internal/scheduler"
	"github.com/i474232898/weather-block/internal/store"
	"github.com/i474232898/weather-block/internal/weather"
	"github.com/i474232898/weather-block/internal/weather/providers"
)

func main() {
	// Load configuration (.env first, then environment).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	var geoBreaker, forecastBreaker *gobreaker.CircuitBreaker
	if cfg.UpstreamBreaker {
		geoBreaker = providers.NewBreaker("openmeteo-geocoding")
		forecastBreaker = providers.NewBreaker("openmeteo-forecast")
	}

	service := weather.NewService(
		providers.NewOpenMeteoGeocoder(httpClient, cfg.GeocodingURL, geoBreaker),
		providers.NewOpenMeteoProvider(httpClient, cfg.ForecastURL, forecastBreaker),
	)
	decorator := block.NewDecorator(service, cfg.DefaultCity)

	// Canary journal and scheduler.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	sched := scheduler.New(cfg.CanaryCities, cfg.CanaryInterval, decorator, memStore)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-block",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          40 * time.Second,
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
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-block",
		})
	})

	httpapi.RegisterRoutes(app, decorator, memStore)

	go func() {
		log.Printf("INFO: listening on :%s (default city %q)", cfg.Port, decorator.DefaultCity())
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
