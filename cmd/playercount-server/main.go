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

	httpapi "github.com/i474232898/playercount-ingestion/internal/api/http"
	"github.com/i474232898/playercount-ingestion/internal/config"
	"github.com/i474232898/playercount-ingestion/internal/ingest"
	"github.com/i474232898/playercount-ingestion/internal/playercount/minetrack"
	"github.com/i474232898/playercount-ingestion/internal/scheduler"
	"github.com/i474232898/playercount-ingestion/internal/storage"
	"github.com/i474232898/playercount-ingestion/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for the daily-file downloads.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	fetcher := minetrack.NewClient(httpClient, cfg.BaseURL, cfg.ServerIP)

	// In-memory view of the persisted series, backing the read API.
	memStore := store.NewMemoryStore()

	reload := func() error {
		series, err := storage.ReadSeries(cfg.OutputPath())
		if err != nil {
			return err
		}
		memStore.Replace(series)
		return nil
	}

	if err := reload(); err != nil {
		log.Printf("INFO: no output file yet (%v); run historical ingestion to bootstrap", err)
	}

	// Incremental ingestion, re-run on a schedule.
	service, err := ingest.NewService(string(ingest.ModeMostRecent), fetcher, cfg)
	if err != nil {
		log.Fatalf("failed to create ingestion service: %v", err)
	}

	sched := scheduler.New(cfg.IngestInterval, func(ctx context.Context) error {
		if err := service.Run(ctx); err != nil {
			return err
		}
		return reload()
	})
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "playercount-server",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
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

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "playercount-server",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, memStore)

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
