package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/voltscout/supplier-scraper/internal/api"
	"github.com/voltscout/supplier-scraper/internal/browser"
	"github.com/voltscout/supplier-scraper/internal/config"
	"github.com/voltscout/supplier-scraper/internal/database"
	"github.com/voltscout/supplier-scraper/internal/events"
	"github.com/voltscout/supplier-scraper/internal/jobs"
	"github.com/voltscout/supplier-scraper/internal/queue"
	"github.com/voltscout/supplier-scraper/internal/ratelimit"
	"github.com/voltscout/supplier-scraper/internal/scraper"
	"github.com/voltscout/supplier-scraper/internal/storage"
)

func main() {
	// Setup logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database connection
	db, err := database.New(ctx, cfg.DatabasePool())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Browser setup
	session, err := browser.New(cfg.BrowserOptions())
	if err != nil {
		logger.Error("failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer session.Close()

	// Event publisher writes through the transactional outbox
	publisher := events.NewPublisher(db, logger)

	// Redis client for the outbox relay
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	// Relay pumps outbox events to Redis streams
	relay := database.NewRelay(db, redisClient, logger, database.RelayConfig{
		PollInterval: time.Duration(cfg.Relay.PollSeconds) * time.Second,
		BatchSize:    cfg.Relay.BatchSize,
	})
	go func() {
		if err := relay.Start(ctx); err != nil && err != context.Canceled {
			logger.Error("relay stopped with error", "error", err)
		}
	}()

	// Snapshot store for serving latest results without a DB round trip
	snapshots, err := storage.NewSnapshotStore(cfg.Scraper.SnapshotFile)
	if err != nil {
		logger.Error("failed to open snapshot store", "error", err)
		os.Exit(1)
	}

	// Job manager and workers
	limiter := ratelimit.NewPolitenessDelay(
		time.Duration(cfg.Scraper.MinDelaySeconds)*time.Second,
		time.Duration(cfg.Scraper.MaxDelaySeconds)*time.Second,
	)
	jobQueue := queue.NewInMemoryQueue()
	defer jobQueue.Close()

	jobManager := jobs.NewManager(jobQueue, scraper.FromSession(session), limiter, jobs.Sinks{
		Store:     database.NewStore(db),
		Snapshots: snapshots,
		Publisher: publisher,
	}, logger)

	for i := 0; i < cfg.Scraper.Workers; i++ {
		go jobManager.StartWorker(ctx)
	}

	// API handlers
	handlers := api.NewHandlers(jobManager, snapshots, logger)

	// Setup Chi router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		pendingCount, _ := relay.GetPendingCount(r.Context())
		deadLetterCount, _ := relay.GetDeadLetterCount(r.Context())

		health := map[string]interface{}{
			"status": "ok",
			"outbox": map[string]interface{}{
				"pending":     pendingCount,
				"dead_letter": deadLetterCount,
			},
		}

		status := http.StatusOK
		if pendingCount > 1000 {
			health["status"] = "warning"
			health["message"] = "High number of pending outbox events"
		}
		if deadLetterCount > 100 {
			health["status"] = "error"
			health["message"] = "High number of dead letter events"
			status = http.StatusServiceUnavailable
		}

		w.WriteHeader(status)
		json.NewEncoder(w).Encode(health)
	})

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/scraper", func(r chi.Router) {
			r.Post("/jobs", handlers.CreateJob)
			r.Get("/jobs/{jobID}", handlers.GetJob)
			r.Get("/jobs", handlers.ListJobs)
			r.Get("/suppliers", handlers.ListSuppliers)
			r.Get("/results/{supplier}/{kind}", handlers.GetSnapshot)
		})

		r.Get("/stats", handlers.GetStats)
	})

	// Start server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server starting", "port", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
