package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/gw2watch/spider/internal/config"
	"github.com/gw2watch/spider/internal/database"
	"github.com/gw2watch/spider/internal/feed"
	"github.com/gw2watch/spider/internal/queue"
	"github.com/gw2watch/spider/internal/spider"
	"github.com/gw2watch/spider/internal/store"
	"github.com/gw2watch/spider/internal/tradingpost"
	"github.com/gw2watch/spider/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/spider.local.yaml", "path to config file")
	flag.Parse()

	// Local overrides for ${VAR} substitution in the config file.
	godotenv.Load()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting spider",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"api_url", cfg.API.RestURL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Stores and trading post client
	items := store.NewItemStore(pool)
	snapshots := store.NewSnapshotStore(pool)

	client := tradingpost.NewClient(
		cfg.API.RestURL,
		cfg.API.Token,
		tradingpost.WithLogger(logger),
		tradingpost.WithTimeout(cfg.API.Timeout),
		tradingpost.WithRetries(cfg.API.MaxRetries, time.Second),
	)

	// Work queue and spider
	workQueue := queue.New()
	defer workQueue.Close()

	clock := spider.SystemClock()
	aggregator := spider.NewAggregator(client, snapshots, items, clock, logger)
	trending := spider.NewTrending(snapshots, items, clock, logger)
	sp := spider.New(items, aggregator, trending, workQueue, clock, logger)

	// Live feed
	hub := feed.NewHub(logger)
	defer hub.Close()

	// Dispatcher
	dispatcher := queue.NewDispatcher(queue.Config{
		Workers:      int64(cfg.Dispatch.Workers),
		CycleTimeout: cfg.Dispatch.CycleTimeout,
		RetryDelay:   cfg.Dispatch.RetryDelay,
	}, workQueue, sp, hub, logger)

	if err := dispatcher.Start(ctx); err != nil {
		logger.Error("failed to start dispatcher", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		dispatcher.Stop(shutdownCtx)
	}()

	// Feed and health server
	feedServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Feed.Port),
		Handler: createHandler(cfg.Feed.Path, hub, pool, workQueue, dispatcher, logger),
	}

	go func() {
		logger.Info("starting feed server", "port", cfg.Feed.Port, "path", cfg.Feed.Path)
		if err := feedServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("feed server error", "error", err)
		}
	}()

	// Seed the queue: every known item gets an immediate first poll, then
	// reschedules itself at its own cadence.
	ids, err := items.ListIDs(ctx)
	if err != nil {
		logger.Error("failed to list items", "error", err)
		os.Exit(1)
	}
	now := time.Now()
	for _, id := range ids {
		if err := workQueue.Enqueue(spider.NewWorkItem(id), now); err != nil {
			logger.Error("failed to seed queue", "item_id", id, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("spider running",
		"instance_id", cfg.Instance.ID,
		"items", len(ids),
		"workers", cfg.Dispatch.Workers,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Feed.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	feedServer.Shutdown(shutdownCtx)

	logger.Info("spider stopped")
}

// createHandler serves the WebSocket feed plus health and stats endpoints.
func createHandler(feedPath string, hub *feed.Hub, pool *pgxpool.Pool, q *queue.PriorityQueue, d *queue.Dispatcher, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.Handle(feedPath, hub)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string                 `json:"status"`
			Components map[string]interface{} `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]interface{}),
		}

		// Check database
		if err := pool.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["postgres"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["postgres"] = "connected"
		}

		// Check work queue
		queued := q.Len()
		health.Components["queue"] = map[string]interface{}{
			"queued": queued,
		}
		if queued == 0 {
			health.Status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/debug/stats", func(w http.ResponseWriter, r *http.Request) {
		completed, failed := d.Stats()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"queued":      q.Len(),
			"completed":   completed,
			"failed":      failed,
			"subscribers": hub.ClientCount(),
			"published":   hub.Published(),
		})
	})

	return mux
}
