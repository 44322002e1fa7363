package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pickarena/backend/internal/api"
	"github.com/pickarena/backend/internal/api/handlers"
	"github.com/pickarena/backend/internal/feed"
	"github.com/pickarena/backend/internal/live"
	"github.com/pickarena/backend/internal/quote"
	"github.com/pickarena/backend/internal/refresh"
	"github.com/pickarena/backend/internal/scheduler"
	"github.com/pickarena/backend/internal/store"
	"github.com/pickarena/backend/pkg/config"
	"github.com/pickarena/backend/pkg/database"
	"github.com/pickarena/backend/pkg/httputil"
	"github.com/pickarena/backend/pkg/logger"
	"github.com/pickarena/backend/pkg/metrics"
	"github.com/pickarena/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the contest API server",
	Long: `Start the contest API server.

Serves the contest REST API, the websocket live leaderboard, and runs
the scheduled price refresh in-process.

Example:
  go run ./cmd/stockpick api
  go run ./cmd/stockpick api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log := logger.New(cfg)
	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Connected to database")

	redisClient, err := redis.New(cfg, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	m := metrics.New(cfg.MetricsEnabled)

	// Quote resolution: rate-limited provider client behind a short-TTL
	// cache shared by search, joins and the refresh job.
	httpClient := httputil.New(cfg, log)
	quoteClient := quote.NewClient(cfg, httpClient, log)
	resolver := quote.NewCachedResolver(quoteClient, redis.NewCache(redisClient, "pickarena"))

	contestRepo := store.NewContestRepository(db.Pool)
	pickRepo := store.NewPickRepository(db.Pool)
	tickerRepo := store.NewTickerRepository(db.Pool)
	contestantRepo := store.NewContestantRepository(db.Pool)

	// Price change feed driving the live leaderboards
	listener := feed.NewListener(db.Pool, log, m)
	if err := listener.Start(context.Background()); err != nil {
		return fmt.Errorf("start price feed: %w", err)
	}

	manager := live.NewManager(contestRepo, pickRepo, contestantRepo, tickerRepo, listener, log, m)

	refresher := refresh.New(tickerRepo, resolver, log, m)

	sched := scheduler.New(log)
	if cfg.Refresh.Enabled {
		if err := sched.AddJob(refresh.NewJob(refresher, cfg.Refresh.Schedule, log)); err != nil {
			return fmt.Errorf("schedule refresh job: %w", err)
		}
	}
	sched.Start()

	router := api.NewRouter(api.Handlers{
		Stocks:   handlers.NewStockHandler(resolver, log),
		Contests: handlers.NewContestHandler(contestRepo, pickRepo, contestantRepo, tickerRepo, resolver, log),
		Refresh:  handlers.NewRefreshHandler(refresher, log),
		Jobs:     handlers.NewJobsHandler(sched),
		Live:     handlers.NewLiveHandler(manager, log),
	}, log, m, cfg.MetricsEnabled)

	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	sched.Stop()
	manager.Shutdown()
	listener.Stop()

	log.Info("Server stopped")
	return nil
}
