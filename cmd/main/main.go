package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-digest/src/config"
	"stock-digest/src/data_source/finnhub"
	"stock-digest/src/data_source/yahoo"
	"stock-digest/src/interfaces"
	"stock-digest/src/logger"
	"stock-digest/src/models"
	"stock-digest/src/network"
	"stock-digest/src/notify"
	"stock-digest/src/scheduler"
	"stock-digest/src/server"
	"stock-digest/src/storage"
	"stock-digest/src/watchlist"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "path to config file")
	testRun := flag.Bool("test", false, "send one report synchronously and exit")
	flag.BoolVar(testRun, "t", false, "shorthand for -test")
	flag.Parse()

	// Load config (YAML file + .env / environment overrides)
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger.Setup(cfg.LogLevel, cfg.LogFile)
	appLogger := logger.NewLogger(cfg.Name)

	appLogger.Info("Stock digest service starting...")
	appLogger.Info("Email will be sent to: %s", cfg.Email.To)
	appLogger.Info("Schedule: %s", scheduler.DescribeCron(cfg.Schedule))

	// Watchlist persistence: durable Redis backend when reachable, env-file
	// fallback otherwise. The failed probe is non-fatal by design.
	envStore := storage.NewEnvFileStore(cfg.Storage.EnvPath, logger.NewLogger("EnvFileStore"))

	var backend interfaces.ISymbolBackend = envStore
	var fallback interfaces.ISymbolBackend
	var statusStore interfaces.IStatusStore
	durable := false

	if cfg.Storage.RedisURL != "" {
		redisStore, err := storage.NewRedisStore(cfg.Storage.RedisURL, logger.NewLogger("RedisStore"))
		if err != nil {
			appLogger.Warning("Durable backend unavailable, falling back to %s: %v", cfg.Storage.EnvPath, err)
		} else {
			backend = redisStore
			fallback = envStore
			statusStore = redisStore
			durable = true
			defer redisStore.Close()
		}
	} else {
		appLogger.Info("No Redis URL configured; stock symbols stored in %s", cfg.Storage.EnvPath)
	}

	// Seed order: env-file state, then configured defaults.
	seed := cfg.DefaultSymbols
	if persisted, found, err := envStore.LoadSymbols(); err == nil && found {
		seed = persisted
	}

	store := watchlist.NewStore(backend, fallback, durable, seed, logger.NewLogger("Watchlist"))
	appLogger.Info("Tracking stocks: %v", store.List())

	// Providers
	netMgr := network.NewNetworkManager(cfg.MConfig, logger.NewLogger("Network"))
	quotes := yahoo.NewQuoteSource(cfg.MConfig, netMgr)
	news := finnhub.NewNewsSource(cfg.MConfig, netMgr)

	// Notifier
	notifier := notify.NewEmailNotifier(cfg.Email)

	// Optional run history
	var history interfaces.IRunHistory
	if cfg.Storage.HistoryDBPath != "" {
		historyDB := storage.NewRunHistoryDB(cfg.Storage.HistoryDBPath, logger.NewLogger("RunHistory"))
		if err := historyDB.Initialize(); err != nil {
			appLogger.Warning("Run history disabled: %v", err)
		} else {
			history = historyDB
			defer historyDB.Close()
		}
	}

	// Scheduler + pipeline
	sched := scheduler.NewScheduler(cfg.MConfig, store, quotes, news, notifier, history, statusStore)

	if *testRun {
		appLogger.Info("Running test report...")
		if err := sched.Run(context.Background()); err != nil {
			appLogger.Error("Test report failed: %v", err)
		}
		return
	}

	// HTTP surface
	srv := server.NewWebServer(cfg, store, quotes, news, sched, history)

	// Each pipeline run feeds its quotes to the live websocket clients.
	sched.SetSnapshotHook(func(quotes []models.MQuote) {
		srv.Broadcast(&models.MLiveUpdate{
			Type:      "UPDATE",
			Data:      quotes,
			Timestamp: time.Now().Unix(),
		})
	})

	if err := sched.Start(); err != nil {
		appLogger.Critical("Failed to start scheduler: %v", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Critical("Server failed: %v", err)
		}
	}()

	appLogger.Info("Service is running. Press Ctrl+C to stop.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down service...")
	sched.Stop()
	srv.Stop()
}
