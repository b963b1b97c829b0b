package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pristinarr/pristinarr/internal/api"
	"github.com/pristinarr/pristinarr/internal/config"
	"github.com/pristinarr/pristinarr/internal/history"
	"github.com/pristinarr/pristinarr/internal/logger"
	"github.com/pristinarr/pristinarr/internal/notification"
	"github.com/pristinarr/pristinarr/internal/runner"
	"github.com/pristinarr/pristinarr/internal/scheduler"
	"github.com/pristinarr/pristinarr/internal/settings"
)

func main() {
	// A .env file is a convenience for development; absence is fine.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
		BufferSize: 500,
	})
	defer log.Close()

	log.Info().
		Str("version", config.Version).
		Str("logLevel", cfg.Logging.Level).
		Msg("starting Pristinarr")

	store := settings.NewStore(cfg.Settings.Path, log.Logger)
	if err := store.Load(); err != nil {
		log.Fatal().Err(err).Str("path", cfg.Settings.Path).Msg("failed to load settings")
	}

	historyService := history.NewService(log.Logger)
	dispatcher := notification.NewDispatcher(store, log.Logger)
	runnerService := runner.NewService(store, historyService, dispatcher, log.Logger)

	schedulerService, err := scheduler.New(func(ctx context.Context) error {
		runnerService.RunAll(ctx, false)
		return nil
	}, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}

	schedCfg := store.Scheduler()
	if err := schedulerService.Reconfigure(schedCfg.Enabled, schedCfg.IntervalHours); err != nil {
		log.Warn().Err(err).Msg("failed to apply scheduler settings")
	}
	schedulerService.Start()

	server := api.NewServer(cfg, log, store, runnerService, historyService, schedulerService)

	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil {
			log.Info().Msg("server stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := schedulerService.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown failed")
	}
}
