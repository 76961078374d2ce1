// Command httpd serves the engine's read API: the ranked feed, per-article
// signals and rankings, entity mention history, and run statistics.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressradar/signal-engine/internal/api"
	"github.com/pressradar/signal-engine/internal/config"
	"github.com/pressradar/signal-engine/internal/database"
	"github.com/pressradar/signal-engine/internal/logger"
	"github.com/pressradar/signal-engine/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load(config.Path("config.yml"))
	if err != nil {
		panic(err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting signal engine API",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port))

	db, err := database.NewPostgresConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatal("database connection failed", logger.Error(err))
	}
	defer func() { _ = db.Close() }()

	handler := api.NewHandler(
		database.NewMentionRepository(db),
		database.NewSignalRepository(db),
		database.NewRankingRepository(db),
		nil, // no embedded poller; the processor daemon owns batch runs
		cfg.Feed,
		log,
	)

	tel := telemetry.NewProvider()
	server := api.NewServer(handler, tel, api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, log)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("server error", logger.Error(err))
	case sig := <-shutdown:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatal("graceful shutdown failed", logger.Error(err))
		}
		log.Info("server stopped")
	}
}
