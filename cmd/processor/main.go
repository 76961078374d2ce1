// Command processor runs the batch pipeline as a daemon: on each scheduled
// tick it pulls pending articles from the article store, records entity
// mentions, runs the signal detectors, and scores the batch.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pressradar/signal-engine/internal/authority"
	"github.com/pressradar/signal-engine/internal/config"
	"github.com/pressradar/signal-engine/internal/database"
	"github.com/pressradar/signal-engine/internal/entity"
	"github.com/pressradar/signal-engine/internal/events"
	"github.com/pressradar/signal-engine/internal/logger"
	"github.com/pressradar/signal-engine/internal/processor"
	"github.com/pressradar/signal-engine/internal/ranking"
	"github.com/pressradar/signal-engine/internal/recorder"
	"github.com/pressradar/signal-engine/internal/signals"
	"github.com/pressradar/signal-engine/internal/storage"
	"github.com/pressradar/signal-engine/internal/telemetry"
)

const startupTimeout = 30 * time.Second

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

	log.Info("starting signal engine processor",
		logger.String("version", cfg.Service.Version),
		logger.String("cron", cfg.Service.CronSpec),
		logger.Int("batch_size", cfg.Service.BatchSize))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	startCtx, startCancel := context.WithTimeout(ctx, startupTimeout)
	esClient, err := storage.NewClient(startCtx, cfg.Elasticsearch)
	startCancel()
	if err != nil {
		log.Fatal("elasticsearch connection failed", logger.Error(err))
	}
	articleStore := storage.NewArticleStore(esClient, cfg.Elasticsearch.ArticleIndex)

	publisher, err := events.NewPublisher(cfg.Redis, log)
	if err != nil {
		log.Fatal("redis connection failed", logger.Error(err))
	}
	defer func() { _ = publisher.Close() }()

	tel := telemetry.NewProvider()

	mentionRepo := database.NewMentionRepository(db)
	signalRepo := database.NewSignalRepository(db)
	rankingRepo := database.NewRankingRepository(db)
	watchlistRepo := database.NewWatchlistRepository(db)

	pipeline := processor.NewPipeline(
		authority.New(),
		entity.NewBuilder(watchlistRepo, log),
		recorder.New(entity.NewKeywordExtractor(log), mentionRepo, log),
		signals.NewRunner(
			signals.DefaultDetectors(mentionRepo, articleStore, log),
			signalRepo,
			eventPublisher(publisher),
			log,
		),
		ranking.NewScorer(rankingRepo, log),
		tel,
		log,
	)

	poller := processor.NewPoller(articleStore, pipeline, tel, log, processor.PollerConfig{
		BatchSize:    cfg.Service.BatchSize,
		PollInterval: cfg.Service.PollInterval,
		QueryRPS:     cfg.Service.QueryRPS,
	})

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Service.CronSpec, func() {
		if err := poller.RunOnce(ctx); err != nil {
			log.Error("scheduled run failed", logger.Error(err))
		}
	}); err != nil {
		log.Fatal("invalid cron spec", logger.String("cron", cfg.Service.CronSpec), logger.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Process whatever is already pending instead of waiting for the first
	// tick.
	if err := poller.RunOnce(ctx); err != nil {
		log.Error("initial run failed", logger.Error(err))
	}

	go serveMetrics(cfg.Service.Port, tel, log)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown

	log.Info("shutdown signal received", logger.String("signal", sig.String()))
	cancel()
	<-scheduler.Stop().Done()
	log.Info("processor stopped")
}

// eventPublisher hides the nil-publisher case behind the runner's interface:
// a disabled Redis config yields a nil *events.Publisher, which must become
// a nil interface, not a non-nil interface holding a nil pointer.
func eventPublisher(p *events.Publisher) signals.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

func serveMetrics(port int, tel *telemetry.Provider, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", tel.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info("metrics server starting", logger.String("addr", addr))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("metrics server failed", logger.Error(err))
	}
}
