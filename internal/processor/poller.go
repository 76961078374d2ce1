package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/logger"
	"github.com/pressradar/signal-engine/internal/telemetry"
)

const defaultPollInterval = 30 * time.Second

// ArticleSource is the read/ack interface over the article store.
type ArticleSource interface {
	QueryPendingArticles(ctx context.Context, batchSize int) ([]*domain.Article, error)
	MarkProcessed(ctx context.Context, articleIDs []string, processedAt time.Time) error
}

// Poller polls the article store for pending articles and runs them through
// the pipeline.
type Poller struct {
	source    ArticleSource
	pipeline  *Pipeline
	limiter   *RateLimiter
	telemetry *telemetry.Provider
	log       logger.Logger

	batchSize    int
	pollInterval time.Duration

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}

	lastReport *RunReport
}

// PollerConfig holds poller configuration.
type PollerConfig struct {
	BatchSize    int
	PollInterval time.Duration
	QueryRPS     int
}

// NewPoller creates a poller. telemetry may be nil.
func NewPoller(source ArticleSource, pipeline *Pipeline, tel *telemetry.Provider, log logger.Logger, cfg PollerConfig) *Poller {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	return &Poller{
		source:       source,
		pipeline:     pipeline,
		limiter:      NewRateLimiter(cfg.QueryRPS, cfg.QueryRPS, log),
		telemetry:    tel,
		log:          log,
		batchSize:    cfg.BatchSize,
		pollInterval: cfg.PollInterval,
		stopChan:     make(chan struct{}),
	}
}

// Start launches the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return errors.New("poller is already running")
	}
	p.running = true

	p.log.Info("poller starting",
		logger.Int("batch_size", p.batchSize),
		logger.Duration("poll_interval", p.pollInterval))

	go p.run(ctx)
	return nil
}

// Stop stops the polling loop.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.log.Info("poller stopping")
	close(p.stopChan)
	p.running = false
}

// IsRunning reports whether the loop is active.
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// LastReport returns the most recent batch run report, or nil before the
// first run finishes.
func (p *Poller) LastReport() *RunReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastReport
}

func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	// Process immediately on start rather than waiting a full interval.
	if err := p.RunOnce(ctx); err != nil {
		p.log.Error("initial poll failed", logger.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			p.log.Info("poller stopped, context cancelled")
			return
		case <-p.stopChan:
			p.log.Info("poller stopped")
			return
		case <-ticker.C:
			if err := p.RunOnce(ctx); err != nil {
				p.log.Error("poll failed", logger.Error(err))
			}
		}
	}
}

// RunOnce performs one poll-process-ack cycle. Also the entry point for the
// cron scheduler, which triggers runs after ingestion cycles instead of
// polling continuously.
func (p *Poller) RunOnce(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	articles, err := p.source.QueryPendingArticles(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("query pending articles: %w", err)
	}
	if len(articles) == 0 {
		p.log.Debug("no pending articles")
		return nil
	}

	if p.telemetry != nil {
		p.telemetry.SetPendingBacklog(len(articles))
		for _, a := range articles {
			p.telemetry.RecordPollerLag(a.PublishedAt)
		}
	}

	report := p.pipeline.Run(ctx, articles)

	p.mu.Lock()
	p.lastReport = report
	p.mu.Unlock()

	// A partially failed run is still acked: every write is an idempotent
	// upsert, so re-processing buys nothing, and unacked articles would
	// wedge the queue.
	ids := make([]string, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	if err := p.source.MarkProcessed(ctx, ids, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark articles processed: %w", err)
	}

	return nil
}
