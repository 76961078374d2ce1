// Package signals implements the five early-signal detectors and the fan-out
// runner that executes them over a batch.
package signals

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/logger"
)

// Lookback windows shared by the detectors.
const (
	mainstreamWindow  = 48 * time.Hour
	convergenceWindow = 48 * time.Hour
	sentimentWindow   = 7 * 24 * time.Hour
	filingWindow      = 7 * 24 * time.Hour
	spikeWindow       = 14 * 24 * time.Hour
)

// Batch is the unit of work every detector sees: the current articles, the
// per-article entity map produced by the recorder, and the exclusion list
// used by history queries so the batch does not count as its own history.
type Batch struct {
	Articles []*domain.Article
	Entities map[string][]domain.EntityWithSentiment
	Now      time.Time
}

// ArticleIDs returns the exclusion list for history queries.
func (b *Batch) ArticleIDs() []string {
	ids := make([]string, 0, len(b.Articles))
	for _, a := range b.Articles {
		ids = append(ids, a.ID)
	}
	return ids
}

// UniqueEntities returns every distinct entity in the batch, keyed by
// lowercase name, in deterministic order.
func (b *Batch) UniqueEntities() []domain.EntityWithSentiment {
	seen := make(map[string]domain.EntityWithSentiment)
	for _, article := range b.Articles {
		for _, e := range b.Entities[article.ID] {
			key := e.Key()
			if _, ok := seen[key]; !ok {
				seen[key] = e
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]domain.EntityWithSentiment, 0, len(keys))
	for _, key := range keys {
		out = append(out, seen[key])
	}
	return out
}

// ArticlesMentioning returns the batch articles whose entity list contains
// the given entity key.
func (b *Batch) ArticlesMentioning(entityKey string) []*domain.Article {
	var out []*domain.Article
	for _, article := range b.Articles {
		for _, e := range b.Entities[article.ID] {
			if e.Key() == strings.ToLower(entityKey) {
				out = append(out, article)
				break
			}
		}
	}
	return out
}

// HistoryStore is the read side of the mention history.
type HistoryStore interface {
	HasPriorMention(ctx context.Context, entityKey string, excludeArticleIDs []string) (bool, error)
	MentionsForEntity(ctx context.Context, entityKey string, since time.Time, excludeArticleIDs []string, limit int) ([]domain.EntityMention, error)
	MentionsByTier(ctx context.Context, tiers []int, since time.Time, excludeArticleIDs []string, limit int) ([]domain.EntityMention, error)
}

// Detector is one independent signal detector. Implementations are pure
// read/compute-then-return; the runner owns persistence.
type Detector interface {
	Name() string
	Detect(ctx context.Context, batch *Batch) ([]*domain.Signal, error)
}

// SignalStore is the idempotent write side for detector output.
type SignalStore interface {
	Upsert(ctx context.Context, s *domain.Signal) (bool, error)
}

// EventPublisher pushes newly stored signals to downstream consumers.
// Publish failures are logged, never fatal.
type EventPublisher interface {
	PublishSignal(ctx context.Context, s *domain.Signal) error
}

// RunStats summarizes one detector fan-out.
type RunStats struct {
	Detected int
	Stored   int
	ByType   map[string]int
	Failures []error
	Duration time.Duration
}

// Runner executes all detectors concurrently and fans results back in. The
// detectors have no data dependency on one another; a failing detector is
// collected, not short-circuited, so one bad query never suppresses the
// other four.
type Runner struct {
	detectors []Detector
	store     SignalStore
	publisher EventPublisher
	log       logger.Logger
}

// NewRunner creates a runner. store and publisher may be nil; absence
// degrades to detection-only and no-event modes respectively.
func NewRunner(detectors []Detector, store SignalStore, publisher EventPublisher, log logger.Logger) *Runner {
	return &Runner{detectors: detectors, store: store, publisher: publisher, log: log}
}

// Run fans the batch out to every detector and stores whatever they emit.
func (r *Runner) Run(ctx context.Context, batch *Batch) *RunStats {
	start := time.Now()
	stats := &RunStats{ByType: make(map[string]int)}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, d := range r.detectors {
		wg.Add(1)
		go func(d Detector) {
			defer wg.Done()

			detected, err := d.Detect(ctx, batch)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				stats.Failures = append(stats.Failures, err)
				r.log.Warn("signal detector failed",
					logger.String("detector", d.Name()),
					logger.Error(err))
				return
			}

			stats.Detected += len(detected)
			stats.ByType[d.Name()] += len(detected)

			for _, s := range detected {
				if r.storeSignal(ctx, s) {
					stats.Stored++
				}
			}
		}(d)
	}

	wg.Wait()
	stats.Duration = time.Since(start)

	r.log.Info("signal detection complete",
		logger.Int("detected", stats.Detected),
		logger.Int("stored", stats.Stored),
		logger.Int("failures", len(stats.Failures)),
		logger.Duration("duration", stats.Duration))

	return stats
}

func (r *Runner) storeSignal(ctx context.Context, s *domain.Signal) bool {
	if r.store == nil {
		return false
	}

	inserted, err := r.store.Upsert(ctx, s)
	if err != nil {
		r.log.Warn("signal write failed",
			logger.String("article_id", s.ArticleID),
			logger.String("signal_type", s.SignalType),
			logger.Error(err))
		return false
	}

	if inserted && r.publisher != nil {
		if err := r.publisher.PublishSignal(ctx, s); err != nil {
			r.log.Warn("signal publish failed",
				logger.String("signal_type", s.SignalType),
				logger.Error(err))
		}
	}

	return inserted
}

// DefaultDetectors builds the standard set of five detectors.
func DefaultDetectors(history HistoryStore, filings FilingStore, log logger.Logger) []Detector {
	return []Detector{
		NewFirstMentionDetector(history, log),
		NewTierLeadDetector(history, log),
		NewConvergenceDetector(history, log),
		NewUnusualActivityDetector(history, filings, log),
		NewSentimentShiftDetector(history, log),
	}
}
