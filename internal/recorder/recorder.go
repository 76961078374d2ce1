// Package recorder persists entity mentions and produces the per-article
// entity map the signal detectors consume.
package recorder

import (
	"context"

	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/entity"
	"github.com/pressradar/signal-engine/internal/logger"
)

// writeBatchSize keeps a single failing write from blocking the whole run.
const writeBatchSize = 100

// MentionStore is the write side of the mention history.
type MentionStore interface {
	InsertBatch(ctx context.Context, mentions []domain.EntityMention) (int, error)
}

// Result carries the per-article entity map downstream so the detectors do
// not re-run extraction, plus write counters for the run report.
type Result struct {
	PerArticle map[string][]domain.EntityWithSentiment
	Recorded   int
	Errors     int
}

// Recorder runs extraction over a batch and appends mention history rows.
type Recorder struct {
	extractor entity.Extractor
	store     MentionStore
	log       logger.Logger
}

// New creates a recorder. store may be nil, in which case extraction still
// runs but nothing is persisted (the no-store degradation mode).
func New(extractor entity.Extractor, store MentionStore, log logger.Logger) *Recorder {
	return &Recorder{extractor: extractor, store: store, log: log}
}

// Record extracts entities for every article and upserts one history row per
// (article, entity). Write failures increment the error counter and the loop
// continues with the next sub-batch; re-runs are safe because inserts ignore
// duplicates.
func (r *Recorder) Record(ctx context.Context, articles []*domain.Article, dict *entity.Dictionary) *Result {
	result := &Result{
		PerArticle: make(map[string][]domain.EntityWithSentiment, len(articles)),
	}

	var pending []domain.EntityMention
	for _, article := range articles {
		extracted := r.extractor.Extract(article.Title, article.Content, dict)
		result.PerArticle[article.ID] = extracted

		for _, e := range extracted {
			pending = append(pending, domain.EntityMention{
				EntityName:     e.Name,
				EntityType:     e.Type,
				ArticleID:      article.ID,
				SourceTier:     article.Tier(),
				SourceName:     article.SourceName,
				SentimentLabel: e.SentimentLabel,
				SentimentScore: e.SentimentScore,
				// Publish time, not insertion time: every windowed
				// history query depends on this.
				DetectedAt: article.PublishedAt,
			})
		}
	}

	if r.store == nil {
		return result
	}

	for start := 0; start < len(pending); start += writeBatchSize {
		end := start + writeBatchSize
		if end > len(pending) {
			end = len(pending)
		}

		inserted, err := r.store.InsertBatch(ctx, pending[start:end])
		result.Recorded += inserted
		if err != nil {
			result.Errors++
			r.log.Warn("mention batch write failed",
				logger.Int("batch_start", start),
				logger.Int("batch_size", end-start),
				logger.Error(err))
		}
	}

	r.log.Debug("mention history recorded",
		logger.Int("articles", len(articles)),
		logger.Int("mentions", len(pending)),
		logger.Int("recorded", result.Recorded),
		logger.Int("errors", result.Errors))

	return result
}
