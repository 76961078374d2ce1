//nolint:testpackage // Testing detector internals requires same package access
package signals

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/logger"
	"github.com/pressradar/signal-engine/internal/testhelpers"
)

// Shared fixtures for the detector tests in this package.

func batchArticle(id string, tier int, publishedAt time.Time) *domain.Article {
	return &domain.Article{
		ID:          id,
		Title:       "Article " + id,
		URL:         "https://example.com/" + id,
		SourceName:  "Source " + id,
		SourceTier:  tier,
		PublishedAt: publishedAt,
	}
}

func batchEntity(name, entityType string, major bool, sentiment float64) domain.EntityWithSentiment {
	return domain.EntityWithSentiment{
		Entity:         domain.Entity{Name: name, Type: entityType, Major: major},
		SentimentScore: sentiment,
		SentimentLabel: domain.SentimentNeutral,
	}
}

func seedMention(name string, tier int, source, articleID string, at time.Time, sentiment float64) domain.EntityMention {
	return domain.EntityMention{
		EntityName:     name,
		EntityType:     domain.EntityTypeCompany,
		ArticleID:      articleID,
		SourceTier:     tier,
		SourceName:     source,
		SentimentScore: sentiment,
		DetectedAt:     at,
	}
}

func TestBatch_UniqueEntities(t *testing.T) {
	now := time.Now().UTC()
	batch := &Batch{
		Articles: []*domain.Article{
			batchArticle("a1", 1, now),
			batchArticle("a2", 2, now),
		},
		Entities: map[string][]domain.EntityWithSentiment{
			"a1": {batchEntity("Nvidia", domain.EntityTypeCompany, true, 0.5)},
			"a2": {
				batchEntity("nvidia", domain.EntityTypeCompany, true, -0.5),
				batchEntity("Tesla", domain.EntityTypeCompany, true, 0),
			},
		},
		Now: now,
	}

	unique := batch.UniqueEntities()
	require.Len(t, unique, 2)
	// Sorted by key, first occurrence wins the dedup.
	assert.Equal(t, "Nvidia", unique[0].Name)
	assert.InDelta(t, 0.5, unique[0].SentimentScore, 1e-9)
	assert.Equal(t, "Tesla", unique[1].Name)

	mentioning := batch.ArticlesMentioning("NVIDIA")
	require.Len(t, mentioning, 2)
	assert.Equal(t, "a1", mentioning[0].ID)
	assert.Equal(t, "a2", mentioning[1].ID)

	assert.Equal(t, []string{"a1", "a2"}, batch.ArticleIDs())
}

type stubDetector struct {
	name    string
	signals []*domain.Signal
	err     error
}

func (d *stubDetector) Name() string { return d.name }

func (d *stubDetector) Detect(_ context.Context, _ *Batch) ([]*domain.Signal, error) {
	return d.signals, d.err
}

type capturePublisher struct {
	mu        sync.Mutex
	published []*domain.Signal
}

func (p *capturePublisher) PublishSignal(_ context.Context, s *domain.Signal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, s)
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func TestRunner_Run(t *testing.T) {
	now := time.Now().UTC()
	store := testhelpers.NewMemorySignalStore()
	publisher := &capturePublisher{}

	detectors := []Detector{
		&stubDetector{name: "alpha", signals: []*domain.Signal{
			{ArticleID: "a1", SignalType: "alpha", EntityName: "Nvidia", Confidence: 0.9, DetectedAt: now},
			{ArticleID: "a2", SignalType: "alpha", EntityName: "Nvidia", Confidence: 0.9, DetectedAt: now},
		}},
		&stubDetector{name: "beta", signals: []*domain.Signal{
			{ArticleID: "a1", SignalType: "beta", EntityName: "Tesla", Confidence: 0.7, DetectedAt: now},
		}},
		&stubDetector{name: "gamma", err: errors.New("query timeout")},
	}

	runner := NewRunner(detectors, store, publisher, logger.NewNop())
	stats := runner.Run(context.Background(), &Batch{Now: now})

	assert.Equal(t, 3, stats.Detected)
	assert.Equal(t, 3, stats.Stored)
	assert.Equal(t, 2, stats.ByType["alpha"])
	assert.Equal(t, 1, stats.ByType["beta"])
	require.Len(t, stats.Failures, 1)
	assert.Len(t, store.All(), 3)
	assert.Equal(t, 3, publisher.count())
}

func TestRunner_RerunPublishesNothing(t *testing.T) {
	now := time.Now().UTC()
	store := testhelpers.NewMemorySignalStore()
	publisher := &capturePublisher{}

	detectors := []Detector{
		&stubDetector{name: "alpha", signals: []*domain.Signal{
			{ArticleID: "a1", SignalType: "alpha", EntityName: "Nvidia", Confidence: 0.9, DetectedAt: now},
		}},
	}

	runner := NewRunner(detectors, store, publisher, logger.NewNop())
	first := runner.Run(context.Background(), &Batch{Now: now})
	assert.Equal(t, 1, first.Stored)

	// The same batch again: the upsert dedups, so nothing is stored or
	// published twice.
	second := runner.Run(context.Background(), &Batch{Now: now})
	assert.Equal(t, 1, second.Detected)
	assert.Zero(t, second.Stored)
	assert.Len(t, store.All(), 1)
	assert.Equal(t, 1, publisher.count())
}

func TestRunner_NilStoreDetectsOnly(t *testing.T) {
	now := time.Now().UTC()
	detectors := []Detector{
		&stubDetector{name: "alpha", signals: []*domain.Signal{
			{ArticleID: "a1", SignalType: "alpha", Confidence: 0.9, DetectedAt: now},
		}},
	}

	runner := NewRunner(detectors, nil, nil, logger.NewNop())
	stats := runner.Run(context.Background(), &Batch{Now: now})

	assert.Equal(t, 1, stats.Detected)
	assert.Zero(t, stats.Stored)
}
