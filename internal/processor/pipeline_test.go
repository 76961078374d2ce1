//nolint:testpackage // Testing pipeline internals requires same package access
package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressradar/signal-engine/internal/authority"
	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/entity"
	"github.com/pressradar/signal-engine/internal/logger"
	"github.com/pressradar/signal-engine/internal/ranking"
	"github.com/pressradar/signal-engine/internal/recorder"
	"github.com/pressradar/signal-engine/internal/signals"
	"github.com/pressradar/signal-engine/internal/testhelpers"
)

type pipelineFixture struct {
	pipeline *Pipeline
	history  *testhelpers.MemoryHistoryStore
	signals  *testhelpers.MemorySignalStore
	rankings *testhelpers.MemoryRankingStore
}

func newPipelineFixture() *pipelineFixture {
	log := logger.NewNop()
	history := testhelpers.NewMemoryHistoryStore()
	signalStore := testhelpers.NewMemorySignalStore()
	rankingStore := testhelpers.NewMemoryRankingStore()

	runner := signals.NewRunner(
		signals.DefaultDetectors(history, nil, log),
		signalStore, nil, log)

	pipeline := NewPipeline(
		authority.New(),
		entity.NewBuilder(nil, log),
		recorder.New(entity.NewKeywordExtractor(log), history, log),
		runner,
		ranking.NewScorer(rankingStore, log),
		nil, log)

	return &pipelineFixture{
		pipeline: pipeline,
		history:  history,
		signals:  signalStore,
		rankings: rankingStore,
	}
}

func TestPipeline_Run(t *testing.T) {
	f := newPipelineFixture()

	article := &domain.Article{
		ID:          "a1",
		Title:       "Nvidia lands billion dollar chip order",
		Content:     "Nvidia will supply the chips over three years.",
		URL:         "https://www.theinformation.com/articles/a1",
		SourceName:  "The Information",
		PublishedAt: time.Now().UTC().Add(-time.Hour),
	}

	report := f.pipeline.Run(context.Background(), []*domain.Article{article})
	require.NotNil(t, report)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 1, report.Articles)

	// The classifier backfilled the missing tier before anything ran.
	assert.Equal(t, domain.TierEdge, article.SourceTier)

	// One mention row for Nvidia, stamped with the publish time.
	assert.Equal(t, 1, report.MentionsRecorded)
	assert.Zero(t, report.MentionErrors)

	// A fresh entity from a tier-1 source with no mainstream coverage:
	// first-mention and tier-lead both fire.
	assert.NotEmpty(t, f.signals.ByType(domain.SignalFirstMention))
	assert.NotEmpty(t, f.signals.ByType(domain.SignalTierLead))
	assert.Equal(t, report.SignalsStored, len(f.signals.All()))
	assert.Zero(t, report.DetectorFailures)

	// The scorer ran in parallel and persisted a result.
	result := f.rankings.Get("a1")
	require.NotNil(t, result)
	assert.Positive(t, result.Score)
	assert.Zero(t, report.ScoreErrors)
}

func TestPipeline_RunIsIdempotent(t *testing.T) {
	f := newPipelineFixture()

	article := &domain.Article{
		ID:          "a1",
		Title:       "Nvidia lands billion dollar chip order",
		URL:         "https://www.theinformation.com/articles/a1",
		SourceName:  "The Information",
		PublishedAt: time.Now().UTC().Add(-time.Hour),
	}

	first := f.pipeline.Run(context.Background(), []*domain.Article{article})
	require.Positive(t, first.SignalsStored)
	storedOnce := len(f.signals.All())

	second := f.pipeline.Run(context.Background(), []*domain.Article{article})
	assert.Zero(t, second.MentionsRecorded)
	assert.Zero(t, second.SignalsStored)
	assert.Len(t, f.signals.All(), storedOnce)
	assert.Equal(t, 1, f.rankings.Len())
}

func TestPipeline_EmptyBatch(t *testing.T) {
	f := newPipelineFixture()

	report := f.pipeline.Run(context.Background(), nil)
	require.NotNil(t, report)
	assert.Zero(t, report.Articles)
	assert.Zero(t, report.SignalsDetected)
}

func TestPipeline_DetectorFailureDoesNotAbortRun(t *testing.T) {
	f := newPipelineFixture()
	// History reads fail after recording, so every history-backed detector
	// errors while the scorer still completes.
	article := &domain.Article{
		ID:          "a1",
		Title:       "Tesla announces new plant",
		URL:         "https://www.reuters.com/a1",
		SourceName:  "Reuters",
		SourceTier:  domain.TierQuality,
		PublishedAt: time.Now().UTC(),
	}

	f.history.Err = errors.New("history unavailable")
	report := f.pipeline.Run(context.Background(), []*domain.Article{article})

	assert.Positive(t, report.DetectorFailures)
	assert.NotNil(t, f.rankings.Get("a1"))
}
