//nolint:testpackage // Testing detector internals requires same package access
package signals

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/logger"
	"github.com/pressradar/signal-engine/internal/testhelpers"
)

func TestFirstMentionDetector_Detect(t *testing.T) {
	now := time.Now().UTC()
	store := testhelpers.NewMemoryHistoryStore()
	detector := NewFirstMentionDetector(store, logger.NewNop())

	batch := &Batch{
		Articles: []*domain.Article{
			batchArticle("a1", 1, now),
			batchArticle("a2", 2, now),
		},
		Entities: map[string][]domain.EntityWithSentiment{
			"a1": {batchEntity("Nvidia", domain.EntityTypeCompany, true, 0)},
			"a2": {
				batchEntity("Nvidia", domain.EntityTypeCompany, true, 0),
				batchEntity("Acme Robotics", domain.EntityTypeCompany, false, 0),
			},
		},
		Now: now,
	}

	out, err := detector.Detect(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, out, 3)

	// One signal per mentioning article, not one per entity.
	byEntity := make(map[string][]*domain.Signal)
	for _, s := range out {
		assert.Equal(t, domain.SignalFirstMention, s.SignalType)
		byEntity[s.EntityName] = append(byEntity[s.EntityName], s)
	}
	require.Len(t, byEntity["Nvidia"], 2)
	require.Len(t, byEntity["Acme Robotics"], 1)

	// Major entities score higher than watch terms.
	assert.InDelta(t, 0.9, byEntity["Nvidia"][0].Confidence, 1e-9)
	assert.InDelta(t, 0.7, byEntity["Acme Robotics"][0].Confidence, 1e-9)
}

func TestFirstMentionDetector_PriorHistorySuppresses(t *testing.T) {
	now := time.Now().UTC()
	store := testhelpers.NewMemoryHistoryStore()
	store.Seed(seedMention("Nvidia", 2, "Reuters", "old-1", now.Add(-72*time.Hour), 0))
	detector := NewFirstMentionDetector(store, logger.NewNop())

	batch := &Batch{
		Articles: []*domain.Article{batchArticle("a1", 1, now)},
		Entities: map[string][]domain.EntityWithSentiment{
			"a1": {batchEntity("Nvidia", domain.EntityTypeCompany, true, 0)},
		},
		Now: now,
	}

	out, err := detector.Detect(context.Background(), batch)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFirstMentionDetector_BatchRowsAreNotHistory(t *testing.T) {
	now := time.Now().UTC()
	store := testhelpers.NewMemoryHistoryStore()
	// The recorder has already written the batch's own rows; they must not
	// count as prior coverage.
	store.Seed(seedMention("Nvidia", 1, "The Information", "a1", now, 0))
	detector := NewFirstMentionDetector(store, logger.NewNop())

	batch := &Batch{
		Articles: []*domain.Article{batchArticle("a1", 1, now)},
		Entities: map[string][]domain.EntityWithSentiment{
			"a1": {batchEntity("Nvidia", domain.EntityTypeCompany, true, 0)},
		},
		Now: now,
	}

	out, err := detector.Detect(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a1", out[0].ArticleID)
}

func TestFirstMentionDetector_HistoryErrorPropagates(t *testing.T) {
	store := testhelpers.NewMemoryHistoryStore()
	store.Err = errors.New("connection refused")
	detector := NewFirstMentionDetector(store, logger.NewNop())

	now := time.Now().UTC()
	batch := &Batch{
		Articles: []*domain.Article{batchArticle("a1", 1, now)},
		Entities: map[string][]domain.EntityWithSentiment{
			"a1": {batchEntity("Nvidia", domain.EntityTypeCompany, true, 0)},
		},
		Now: now,
	}

	_, err := detector.Detect(context.Background(), batch)
	require.Error(t, err)
}
