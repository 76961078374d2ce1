//nolint:testpackage // Testing detector internals requires same package access
package signals

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/logger"
	"github.com/pressradar/signal-engine/internal/testhelpers"
)

func shiftBatch(now time.Time, sentiment float64) *Batch {
	return &Batch{
		Articles: []*domain.Article{batchArticle("a1", domain.TierQuality, now)},
		Entities: map[string][]domain.EntityWithSentiment{
			"a1": {batchEntity("Tesla", domain.EntityTypeCompany, true, sentiment)},
		},
		Now: now,
	}
}

func seedShiftHistory(store *testhelpers.MemoryHistoryStore, now time.Time, scores ...float64) {
	for i, score := range scores {
		store.Seed(seedMention("Tesla", domain.TierQuality, "Reuters",
			"prior-"+string(rune('a'+i)), now.Add(-time.Duration(i+1)*24*time.Hour), score))
	}
}

func TestSentimentShiftDetector_Detect(t *testing.T) {
	now := time.Now().UTC()
	store := testhelpers.NewMemoryHistoryStore()
	seedShiftHistory(store, now, -0.5, -0.5, -0.5)
	detector := NewSentimentShiftDetector(store, logger.NewNop())

	out, err := detector.Detect(context.Background(), shiftBatch(now, 0.2))
	require.NoError(t, err)
	require.Len(t, out, 1)

	s := out[0]
	assert.Equal(t, domain.SignalSentimentShift, s.SignalType)
	assert.Equal(t, "Tesla", s.EntityName)
	assert.Equal(t, "negative_to_positive", s.Metadata["direction"])
	assert.InDelta(t, 0.7, s.Confidence, 1e-9)
	assert.InDelta(t, -0.5, s.Metadata["historical_avg"].(float64), 1e-9)
	assert.InDelta(t, 0.7, s.Metadata["shift"].(float64), 1e-9)
	assert.Equal(t, 3, s.Metadata["history_samples"])
}

func TestSentimentShiftDetector_SmallShiftIgnored(t *testing.T) {
	now := time.Now().UTC()
	store := testhelpers.NewMemoryHistoryStore()
	seedShiftHistory(store, now, -0.1, 0, 0.1)
	detector := NewSentimentShiftDetector(store, logger.NewNop())

	out, err := detector.Detect(context.Background(), shiftBatch(now, 0.3))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSentimentShiftDetector_NeedsEnoughHistory(t *testing.T) {
	now := time.Now().UTC()
	store := testhelpers.NewMemoryHistoryStore()
	seedShiftHistory(store, now, -0.8, -0.8)
	detector := NewSentimentShiftDetector(store, logger.NewNop())

	out, err := detector.Detect(context.Background(), shiftBatch(now, 0.5))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSentimentShiftDetector_BatchExcludedFromBaseline(t *testing.T) {
	now := time.Now().UTC()
	store := testhelpers.NewMemoryHistoryStore()
	// Three history rows, but all belonging to the batch article itself.
	for i := 0; i < 3; i++ {
		store.Seed(seedMention("Tesla", domain.TierQuality, "Reuters", "a1",
			now.Add(-time.Duration(i+1)*time.Hour), -0.8))
	}
	detector := NewSentimentShiftDetector(store, logger.NewNop())

	out, err := detector.Detect(context.Background(), shiftBatch(now, 0.5))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSentimentShiftDetector_PositiveToNegative(t *testing.T) {
	now := time.Now().UTC()
	store := testhelpers.NewMemoryHistoryStore()
	seedShiftHistory(store, now, 0.6, 0.5, 0.4)
	detector := NewSentimentShiftDetector(store, logger.NewNop())

	out, err := detector.Detect(context.Background(), shiftBatch(now, -0.4))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "positive_to_negative", out[0].Metadata["direction"])
	assert.InDelta(t, 0.9, out[0].Confidence, 1e-9)
}
