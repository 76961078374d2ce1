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

func TestTierLeadDetector_Detect(t *testing.T) {
	now := time.Now().UTC()
	store := testhelpers.NewMemoryHistoryStore()
	detector := NewTierLeadDetector(store, logger.NewNop())

	batch := &Batch{
		Articles: []*domain.Article{batchArticle("a1", domain.TierEdge, now)},
		Entities: map[string][]domain.EntityWithSentiment{
			"a1": {batchEntity("Anthropic", domain.EntityTypeCompany, true, 0)},
		},
		Now: now,
	}

	out, err := detector.Detect(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, domain.SignalTierLead, out[0].SignalType)
	assert.Equal(t, "Anthropic", out[0].EntityName)
	assert.InDelta(t, 0.85, out[0].Confidence, 1e-9)
	assert.Equal(t, "Source a1", out[0].Metadata["source"])
}

func TestTierLeadDetector_MainstreamCoverageSuppresses(t *testing.T) {
	now := time.Now().UTC()
	store := testhelpers.NewMemoryHistoryStore()
	store.Seed(seedMention("Anthropic", domain.TierQuality, "Bloomberg", "old-1", now.Add(-12*time.Hour), 0))
	detector := NewTierLeadDetector(store, logger.NewNop())

	batch := &Batch{
		Articles: []*domain.Article{batchArticle("a1", domain.TierEdge, now)},
		Entities: map[string][]domain.EntityWithSentiment{
			"a1": {batchEntity("Anthropic", domain.EntityTypeCompany, true, 0)},
		},
		Now: now,
	}

	out, err := detector.Detect(context.Background(), batch)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestTierLeadDetector_StaleCoverageDoesNotCount(t *testing.T) {
	now := time.Now().UTC()
	store := testhelpers.NewMemoryHistoryStore()
	// Mainstream covered it, but outside the 48-hour window.
	store.Seed(seedMention("Anthropic", domain.TierMainstream, "CNBC", "old-1", now.Add(-72*time.Hour), 0))
	detector := NewTierLeadDetector(store, logger.NewNop())

	batch := &Batch{
		Articles: []*domain.Article{batchArticle("a1", domain.TierEdge, now)},
		Entities: map[string][]domain.EntityWithSentiment{
			"a1": {batchEntity("Anthropic", domain.EntityTypeCompany, true, 0)},
		},
		Now: now,
	}

	out, err := detector.Detect(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestTierLeadDetector_OnlyTierOneArticlesQualify(t *testing.T) {
	now := time.Now().UTC()
	store := testhelpers.NewMemoryHistoryStore()
	detector := NewTierLeadDetector(store, logger.NewNop())

	batch := &Batch{
		Articles: []*domain.Article{batchArticle("a1", domain.TierQuality, now)},
		Entities: map[string][]domain.EntityWithSentiment{
			"a1": {batchEntity("Anthropic", domain.EntityTypeCompany, true, 0)},
		},
		Now: now,
	}

	out, err := detector.Detect(context.Background(), batch)
	require.NoError(t, err)
	assert.Empty(t, out)
}
