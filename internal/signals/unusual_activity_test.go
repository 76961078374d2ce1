//nolint:testpackage // Testing detector internals requires same package access
package signals

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/logger"
	"github.com/pressradar/signal-engine/internal/testhelpers"
)

func TestUnusualActivityDetector_WeekendFiling(t *testing.T) {
	saturday := time.Date(2026, 1, 3, 22, 15, 0, 0, time.UTC)
	require.Equal(t, time.Saturday, saturday.Weekday())
	now := saturday.Add(2 * time.Hour)

	store := testhelpers.NewMemoryHistoryStore()
	detector := NewUnusualActivityDetector(store, nil, logger.NewNop())

	filing := batchArticle("f1", domain.TierQuality, saturday)
	filing.DocumentType = "8-K"

	batch := &Batch{
		Articles: []*domain.Article{
			filing,
			batchArticle("a1", domain.TierQuality, saturday), // not a filing
		},
		Entities: map[string][]domain.EntityWithSentiment{},
		Now:      now,
	}

	out, err := detector.Detect(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "f1", out[0].ArticleID)
	assert.InDelta(t, 0.9, out[0].Confidence, 1e-9)
	assert.Equal(t, "weekend_filing", out[0].Metadata["reason"])
	assert.Equal(t, "Saturday", out[0].Metadata["weekday"])
}

func TestUnusualActivityDetector_WeekdayFilingIsNormal(t *testing.T) {
	monday := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, monday.Weekday())

	detector := NewUnusualActivityDetector(testhelpers.NewMemoryHistoryStore(), nil, logger.NewNop())

	filing := batchArticle("f1", domain.TierQuality, monday)
	filing.DocumentType = "10-K"

	batch := &Batch{
		Articles: []*domain.Article{filing},
		Entities: map[string][]domain.EntityWithSentiment{},
		Now:      monday,
	}

	out, err := detector.Detect(context.Background(), batch)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestUnusualActivityDetector_FilingBurst(t *testing.T) {
	monday := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	store := testhelpers.NewMemoryHistoryStore()
	filings := &testhelpers.StaticFilingStore{Counts: map[string]int{"Acme Corp": 4}}
	detector := NewUnusualActivityDetector(store, filings, logger.NewNop())

	filing := batchArticle("f1", domain.TierQuality, monday)
	filing.DocumentType = "8-K"

	batch := &Batch{
		Articles: []*domain.Article{filing},
		Entities: map[string][]domain.EntityWithSentiment{
			"f1": {batchEntity("Acme Corp", domain.EntityTypeCompany, false, 0)},
		},
		Now: monday,
	}

	out, err := detector.Detect(context.Background(), batch)
	require.NoError(t, err)

	var burst *domain.Signal
	for _, s := range out {
		if s.Metadata["reason"] == "filing_burst" {
			burst = s
		}
	}
	require.NotNil(t, burst)
	assert.Equal(t, "Acme Corp", burst.EntityName)
	assert.InDelta(t, 0.7, burst.Confidence, 1e-9)
	assert.Equal(t, 4, burst.Metadata["filing_count"])
}

func TestUnusualActivityDetector_FilerCompanyFromTitle(t *testing.T) {
	article := &domain.Article{Title: "Acme Corp - Form 8-K current report", DocumentType: "8-K"}
	assert.Equal(t, "Acme Corp", filerCompany(article, nil))

	// Company entity beats the title heuristic.
	entities := []domain.EntityWithSentiment{
		batchEntity("Globex", domain.EntityTypeCompany, false, 0),
	}
	assert.Equal(t, "Globex", filerCompany(article, entities))

	// Long titles without a separator are not company names.
	long := &domain.Article{Title: "Quarterly filings reviewed across the whole market today"}
	assert.Empty(t, filerCompany(long, nil))
}

func TestUnusualActivityDetector_MentionSpike(t *testing.T) {
	now := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)
	store := testhelpers.NewMemoryHistoryStore()

	// Steady baseline: one mention per day for the 13 trailing days.
	for i := 1; i <= 13; i++ {
		store.Seed(seedMention("Nvidia", domain.TierQuality, "Reuters",
			fmt.Sprintf("base-%d", i), now.AddDate(0, 0, -i), 0))
	}
	// Five mentions today.
	for i := 0; i < 5; i++ {
		store.Seed(seedMention("Nvidia", domain.TierQuality, "Reuters",
			fmt.Sprintf("today-%d", i), now.Add(-time.Duration(i)*time.Minute), 0))
	}

	detector := NewUnusualActivityDetector(store, nil, logger.NewNop())
	batch := &Batch{
		Articles: []*domain.Article{batchArticle("today-0", domain.TierQuality, now)},
		Entities: map[string][]domain.EntityWithSentiment{
			"today-0": {batchEntity("Nvidia", domain.EntityTypeCompany, true, 0)},
		},
		Now: now,
	}

	out, err := detector.Detect(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, out, 1)

	s := out[0]
	assert.Equal(t, "mention_spike", s.Metadata["reason"])
	assert.Equal(t, 5, s.Metadata["today_count"])
	// 5 today against a mean of 1: confidence saturates.
	assert.InDelta(t, 1.0, s.Confidence, 1e-9)
}

func TestUnusualActivityDetector_NoSpikeWithinNoise(t *testing.T) {
	now := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)
	store := testhelpers.NewMemoryHistoryStore()

	// Noisy baseline: alternating 0 and 4 mentions per day. Mean 2, stddev
	// 2, so today's 5 sits inside mean + 2*stddev.
	for i := 1; i <= 13; i++ {
		if i%2 == 1 {
			continue
		}
		for j := 0; j < 4; j++ {
			store.Seed(seedMention("Nvidia", domain.TierQuality, "Reuters",
				fmt.Sprintf("base-%d-%d", i, j), now.AddDate(0, 0, -i), 0))
		}
	}
	for i := 0; i < 5; i++ {
		store.Seed(seedMention("Nvidia", domain.TierQuality, "Reuters",
			fmt.Sprintf("today-%d", i), now.Add(-time.Duration(i)*time.Minute), 0))
	}

	detector := NewUnusualActivityDetector(store, nil, logger.NewNop())
	batch := &Batch{
		Articles: []*domain.Article{batchArticle("today-0", domain.TierQuality, now)},
		Entities: map[string][]domain.EntityWithSentiment{
			"today-0": {batchEntity("Nvidia", domain.EntityTypeCompany, true, 0)},
		},
		Now: now,
	}

	out, err := detector.Detect(context.Background(), batch)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestUnusualActivityDetector_ThinBaselineDoesNotFire(t *testing.T) {
	now := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)
	store := testhelpers.NewMemoryHistoryStore()

	// Only two baseline days carry data: not enough history to call a spike.
	store.Seed(
		seedMention("Nvidia", domain.TierQuality, "Reuters", "base-1", now.AddDate(0, 0, -1), 0),
		seedMention("Nvidia", domain.TierQuality, "Reuters", "base-2", now.AddDate(0, 0, -2), 0),
	)
	for i := 0; i < 5; i++ {
		store.Seed(seedMention("Nvidia", domain.TierQuality, "Reuters",
			fmt.Sprintf("today-%d", i), now.Add(-time.Duration(i)*time.Minute), 0))
	}

	detector := NewUnusualActivityDetector(store, nil, logger.NewNop())
	batch := &Batch{
		Articles: []*domain.Article{batchArticle("today-0", domain.TierQuality, now)},
		Entities: map[string][]domain.EntityWithSentiment{
			"today-0": {batchEntity("Nvidia", domain.EntityTypeCompany, true, 0)},
		},
		Now: now,
	}

	out, err := detector.Detect(context.Background(), batch)
	require.NoError(t, err)
	assert.Empty(t, out)
}
