//nolint:testpackage // Testing scorer internals requires same package access
package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressradar/signal-engine/internal/domain"
)

func TestTitleWords(t *testing.T) {
	words := titleWords(`Apple acquires "Anthropic" (sources say): a $3B deal!`)
	assert.Contains(t, words, "apple")
	assert.Contains(t, words, "acquires")
	assert.Contains(t, words, "anthropic")
	assert.Contains(t, words, "deal")
	// Short words and bare punctuation drop out.
	assert.NotContains(t, words, "a")
	assert.NotContains(t, words, "3b")
}

func TestTitleSimilarity(t *testing.T) {
	a := titleWords("Apple acquires startup Anthropic for billions")
	b := titleWords("Apple acquires Anthropic in landmark deal")
	c := titleWords("Lithium prices fall on oversupply")

	assert.InDelta(t, 0.6, titleSimilarity(a, b), 1e-9)
	assert.Zero(t, titleSimilarity(a, c))
	assert.Zero(t, titleSimilarity(a, map[string]struct{}{}))
}

func TestFirstReportScore_Race(t *testing.T) {
	base := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)

	first := rankArticle("a1", "Apple acquires Anthropic in landmark deal", domain.TierQuality, base)
	second := rankArticle("a2", "Apple acquires startup Anthropic for billions", domain.TierQuality, base.Add(5*time.Minute))
	third := rankArticle("a3", "Apple acquires Anthropic, sources say", domain.TierQuality, base.Add(10*time.Minute))
	batch := []*domain.Article{first, second, third}

	// Earliest quality source gets the discounted first-report score, the
	// followers get nothing.
	assert.InDelta(t, weightFirstReport*nonEdgeFirstFactor, firstReportScore(first, batch), 1e-9)
	assert.Zero(t, firstReportScore(second, batch))
	assert.Zero(t, firstReportScore(third, batch))
}

func TestFirstReportScore_EdgeSourceGetsFullScore(t *testing.T) {
	base := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)

	first := rankArticle("a1", "Apple acquires Anthropic in landmark deal", domain.TierEdge, base)
	second := rankArticle("a2", "Apple acquires startup Anthropic for billions", domain.TierQuality, base.Add(time.Hour))
	batch := []*domain.Article{first, second}

	assert.InDelta(t, weightFirstReport, firstReportScore(first, batch), 1e-9)
}

func TestFirstReportScore_UniqueStoryGetsBonus(t *testing.T) {
	base := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)

	unique := rankArticle("a1", "Rural broadband subsidies expanded", domain.TierMainstream, base)
	other := rankArticle("a2", "Apple acquires Anthropic in landmark deal", domain.TierEdge, base)
	batch := []*domain.Article{unique, other}

	assert.InDelta(t, uniquenessBonus, firstReportScore(unique, batch), 1e-9)
}

func TestFirstReportScore_TieBothCount(t *testing.T) {
	base := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)

	a := rankArticle("a1", "Apple acquires Anthropic in landmark deal", domain.TierQuality, base)
	b := rankArticle("a2", "Apple acquires startup Anthropic for billions", domain.TierQuality, base)
	batch := []*domain.Article{a, b}

	// Identical timestamps: neither published strictly before the other, so
	// both count as earliest.
	want := weightFirstReport * nonEdgeFirstFactor
	assert.InDelta(t, want, firstReportScore(a, batch), 1e-9)
	assert.InDelta(t, want, firstReportScore(b, batch), 1e-9)
}

func TestFirstReportScore_EmptyTitle(t *testing.T) {
	article := rankArticle("a1", "", domain.TierEdge, time.Now().UTC())
	require.Zero(t, firstReportScore(article, []*domain.Article{article}))
}
