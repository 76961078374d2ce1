package ranking

import (
	"context"
	"fmt"
	"time"

	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/logger"
)

// Fixed component weights. They sum to 100 before the significance
// multiplier is applied.
const (
	weightSourceAuthority = 30.0
	weightMagnitude       = 25.0
	weightAuthorityVoice  = 20.0
	weightStayingPower    = 15.0
	weightFirstReport     = 10.0

	magnitudeDivisor    = 40.0
	voiceDivisor        = 30.0
	stayingPowerDivisor = 25.0

	// How much of the content the keyword scans read.
	scanContentChars = 3000
)

// Bonuses keyed to an externally supplied story-type classification.
// Unknown or absent types contribute nothing.
var storyTypeBonus = map[string]float64{
	domain.StoryTypeBreaking:   12,
	domain.StoryTypeDeveloping: 8,
	domain.StoryTypeAnalysis:   6,
	domain.StoryTypeFeature:    4,
	domain.StoryTypeOpinion:    -2,
	domain.StoryTypeUpdate:     0,
}

// RankingStore persists scored results.
type RankingStore interface {
	Upsert(ctx context.Context, result *domain.RankingResult) error
}

// Scorer computes composite 0-100 ranking scores for a batch of articles.
// All five components are deterministic given the batch; the only I/O is the
// final upsert.
type Scorer struct {
	store RankingStore
	log   logger.Logger
}

func NewScorer(store RankingStore, log logger.Logger) *Scorer {
	return &Scorer{store: store, log: log}
}

// Score ranks every article in the batch and upserts the results. A store
// failure for one article is counted and the loop continues; the error count
// comes back alongside the results.
func (s *Scorer) Score(ctx context.Context, articles []*domain.Article, now time.Time) ([]*domain.RankingResult, int) {
	results := make([]*domain.RankingResult, 0, len(articles))
	errCount := 0

	for _, article := range articles {
		result := s.scoreOne(article, articles, now)
		results = append(results, result)

		if s.store == nil {
			continue
		}
		if err := s.store.Upsert(ctx, result); err != nil {
			errCount++
			s.log.Error("failed to store ranking result",
				logger.String("article_id", article.ID),
				logger.Error(err))
		}
	}

	return results, errCount
}

func (s *Scorer) scoreOne(article *domain.Article, batch []*domain.Article, now time.Time) *domain.RankingResult {
	text := scanText(article)

	breakdown := domain.ScoreBreakdown{
		SourceAuthority: sourceAuthorityScore(article.Tier()),
		Magnitude:       rescale(scorePatterns(text, magnitudePatterns), magnitudeDivisor, weightMagnitude),
		AuthorityVoice:  rescale(scorePatterns(text, voicePatterns), voiceDivisor, weightAuthorityVoice),
		StayingPower:    stayingPowerScore(text, article.StoryType),
		FirstReport:     firstReportScore(article, batch),
	}

	score := breakdown.Sum() * significanceMultiplier(article.SignificanceScore)
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return &domain.RankingResult{
		ArticleID:   article.ID,
		Score:       score,
		Breakdown:   breakdown,
		Title:       article.Title,
		URL:         article.URL,
		Topic:       article.Topic,
		SourceName:  article.SourceName,
		SourceTier:  article.Tier(),
		PublishedAt: article.PublishedAt,
		ScoredAt:    now,
	}
}

func scanText(article *domain.Article) string {
	content := article.Content
	if len(content) > scanContentChars {
		content = content[:scanContentChars]
	}
	return fmt.Sprintf("%s %s", article.Title, content)
}

func sourceAuthorityScore(tier int) float64 {
	switch tier {
	case domain.TierEdge:
		return weightSourceAuthority
	case domain.TierQuality:
		return weightSourceAuthority * 0.65
	default:
		return weightSourceAuthority * 0.33
	}
}

func stayingPowerScore(text, storyType string) float64 {
	raw := scorePatterns(text, originalPatterns) - scorePatterns(text, derivativePatterns)
	raw += storyTypeBonus[storyType]
	if raw < 0 {
		raw = 0
	}
	return rescale(raw, stayingPowerDivisor, weightStayingPower)
}

// rescale maps a raw keyword point sum into [0, max] against a fixed
// normalization divisor.
func rescale(raw, divisor, max float64) float64 {
	scaled := raw / divisor * max
	if scaled > max {
		return max
	}
	if scaled < 0 {
		return 0
	}
	return scaled
}

// significanceMultiplier maps an optional 1-10 rating into [0.76, 1.3].
// Zero means the rating is absent and the multiplier stays neutral.
func significanceMultiplier(significance int) float64 {
	if significance <= 0 {
		return 1.0
	}
	if significance > 10 {
		significance = 10
	}
	return 0.7 + float64(significance)/10*0.6
}
